package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Card         *CardHandler
	Purchase     *PurchaseHandler
	Subscription *SubscriptionHandler
	Statement    *StatementHandler
}

// RegisterRoutes registers all API routes
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/api/v1")

	cards := v1.Group("/cards")
	cards.POST("", h.Card.CreateCard)
	cards.GET("", h.Card.GetCards)
	cards.GET("/:id", h.Card.GetCard)
	cards.PUT("/:id", h.Card.UpdateCard)
	cards.DELETE("/:id", h.Card.DeleteCard)

	purchases := v1.Group("/purchases")
	purchases.POST("", h.Purchase.CreatePurchase)
	purchases.POST("/preview", h.Purchase.PreviewSchedule)
	purchases.GET("", h.Purchase.GetPurchases)
	purchases.GET("/:id", h.Purchase.GetPurchase)
	purchases.DELETE("/:id", h.Purchase.DeletePurchase)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.POST("", h.Subscription.CreateSubscription)
	subscriptions.GET("", h.Subscription.GetSubscriptions)
	subscriptions.GET("/:id", h.Subscription.GetSubscription)
	subscriptions.GET("/:id/purchases", h.Subscription.GetSubscriptionPurchases)
	subscriptions.POST("/:id/cancel", h.Subscription.CancelSubscription)

	statements := v1.Group("/statements")
	statements.GET("/history/:year", h.Statement.GetYearHistory)
	statements.GET("/:month", h.Statement.GetMonthStatement)
}
