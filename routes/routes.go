package routes

import (
	"net/http"
	"time"

	"autobid/handlers"
	"autobid/middleware"
	"autobid/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWizardRoutes registers the booking wizard endpoints.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wizards")
	{
		api.Use(middleware.RateLimitMiddleware(hb.RateLimitPerMinute))
		api.Use(middleware.ForwardAuthToken())

		api.POST("", hb.OpenWizardHandler)
		api.GET("/:id", hb.GetWizardHandler)
		api.DELETE("/:id", hb.CancelWizardHandler)

		api.PUT("/:id/services/:serviceId", hb.ToggleServiceHandler)
		api.PUT("/:id/delivery", hb.UpdateDeliveryHandler)
		api.PUT("/:id/contact", hb.UpdateContactHandler)
		api.PUT("/:id/evidence/:kind", hb.AttachEvidenceHandler)
		api.DELETE("/:id/evidence/:kind", hb.DetachEvidenceHandler)

		api.POST("/:id/next", hb.NextStageHandler)
		api.POST("/:id/back", hb.PreviousStageHandler)
		api.POST("/:id/catalogs/reload", hb.ReloadCatalogsHandler)
		api.POST("/:id/confirm", hb.ConfirmHandler)
	}
}

// RegisterReceiptRoutes registers receipt lookups.
func RegisterReceiptRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/receipts")
	{
		api.Use(middleware.ForwardAuthToken())
		api.GET("/:wizardId", hb.GetReceiptHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "autobid booking service"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestLogger(utils.GetLogger()))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-User-ID", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterWizardRoutes(r, hb)
	RegisterReceiptRoutes(r, hb)
}
