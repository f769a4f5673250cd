package routes

import (
	"net/http"
	"time"

	"carwash-backend/config"
	"carwash-backend/controllers"
	"carwash-backend/ledger"
	"carwash-backend/metrics"
	"carwash-backend/receipt"
	"carwash-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the handlers need.
type Dependencies struct {
	Config    config.Config
	Store     *ledger.Store
	Assistant services.Assistant
	Notifier  services.Notifier
	Scheduler *services.ReportScheduler
	Log       *zap.Logger
	Now       func() time.Time
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := deps.Config.CORSOrigins
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			for _, o := range origins {
				if o == origin {
					return true
				}
			}
			return false
		},
		MaxAge: 12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(deps.Log))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		metrics.NewCollector(deps.Store.Services, prometheus.Labels{"shop": deps.Config.Shop.Name}),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	shop := receipt.Shop{
		Name:     deps.Config.Shop.Name,
		TaxID:    deps.Config.Shop.TaxID,
		Address:  deps.Config.Shop.Address,
		Phone:    deps.Config.Shop.Phone,
		Currency: deps.Config.Shop.Currency,
	}

	serviceController := &controllers.ServiceController{
		Store:         deps.Store,
		Notifier:      deps.Notifier,
		NotifyOnReady: deps.Config.NotifyOnReady,
		ShopName:      deps.Config.Shop.Name,
		Log:           deps.Log,
	}
	receiptController := &controllers.ReceiptController{
		Store:         deps.Store,
		Shop:          shop,
		CountryPrefix: deps.Config.PhoneCountryPrefix,
		Now:           deps.Now,
		Log:           deps.Log,
	}
	customerController := &controllers.CustomerController{Store: deps.Store}
	dashboardController := &controllers.DashboardController{Store: deps.Store, Log: deps.Log.Named("dashboard")}
	reportController := &controllers.ReportController{Store: deps.Store, Assistant: deps.Assistant, Scheduler: deps.Scheduler}
	conversationController := &controllers.ConversationController{
		Store:         deps.Store,
		Assistant:     deps.Assistant,
		CountryPrefix: deps.Config.PhoneCountryPrefix,
	}
	adminController := &controllers.AdminController{Store: deps.Store, Log: deps.Log}

	api := r.Group("/api")
	{
		// Service routes
		svc := api.Group("/services")
		{
			svc.GET("", serviceController.GetServices)
			svc.POST("", serviceController.CreateService)
			svc.GET("/:id", serviceController.GetService)
			svc.PUT("/:id", serviceController.UpdateService)
			svc.DELETE("/:id", serviceController.DeleteService)
			svc.POST("/:id/start", serviceController.Transition(ledger.ActionStart))
			svc.POST("/:id/finish", serviceController.Transition(ledger.ActionFinish))
			svc.POST("/:id/deliver", serviceController.Transition(ledger.ActionDeliver))
			svc.PUT("/:id/status", serviceController.SetStatus)

			svc.GET("/:id/receipt", receiptController.GetReceipt)
			svc.GET("/:id/receipt.pdf", receiptController.GetReceiptPDF)
			svc.GET("/:id/whatsapp", receiptController.GetWhatsAppLink)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.GET("", customerController.GetCustomers)
			customers.POST("", customerController.CreateCustomer)
			customers.GET("/:id", customerController.GetCustomer)
			customers.DELETE("/:id", customerController.DeleteCustomer)
		}

		// Inbox routes
		conversations := api.Group("/conversations")
		{
			conversations.GET("", conversationController.GetConversations)
			conversations.POST("", conversationController.CreateConversation)
			conversations.DELETE("/:id", conversationController.DeleteConversation)
			conversations.POST("/:id/messages", conversationController.SendMessage)
			conversations.POST("/:id/suggest-reply", conversationController.SuggestReply)
			conversations.GET("/:id/whatsapp", conversationController.GetWhatsAppLink)
		}

		api.GET("/dashboard", dashboardController.GetDashboardOverview)
		api.POST("/reports/daily", reportController.GenerateDailyReport)
		api.POST("/admin/reset", adminController.Reset)
	}

	return r
}
