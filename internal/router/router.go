package router

import (
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/handlers"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/middleware"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func Router(svcs *service.Services, db handlers.Pinger, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.AccessLog(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	health := handlers.NewHealthHandler(db, log)
	r.GET("/health", health.Health)

	customers := handlers.NewCustomerHandler(svcs.Customers, log)
	products := handlers.NewProductHandler(svcs.Products, log)
	orders := handlers.NewOrderHandler(svcs.Orders, log)
	stats := handlers.NewStatsHandler(svcs.Reports, log)

	v1 := r.Group("/api/v1")
	{
		c := v1.Group("/customers")
		c.POST("", customers.Create)
		c.POST("/bulk", customers.BulkCreate)
		c.POST("/cleanup", customers.Cleanup)
		c.GET("", customers.List)
		c.GET("/:id", customers.Get)
		c.DELETE("/:id", customers.Delete)

		p := v1.Group("/products")
		p.POST("", products.Create)
		p.POST("/replenish", products.Replenish)
		p.GET("", products.List)
		p.GET("/:id", products.Get)
		p.DELETE("/:id", products.Delete)

		o := v1.Group("/orders")
		o.POST("", orders.Create)
		o.GET("", orders.List)
		o.GET("/:id", orders.Get)

		s := v1.Group("/stats")
		s.GET("", stats.Summary)
		s.GET("/customers", stats.Customers)
		s.GET("/orders", stats.Orders)
		s.GET("/revenue", stats.Revenue)
	}

	return r
}
