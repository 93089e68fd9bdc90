package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/vietanh2810/inventory-api/docs"
	v1 "github.com/vietanh2810/inventory-api/internal/api/handler/v1"
	"github.com/vietanh2810/inventory-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/inventory-api/internal/api/middleware"
	"github.com/vietanh2810/inventory-api/internal/config"
	"github.com/vietanh2810/inventory-api/internal/repository"
	"github.com/vietanh2810/inventory-api/internal/repository/dao"
	"github.com/vietanh2810/inventory-api/internal/service"
)

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Metrics *middleware.Metrics
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	s := &Server{
		Config:  conf,
		Router:  engine,
		Metrics: middleware.NewMetrics(),
	}

	s.MountMiddlewares()

	itemHandler := s.initItemHandler(db)
	s.MountHandlers(itemHandler, v1.NewHealthcheckHandler(db))

	return s
}

func (s *Server) initItemHandler(db *gorm.DB) *v1.ItemHandler {
	itemDAO := dao.NewItemDAO(db)
	repo := repository.NewItemRepository(itemDAO)
	svc := service.NewItemService(repo)
	handler := v1.NewItemHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Recovery is needed unless we use gin.Default().
	s.Router.Use(gin.Recovery())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Trace(otel.Tracer("internal/api")))
	s.Router.Use(middleware.Collect(s.Metrics))
	s.Router.Use(middleware.Logger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(itemHandler *v1.ItemHandler, healthcheck gin.HandlerFunc) {
	items := s.Router.Group("/items")
	{
		items.POST("/", itemHandler.HandleCreateItem)
		items.GET("/", itemHandler.HandleListItems)
		items.GET("/search/", itemHandler.HandleSearchItems)
		items.GET("/:item_id", itemHandler.HandleGetItem)
		items.PUT("/:item_id", itemHandler.HandleUpdateItem)
		items.DELETE("/:item_id", itemHandler.HandleDeleteItem)
	}

	s.Router.GET("/", healthcheck)
	s.Router.GET(middleware.MetricsPath, gin.WrapH(s.Metrics.Handler()))

	s.Router.NoRoute(func(ctx *gin.Context) {
		response.RenderErr(ctx, response.ErrStatus(http.StatusNotFound))
	})
	s.Router.NoMethod(func(ctx *gin.Context) {
		response.RenderErr(ctx, response.ErrStatus(http.StatusMethodNotAllowed))
	})

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Title = "Inventory API"
	docs.SwaggerInfo.Description = "CRUD and search over inventory items."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
