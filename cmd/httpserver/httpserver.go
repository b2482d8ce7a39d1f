// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/assignservice"
	"github.com/linguamarket/lingua/internal/assignworker"
	"github.com/linguamarket/lingua/internal/gateway"
	"github.com/linguamarket/lingua/internal/geoip"
	"github.com/linguamarket/lingua/internal/ledgerdelivery"
	"github.com/linguamarket/lingua/internal/ledgerrepo"
	"github.com/linguamarket/lingua/internal/ledgerservice"
	"github.com/linguamarket/lingua/internal/messagedelivery"
	"github.com/linguamarket/lingua/internal/messagerepo"
	"github.com/linguamarket/lingua/internal/messageservice"
	"github.com/linguamarket/lingua/internal/middleware"
	"github.com/linguamarket/lingua/internal/notificationdelivery"
	"github.com/linguamarket/lingua/internal/notificationrepo"
	"github.com/linguamarket/lingua/internal/notificationservice"
	"github.com/linguamarket/lingua/internal/profiledelivery"
	"github.com/linguamarket/lingua/internal/profilerepo"
	"github.com/linguamarket/lingua/internal/profileservice"
	"github.com/linguamarket/lingua/internal/projectdelivery"
	"github.com/linguamarket/lingua/internal/projectrepo"
	"github.com/linguamarket/lingua/internal/projectservice"
	"github.com/linguamarket/lingua/internal/userdelivery"
	"github.com/linguamarket/lingua/internal/userrepo"
	"github.com/linguamarket/lingua/internal/userservice"
	"github.com/linguamarket/lingua/pkg/configpkg"
	"github.com/linguamarket/lingua/pkg/currencypkg"
	"github.com/linguamarket/lingua/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Worker *assignworker.Worker
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, cache *redis.Client, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)
	profileRepo := profilerepo.NewRepoPGS(conn)
	projectRepo := projectrepo.NewRepoPGS(conn)
	notificationRepo := notificationrepo.NewRepoPGS(conn)
	messageRepo := messagerepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	gatewayClient := gateway.NewClient(config)
	geoClient := geoip.NewClient(config.GeoIPBaseURL, cache)

	notificationService := notificationservice.New(notificationRepo)
	profileService := profileservice.New(profileRepo)
	userService := userservice.New(userRepo, geoClient, notificationService)
	messageService := messageservice.New(messageRepo, projectRepo, userService, notificationService)
	assignService := assignservice.New(projectRepo, profileService, userService, notificationService, messageService)
	worker := assignworker.New(assignService, projectRepo, logger)
	projectService := projectservice.New(projectRepo, worker, notificationService)
	ledgerService := ledgerservice.New(ledgerRepo, userService, projectRepo, gatewayClient, notificationService)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	profileHandler := profiledelivery.NewHandler(profileService)
	projectHandler := projectdelivery.NewHandler(projectService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	notificationHandler := notificationdelivery.NewHandler(notificationService)
	messageHandler := messagedelivery.NewHandler(messageService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.GET("/translators", profileHandler.List)
	engine.GET("/translators/:username", profileHandler.Get)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/users/me", userHandler.Me)
	authRoutes.PATCH("/users/currency", userHandler.ChangeCurrency)

	authRoutes.POST("/translators", profileHandler.Create)
	authRoutes.PATCH("/translators/availability", profileHandler.SetAvailability)

	authRoutes.POST("/projects", projectHandler.Create)
	authRoutes.GET("/projects", projectHandler.List)
	authRoutes.GET("/projects/:id", projectHandler.Get)
	authRoutes.PATCH("/projects/:id/status", projectHandler.UpdateStatus)
	authRoutes.DELETE("/projects/:id", projectHandler.Delete)
	authRoutes.POST("/projects/:id/pay", ledgerHandler.Pay)

	authRoutes.POST("/wallet/deposits", ledgerHandler.InitiateDeposit)
	authRoutes.POST("/wallet/deposits/confirm", ledgerHandler.ConfirmDeposit)
	authRoutes.POST("/wallet/withdrawals", ledgerHandler.Withdraw)
	authRoutes.GET("/wallet/balance", ledgerHandler.Balance)
	authRoutes.GET("/wallet/balance/derived", ledgerHandler.DerivedBalance)
	authRoutes.GET("/wallet/transactions", ledgerHandler.History)
	authRoutes.GET("/platform/balance", ledgerHandler.PlatformBalance)
	authRoutes.GET("/platform/transactions", ledgerHandler.PlatformHistory)

	authRoutes.GET("/notifications", notificationHandler.List)
	authRoutes.GET("/notifications/unread", notificationHandler.UnreadCount)
	authRoutes.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	authRoutes.POST("/notifications/read-all", notificationHandler.MarkAllRead)

	authRoutes.POST("/projects/:id/messages", messageHandler.Post)
	authRoutes.GET("/projects/:id/messages", messageHandler.List)
	authRoutes.GET("/messages/unread", messageHandler.UnreadCount)

	if err := currencypkg.RegisterCurrencyValidator(); err != nil {
		return nil, errors.New("cannot register currency validator")
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Worker: worker,
		Config: config,
	}

	return server, nil
}
