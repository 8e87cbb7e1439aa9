package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"teamchat-service/internal/auth"
	"teamchat-service/internal/chat"
	"teamchat-service/internal/config"
	"teamchat-service/internal/db"
	"teamchat-service/internal/handlers"
	"teamchat-service/internal/middleware"
	"teamchat-service/internal/observability"
	"teamchat-service/internal/rabbitmq"
	"teamchat-service/internal/repositories"
	"teamchat-service/internal/telemetry"
	"teamchat-service/internal/ws"
)

func main() {
	cfg := config.FromEnv()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracing(context.Background(), cfg.Service, cfg.OTLPEndpoint)
		if err != nil {
			log.Fatalf("failed to init tracing: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange)
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, "audit_log.teamchat", cfg.Service, cfg.Environment)

	if wsPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AuditExchange); err == nil {
		observability.SetPublisher(wsPublisher)
		defer wsPublisher.Close()
	} else {
		log.Printf("ws event publishing disabled: %v", err)
	}

	orgRepo := repositories.NewOrgRepo(database)
	userRepo := repositories.NewUserRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewHasher(cfg.BcryptCost)

	// One hub instance, handed to both the request-response layer and the
	// live-connection layer. No ambient global lookup.
	hub := ws.NewHub()
	authority := chat.NewAuthority(groupRepo)
	messageService := chat.NewMessageService(authority, messageRepo, hub)

	authHandler := handlers.NewAuthHandler(orgRepo, userRepo, tokens, hasher, audit)
	groupHandler := handlers.NewGroupHandler(groupRepo, userRepo, audit)
	messageHandler := handlers.NewMessageHandler(messageService, audit)
	socketHandler := ws.NewSocketHandler(hub, tokens, authority, messageService)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(cfg.Service))

	authenticated := middleware.Authenticate(tokens)
	adminOnly := middleware.RequireAdmin()

	router.POST("/auth/register-org-admin", authHandler.RegisterOrgAdmin)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/invite-member", authenticated, adminOnly, authHandler.InviteMember)

	router.POST("/groups", authenticated, adminOnly, groupHandler.CreateGroup)
	router.GET("/groups", authenticated, groupHandler.ListGroups)
	router.POST("/groups/:group_id/members", authenticated, adminOnly, groupHandler.AddMember)
	router.GET("/groups/:group_id/messages", authenticated, messageHandler.GetMessages)
	router.POST("/groups/:group_id/messages", authenticated, messageHandler.PostMessage)

	router.GET("/ws", socketHandler.Handle)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
