package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"senior-house/internal/auth"
	"senior-house/internal/config"
	"senior-house/internal/db"
	"senior-house/internal/handlers"
	"senior-house/internal/middleware"
	"senior-house/internal/models"
	"senior-house/internal/observability"
	"senior-house/internal/rabbitmq"
	"senior-house/internal/repositories"
	"senior-house/internal/services"
	"senior-house/internal/storage"
	"senior-house/internal/telemetry"
	"senior-house/internal/ws"
)

const serviceName = "senior-house"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	shutdownTracing, err := observability.InitTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	mode, reason := rabbitmq.Mode(publisher)
	log.Printf("event publisher: mode=%s reason=%s", mode, reason)
	observability.SetPublisher(publisher)
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, serviceName, cfg.Environment)

	states := newStateStore(ctx, cfg.RedisURL)
	objects := newObjectStorage(ctx, cfg)

	store := repositories.NewStore(database)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	chats := services.NewChatService(store)
	apps := services.NewApplicationService(store, chats, audit)
	jobs := services.NewJobService(store, audit)
	users := services.NewUserService(store, tokens, objects, audit)
	resumes := services.NewResumeService(store, objects)

	hub := ws.NewHub()
	notifier := ws.NewNotifier(hub, chats)
	wsHandler := ws.NewHandler(hub, ws.NewDispatcher(hub, chats, notifier), tokens, originPolicy(cfg.CORSAllowedOrigins))

	authHandler := handlers.NewAuthHandler(users, auth.NewProviders(cfg), states)
	jobHandler := handlers.NewJobHandler(jobs, apps)
	appHandler := handlers.NewApplicationHandler(apps)
	chatHandler := handlers.NewChatHandler(chats, notifier)
	resumeHandler := handlers.NewResumeHandler(resumes)
	adminHandler := handlers.NewAdminHandler(users)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// middlewares
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestID())
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.GET("/auth/:provider/login", authHandler.OAuthLogin)
	router.GET("/auth/:provider/callback", authHandler.OAuthCallback)
	router.GET("/me", authMiddleware, authHandler.Me)
	router.POST("/me/business-registration", authMiddleware, authHandler.UploadBusinessRegistration)

	router.GET("/jobs", optionalAuth, jobHandler.List)
	router.POST("/jobs", authMiddleware, jobHandler.Create)
	router.GET("/jobs/:job_id", optionalAuth, jobHandler.Get)
	router.PUT("/jobs/:job_id", authMiddleware, jobHandler.Update)
	router.DELETE("/jobs/:job_id", authMiddleware, jobHandler.Delete)
	router.POST("/jobs/:job_id/bookmark", authMiddleware, jobHandler.ToggleBookmark)
	router.GET("/bookmarks", authMiddleware, jobHandler.ListBookmarks)

	router.POST("/jobs/:job_id/apply", authMiddleware, appHandler.Apply)
	router.GET("/jobs/:job_id/application-status", authMiddleware, appHandler.Status)
	router.GET("/jobs/:job_id/applications", authMiddleware, appHandler.ListForJob)
	router.POST("/jobs/:job_id/chat", authMiddleware, appHandler.OpenChat)
	router.GET("/applications", authMiddleware, appHandler.ListMine)
	router.PATCH("/applications/:application_id/status", authMiddleware, appHandler.UpdateStatus)

	router.GET("/chats", authMiddleware, chatHandler.ListRooms)
	router.GET("/chats/unread", authMiddleware, chatHandler.UnreadCount)
	router.GET("/chats/find-room/:job_id", authMiddleware, chatHandler.FindRoom)
	router.GET("/chats/:room_id/messages", authMiddleware, chatHandler.GetMessages)
	router.POST("/chats/:room_id/messages", authMiddleware, chatHandler.PostMessage)
	router.POST("/chats/:room_id/read", authMiddleware, chatHandler.MarkRead)
	router.POST("/chats/:room_id/leave", authMiddleware, chatHandler.Leave)

	router.GET("/resume", authMiddleware, resumeHandler.Get)
	router.PUT("/resume", authMiddleware, resumeHandler.Upsert)
	router.GET("/users/:user_id/resume", authMiddleware, resumeHandler.GetPublic)
	router.POST("/resume/certificates", authMiddleware, resumeHandler.AddCertificate)
	router.DELETE("/resume/certificates/:cert_id", authMiddleware, resumeHandler.DeleteCertificate)

	router.POST("/assistant/job-draft", authMiddleware, handlers.JobDraft)
	router.POST("/assistant/job-validate", authMiddleware, handlers.JobValidate)

	admin := router.Group("/admin", authMiddleware, middleware.RequireRole(models.RoleAdmin))
	admin.GET("/companies/pending", adminHandler.PendingCompanies)
	admin.POST("/companies/:user_id/approve", adminHandler.Approve)
	admin.POST("/companies/:user_id/reject", adminHandler.Reject)

	router.GET("/ws", wsHandler.Handle)

	handlers.RegisterDebugRoutes(router, audit, hub, cfg.DebugRoutes)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}

// newStateStore prefers Redis so OAuth state survives across instances.
func newStateStore(ctx context.Context, redisURL string) auth.StateStore {
	if redisURL == "" {
		log.Println("oauth state: in-memory store (REDIS_URL empty)")
		return auth.NewMemoryStateStore()
	}
	store, err := auth.NewRedisStateStore(ctx, redisURL)
	if err != nil {
		log.Printf("oauth state: redis unavailable, using memory: %v", err)
		return auth.NewMemoryStateStore()
	}
	return store
}

func newObjectStorage(ctx context.Context, cfg config.Config) storage.ObjectStorage {
	if cfg.S3Bucket == "" {
		log.Println("object storage: disabled (S3_BUCKET empty)")
		return storage.Unconfigured{}
	}
	s3, err := storage.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
	if err != nil {
		log.Printf("object storage: s3 init failed: %v", err)
		return storage.Unconfigured{}
	}
	return s3
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID", "X-Device-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// originPolicy applies the CORS allow list to websocket upgrades.
func originPolicy(origins []string) func(string) bool {
	if len(origins) == 0 {
		return nil
	}
	return func(origin string) bool { return slices.Contains(origins, origin) }
}
