package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/assignment"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/attendance"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/auth"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/cloudinary"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/config"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/event"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/handler"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/leave"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/mentoring"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/notification"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/queue"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/realtime"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/store"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/upload"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/user"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("api: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Close(ctx)
	}()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := db.EnsureIndexes(ctx); err != nil {
			cancel()
			return err
		}
		cancel()
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		jobs = queue.NewInMemory(256)
	} else {
		jobs = queue.NewRedisQueue(redisClient.Client, "campusconnect:jobs")
	}

	var storage upload.Storage
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		storage = &upload.Cloudinary{Client: cloudinary.New(
			cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)}
		log.Println("uploads: cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		local, err := upload.NewLocal(cfg.UploadDir)
		if err != nil {
			return err
		}
		storage = local
		log.Println("uploads: local directory:", cfg.UploadDir)
	}

	userRepo := user.NewRepository(db.Database)
	users := user.NewService(userRepo, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.TokenTTL)
	notifications := notification.NewService(notification.NewRepository(db.Database))

	hub := realtime.NewHub()
	dispatcher := &event.Dispatcher{
		Notifications: notifications,
		Hub:           hub,
		Jobs:          jobs,
	}

	h := &handler.Handler{
		Users:         users,
		Assignments:   assignment.NewService(assignment.NewRepository(db.Database), userRepo, cfg.FrontendURL),
		Attendance:    attendance.NewService(attendance.NewRepository(db.Database), userRepo),
		Leaves:        leave.NewService(leave.NewRepository(db.Database), userRepo),
		Mentoring:     mentoring.NewService(mentoring.NewRepository(db.Database), userRepo),
		Notifications: notifications,
		Auth: &auth.Middleware{
			SigningKey: cfg.JWTSigningKey,
			Issuer:     cfg.JWTIssuer,
			Users:      users,
		},
		Dispatcher: dispatcher,
		Hub:        hub,
		Storage:    storage,
		DB:         db,
		Redis:      redisClient,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.Router(cfg.FrontendURL, cfg.UploadDir, cfg.RateLimitPerMin),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}

	log.Println("api exited")
	return nil
}
