package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ikonbethel/alx-files-manager/internal/config"
	"github.com/ikonbethel/alx-files-manager/internal/database"
	"github.com/ikonbethel/alx-files-manager/internal/handlers"
	"github.com/ikonbethel/alx-files-manager/internal/middleware"
	"github.com/ikonbethel/alx-files-manager/internal/queue"
	"github.com/ikonbethel/alx-files-manager/internal/repository"
	"github.com/ikonbethel/alx-files-manager/internal/services"
	"github.com/ikonbethel/alx-files-manager/internal/session"
	"github.com/ikonbethel/alx-files-manager/internal/storage"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger.Init()

	cfg := config.Load()

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	sessions := session.NewStore(rdb)
	users := repository.NewUsers(db.Database())
	files := repository.NewFiles(db.Database())
	disk := storage.NewDisk(cfg.Storage.FolderPath)

	queueClient := queue.NewClient(cfg.Redis, cfg.Queue)
	defer queueClient.Close()

	uploadService := services.NewUploadService(sessions, files, disk, queueClient)
	retrievalService := services.NewRetrievalService(sessions, files, disk)

	appHandler := handlers.NewAppHandler(sessions, db, users, files)
	usersHandler := handlers.NewUsersHandler(users, queueClient)
	authHandler := handlers.NewAuthHandler(sessions, users, cfg.Session.TTL)
	filesHandler := handlers.NewFilesHandler(files, uploadService, retrievalService)

	authMiddleware := middleware.NewAuthMiddleware(sessions, users)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	app.Get("/status", appHandler.GetStatus)
	app.Get("/stats", appHandler.GetStats)

	app.Post("/users", usersHandler.PostNew)
	app.Get("/users/me", authMiddleware.RequireAuth, usersHandler.GetMe)

	app.Get("/connect", authHandler.GetConnect)
	app.Get("/disconnect", authMiddleware.RequireAuth, authHandler.GetDisconnect)

	app.Post("/files", filesHandler.PostUpload)
	app.Get("/files/:id/data", filesHandler.GetData)
	app.Get("/files/:id", authMiddleware.RequireAuth, filesHandler.GetShow)
	app.Get("/files", authMiddleware.RequireAuth, filesHandler.GetIndex)
	app.Put("/files/:id/publish", authMiddleware.RequireAuth, filesHandler.PutPublish)
	app.Put("/files/:id/unpublish", authMiddleware.RequireAuth, filesHandler.PutUnpublish)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":        cfg.Server.Port,
		"address":     listenAddr,
		"folder_path": cfg.Storage.FolderPath,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = db.Close(shutdownCtx)
		_ = rdb.Close()
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
