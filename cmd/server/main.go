package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/postboard-backend/internal/config"
	"github.com/ignatzorin/postboard-backend/internal/db"
	"github.com/ignatzorin/postboard-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/postboard-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/postboard-backend/internal/http/router"
	"github.com/ignatzorin/postboard-backend/internal/logger"
	"github.com/ignatzorin/postboard-backend/internal/migrate"
	"github.com/ignatzorin/postboard-backend/internal/repository"
	"github.com/ignatzorin/postboard-backend/internal/service"
	"github.com/ignatzorin/postboard-backend/internal/storage"
	"github.com/ignatzorin/postboard-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)
	favoriteRepo := repository.NewFavoriteRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Перевод записей избранного старой схемы в полиморфную форму.
	// Идемпотентен, выполняется при каждом старте после миграций.
	backfill := migrate.NewBackfill(favoriteRepo, postRepo, logger.Log)
	if _, err := backfill.Run(ctx); err != nil {
		log.Fatalf("main: ошибка бэкфилла избранного: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	imageStorage, err := storage.NewImageStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	recovery := goroutine.NewRecoveryHandler(logger.Log)

	// Вебсокеты.
	hub := ws.NewHub(logger.Log)
	go hub.Run()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	notificationService := service.NewNotificationService(notificationRepo)
	resolver := service.NewTargetResolver(postRepo, userRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, resolver)

	enqueuer := ws.NewPostCreatedEnqueuer(notificationService, hub)
	notifier := service.NewPostCreatedNotifier(favoriteRepo, userRepo, enqueuer, logger.Log)
	postService := service.NewPostService(dbConn, postRepo, favoriteRepo, notifier, recovery, logger.Log)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	postHandler := httpHandlers.NewPostHandler(postService, authService, imageStorage)
	favoriteHandler := httpHandlers.NewFavoriteHandler(favoriteService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, logger.Log)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, postHandler, favoriteHandler, notificationHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
