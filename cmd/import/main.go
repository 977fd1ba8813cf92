package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/ignatzorin/postboard-backend/internal/config"
	"github.com/ignatzorin/postboard-backend/internal/db"
	"github.com/ignatzorin/postboard-backend/internal/logger"
	"github.com/ignatzorin/postboard-backend/internal/repository"
	"github.com/ignatzorin/postboard-backend/internal/service"
)

func main() {
	url := flag.String("url", "https://jsonplaceholder.typicode.com/users", "адрес JSON-источника пользователей")
	limit := flag.Int("limit", 10, "сколько пользователей импортировать")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("import: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init("info")
	logger.SetTextFormatter()

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("import: ошибка подключения к базе: %v", err)
	}
	defer dbConn.Close()

	userRepo := repository.NewUserRepository(dbConn)
	importService := service.NewImportService(userRepo, logger.Log)

	stats, err := importService.ImportUsers(ctx, *url, *limit)
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	log.Printf("import: получено %d, импортировано %d, пропущено %d", stats.Fetched, stats.Imported, stats.Skipped)
}
