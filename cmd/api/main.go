package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/smart-records-api/internal/config"
	"github.com/smart-records-api/internal/handler"
	"github.com/smart-records-api/internal/report"
	"github.com/smart-records-api/internal/repository"
	"github.com/smart-records-api/internal/service"
	"github.com/smart-records-api/internal/session"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func main() {
	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключение к БД
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get sql.DB", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Запуск миграций
	if err := runMigrations(sqlDB); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	empRepo := repository.NewEmployeeRepository(db)

	// Инициализация сервисов
	sessions := session.NewRegistry()
	authService := service.NewAuthService(
		userRepo, sessions,
		cfg.Auth.JWTSecret, cfg.Auth.BcryptCost,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
	)
	deptService := service.NewDepartmentService(deptRepo)
	empService := service.NewEmployeeService(empRepo, deptRepo)
	reportGen := report.NewGenerator(empRepo, deptRepo)

	// Учётная запись по умолчанию для первого входа
	if err := ensureDefaultAdmin(context.Background(), userRepo, authService, logger); err != nil {
		logger.Error("failed to ensure default admin", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация хендлеров
	authHandler := handler.NewAuthHandler(authService, logger)
	empHandler := handler.NewEmployeeHandler(empService, logger)
	deptHandler := handler.NewDepartmentHandler(deptService, empService, logger)
	reportHandler := handler.NewReportHandler(reportGen, logger)

	// Настройка роутера
	router := handler.NewRouter(authHandler, empHandler, deptHandler, reportHandler, authService, logger)
	httpHandler := router.Setup()

	// Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("server is starting", slog.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for range 30 {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
			TranslateError: true,
		})
		if err == nil {
			sqlDB, _ := db.DB()
			if sqlDB.Ping() == nil {
				return db, nil
			}
		}
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database after 30 attempts: %w", err)
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// ensureDefaultAdmin создаёт учётную запись admin при пустой таблице
// пользователей, чтобы в систему можно было войти после первого запуска
func ensureDefaultAdmin(ctx context.Context, userRepo repository.UserRepository, auth service.AuthService, logger *slog.Logger) error {
	count, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := auth.Register(ctx, "admin", "admin123!"); err != nil {
		return err
	}

	logger.Warn("created default admin account, change its password",
		slog.String("username", "admin"))
	return nil
}
