package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/usermanager/internal/config"
	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	appHTTP "github.com/cmlabs-hris/usermanager/internal/handler/http"
	"github.com/cmlabs-hris/usermanager/internal/pkg/database"
	"github.com/cmlabs-hris/usermanager/internal/pkg/logging"
	"github.com/cmlabs-hris/usermanager/internal/pkg/storage"
	"github.com/cmlabs-hris/usermanager/internal/repository/memory"
	"github.com/cmlabs-hris/usermanager/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/usermanager/internal/service/auth"
	employeeService "github.com/cmlabs-hris/usermanager/internal/service/employee"
	"github.com/cmlabs-hris/usermanager/internal/service/file"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger := logging.New(os.Stdout, "usermanager-api", version, cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var employeeRepo employee.EmployeeRepository
	switch cfg.API.StoreDriver {
	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.ConnectTimeout)
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		defer db.Close()
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			log.Fatal("Error preparing schema: ", err)
		}
		employeeRepo = postgresql.NewEmployeeRepository(db)
	default:
		slog.Warn("Using in-memory employee store; data is lost on restart")
		employeeRepo = memory.NewEmployeeRepository()
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	fileService := file.NewFileService(fileStorage)

	passwordHash := cfg.Admin.PasswordHash
	if passwordHash == "" {
		passwordHash, err = serviceAuth.HashPassword(cfg.Admin.Password)
		if err != nil {
			log.Fatal("Failed to hash admin password: ", err)
		}
	}
	authService, err := serviceAuth.NewAuthService(cfg.Admin.Username, passwordHash)
	if err != nil {
		log.Fatal("Failed to initialize auth service: ", err)
	}
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, fileService)

	authHandler := appHTTP.NewAuthHandler(authService)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		logger,
		cfg.API.CORSAllowedOrigins,
		authHandler,
		employeeHandler,
		fileStorage.BasePath(),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "store", cfg.API.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
	slog.Info("Server stopped")
}
