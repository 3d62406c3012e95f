package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	authPostgres "github.com/frahmantamala/records-management/internal/auth/postgres"
	"github.com/frahmantamala/records-management/internal/casefile"
	casefilePostgres "github.com/frahmantamala/records-management/internal/casefile/postgres"
	"github.com/frahmantamala/records-management/internal/entry"
	entryPostgres "github.com/frahmantamala/records-management/internal/entry/postgres"
	"github.com/frahmantamala/records-management/internal/hashtag"
	hashtagPostgres "github.com/frahmantamala/records-management/internal/hashtag/postgres"
	"github.com/frahmantamala/records-management/internal/storage"
	"github.com/frahmantamala/records-management/internal/transport/rest"
	"github.com/frahmantamala/records-management/internal/user"
	userPostgres "github.com/frahmantamala/records-management/internal/user/postgres"
	"github.com/frahmantamala/records-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	store := storage.NewOsStorage(config.Storage.RootDir, config.Storage.BaseURL)

	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewRepository(gormDB)
	hashtagRepo := hashtagPostgres.NewRepository(gormDB)
	caseFileRepo := casefilePostgres.NewRepository(gormDB)
	entryRepo := entryPostgres.NewRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(config.Security.TokenSecret, config.Security.TokenDuration)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost, lg)
	userService := user.NewService(userRepo, authService, lg)
	hashtagService := hashtag.NewService(hashtagRepo, lg)
	caseFileService := casefile.NewService(caseFileRepo, lg)
	entryService := entry.NewService(entryRepo, caseFileRepo, hashtagRepo, store, lg)

	handlers := rest.Handlers{
		Auth:     auth.NewHandler(authService),
		User:     user.NewHandler(lg, userService),
		Hashtag:  hashtag.NewHandler(lg, hashtagService),
		CaseFile: casefile.NewHandler(lg, caseFileService),
		Entry:    entry.NewHandler(lg, entryService),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, lg)

	// Serve uploaded photos from local storage.
	mediaPrefix := strings.TrimRight(config.Storage.BaseURL, "/")
	if strings.HasPrefix(mediaPrefix, "/") {
		router.Handle(mediaPrefix+"/*", http.StripPrefix(mediaPrefix+"/", http.FileServer(http.Dir(config.Storage.RootDir))))
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
