package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/activity"
	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	activitydb "github.com/mrlokans/librarian/internal/database/activity"
	"github.com/mrlokans/librarian/internal/database/books"
	http_controllers "github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/search"
	"github.com/mrlokans/librarian/internal/session"
	"github.com/mrlokans/librarian/internal/tasks"
	"github.com/mrlokans/librarian/internal/unaccent"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains it within
// the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires together the catalog service and starts the HTTP server.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarian v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Text pipeline shared by indexing, search and on-screen sorting
	table := unaccent.NewTable()
	normalizer := search.NewNormalizer(table)
	collator := search.NewCollator(cfg.Search.Locale)

	bookRepo := books.NewRepository(db.DB, normalizer)
	activityRepo := activitydb.NewRepository(db.DB)
	auditor := activity.NewService(activityRepo)

	// Session manager backs sort state and search memory, so it is always
	// on, not just when the password gate is enabled.
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := session.NewManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	// Generate or use configured CSRF secret
	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	var authMiddleware *auth.Middleware
	if cfg.Auth.Mode == config.AuthModePassword {
		if cfg.Auth.PasswordHash == "" {
			log.Fatalf("AUTH_MODE is 'password' but AUTH_PASSWORD_HASH is not set")
		}
		log.Printf("Authentication mode: password")
		authMiddleware = auth.NewMiddleware(cfg.Auth, sessionManager)
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewReindexQueue(bookRepo, auditor),
			tasks.NewCleanupActivityEventsQueue(activityRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Scheduled maintenance rides on the task queue
	var reindexScheduler *scheduler.ReindexScheduler
	if taskClient != nil && cfg.Reindex.Enabled {
		reindexScheduler = scheduler.NewReindexScheduler(cfg.Reindex, cfg.Activity, taskClient)
		if err := reindexScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start reindex scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		BookStore:      bookRepo,
		ActivityStore:  activityRepo,
		Auditor:        auditor,
		Normalizer:     normalizer,
		Collator:       collator,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Reindexer:      bookRepo,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.ReindexEnqueuer = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if reindexScheduler != nil {
			reindexScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
