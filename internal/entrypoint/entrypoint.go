package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/coach"
	"github.com/tpqls774/libris/internal/config"
	http_controllers "github.com/tpqls774/libris/internal/http"
	"github.com/tpqls774/libris/internal/metrics"
	"github.com/tpqls774/libris/internal/notify"
	"github.com/tpqls774/libris/internal/profile"
	"github.com/tpqls774/libris/internal/scheduler"
	"github.com/tpqls774/libris/internal/shelf"
	"github.com/tpqls774/libris/internal/stats"
	"github.com/tpqls774/libris/internal/storage"
	"github.com/tpqls774/libris/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// goalReporter computes goal progress from the live shelf and goals.
type goalReporter struct {
	shelf   *shelf.Store
	profile *profile.Store
}

func (r *goalReporter) GoalProgress() (monthly, yearly stats.GoalProgress, err error) {
	books, err := r.shelf.Load()
	if err != nil {
		return stats.GoalProgress{}, stats.GoalProgress{}, err
	}
	ov := stats.Compute(books, r.profile.Goals(), time.Now())
	return ov.MonthlyGoal, ov.YearlyGoal, nil
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server with
	// the configured timeout.
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

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Libris v%s", version)

	// Initialize slot storage
	slots, err := storage.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := slots.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	shelfStore := shelf.NewStore(slots)
	profileStore := profile.NewStore(slots)
	recorder := notify.NewRecorder(slots, notify.LogAlerter{}, notify.Permission(cfg.Alerts.Permission))

	// Catalog search with the debounce window in front of it
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.MaxResults, cfg.Catalog.RequestsPerSecond)
	searcher := catalog.NewSearcher(catalogClient, cfg.Catalog.DebounceDelay)

	// Reading coach is optional and stays off without an API key
	var coachClient http_controllers.CoachProvider
	if cfg.Coach.APIKey != "" {
		coachClient = coach.NewClient(cfg.Coach.BaseURL, cfg.Coach.APIKey, cfg.Coach.Model, cfg.Coach.Timeout)
	} else {
		log.Printf("WARNING: Coach API key is not set. The note review endpoint will be disabled. Set 'COACH_API_KEY' to enable.")
	}

	// Metrics registry and collector
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			DeleteDelay:     cfg.Tasks.DeleteDelay,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
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

		// Register task queues
		taskClient.Register(
			tasks.NewDeleteBookQueue(shelfStore),
			tasks.NewGoalCheckQueue(&goalReporter{shelf: shelfStore, profile: profileStore}, recorder),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Shelf mutations feed notifications, metrics and goal checks
	shelfStore.Subscribe(func(ev shelf.Event) {
		if ev.Op == shelf.EventAdded {
			if err := recorder.BookAdded(ev.Book.Title); err != nil {
				log.Printf("Failed to record notification: %v", err)
			}
		}

		if books, err := shelfStore.Load(); err == nil {
			collector.SetShelfSize(len(books))
		}

		if taskClient != nil {
			if _, err := taskClient.Add(tasks.GoalCheckTask{}).Save(); err != nil {
				log.Printf("Failed to enqueue goal check: %v", err)
			}
		}
	})

	// Monthly report scheduler
	reportScheduler := scheduler.NewMonthlyReportScheduler(
		shelfStore,
		recorder,
		cfg.Scheduler.MonthlyReportSchedule,
		cfg.Scheduler.MonthlyReportEnabled,
	)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	if err := reportScheduler.Start(schedulerCtx); err != nil {
		log.Fatalf("Failed to start monthly report scheduler: %v", err)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Shelf:       shelfStore,
		Profile:     profileStore,
		Recorder:    recorder,
		Slots:       slots,
		Searcher:    searcher,
		Coach:       coachClient,
		TaskClient:  taskClient,
		DeleteDelay: cfg.Tasks.DeleteDelay,
		Metrics:     collector,
		Gatherer:    registry,
		Version:     version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		reportScheduler.Stop()
		schedulerCancel()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
