package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"farmdash/config"
	"farmdash/database"
	"farmdash/pkg/logging"
	"farmdash/router"

	// Dashboard
	dashCtrlImp "farmdash/pkg/dashboard/controllerImp"
	dashSvcImp "farmdash/pkg/dashboard/serviceImp"
	"farmdash/pkg/dashboard/view"

	// Record store
	"farmdash/pkg/record/persist"
	recRepo "farmdash/pkg/record/repository"
	recRepoImp "farmdash/pkg/record/repositoryImp"

	// Visualization
	"farmdash/pkg/lazy"
	"farmdash/pkg/viz"

	// Health
	healthCtrlImp "farmdash/pkg/health/controllerImp"
)

func main() {
	// 1) Logger + config; LOG_LEVEL from .env only exists after Load
	log, level, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	cfg := config.Load(log)
	level.SetLevel(logging.ParseLevel(cfg.LogLevel))

	// 2) Local store; any failure leaves persistence off for the whole run
	repo, db := openStore(cfg, log)
	store := persist.New(repo, log.Named("persist"))

	// 3) Views
	f, err := view.NewFormatter(cfg.Timezone, cfg.Locale, cfg.Currency)
	if err != nil {
		log.Fatal("formatter", zap.Error(err))
	}
	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}
	chart := lazy.New(viz.Load)

	// 4) Controllers
	dashSvc := dashSvcImp.New(store, f, cfg.PricePerTon, cfg.SessionLimit)
	dashCtrl := dashCtrlImp.New(dashSvc, chart, renderer, f, cfg.Mount, cfg.Locale, log.Named("dashboard"))
	hCtrl := healthCtrlImp.NewHealthCtrl(db, cfg.StoreDriver, store)

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echoMiddleware.Recover())
	e.Use(logging.Requests(log.Named("http")))
	r := router.New(e, dashCtrl, hCtrl)

	// 6) Start; stop on SIGINT/SIGTERM and flush the store
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		log.Warn("close store", zap.Error(err))
	}
}

// openStore picks the repository for cfg.StoreDriver. It returns a nil
// repository when the store is disabled or cannot be opened.
func openStore(cfg config.AppConfig, log *zap.Logger) (recRepo.RecordRepository, *gorm.DB) {
	switch cfg.StoreDriver {
	case "sqlite":
		db, err := database.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Warn("sqlite store unavailable", zap.String("path", cfg.DBPath), zap.Error(err))
			return nil, nil
		}
		return recRepoImp.NewSQLite(db), db
	case "bolt":
		repo, err := recRepoImp.NewBolt(cfg.BoltPath)
		if err != nil {
			log.Warn("bolt store unavailable", zap.String("path", cfg.BoltPath), zap.Error(err))
			return nil, nil
		}
		return repo, nil
	case "none":
		return nil, nil
	default:
		log.Warn("unknown store driver, persistence disabled", zap.String("driver", cfg.StoreDriver))
		return nil, nil
	}
}
