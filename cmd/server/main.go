package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storefront/internal/catalog"
	"storefront/internal/config"
	mydb "storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/storage"
	"storefront/internal/web"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *gorm.DB
	if cfg.NeedsDB() {
		var err error
		if db, err = mydb.Open(cfg.DBDSN, log); err != nil {
			log.WithError(err).Fatal("database")
		}
		if err := mydb.Migrate(db); err != nil {
			log.WithError(err).Fatal("database")
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()
	}

	slots, ping, closeFn := buildSlots(ctx, cfg, db, log)
	defer closeFn()

	srv, err := web.NewServer(web.Options{
		SessionSecret: cfg.SessionSecret,
		SessionName:   cfg.SessionName,
		Log:           log,
		Catalog:       buildCatalog(ctx, cfg, db, log),
		Slots:         slots,
		Ping:          ping,
	})
	if err != nil {
		log.WithError(err).Fatal("web server")
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.AppPort,
			"storage": cfg.StorageDriver,
			"catalog": cfg.CatalogSource,
		}).Info("server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// buildSlots выбирает, где живёт корзина: в cookie или на сервере
func buildSlots(ctx context.Context, cfg config.Config, db *gorm.DB, log *logrus.Logger) (web.Slots, func(context.Context) error, func()) {
	noop := func() {}
	switch cfg.StorageDriver {
	case config.DriverMemory:
		mem := storage.NewMemory()
		return web.KeyedSlots(mem, cfg.CartKey), mem.Ping, noop
	case config.DriverPostgres:
		g := storage.NewGorm(db)
		return web.KeyedSlots(g, cfg.CartKey), g.Ping, noop
	case config.DriverRedis:
		rdb, err := storage.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB, 10)
		if err != nil {
			log.WithError(err).Fatal("redis")
		}
		log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
		r := storage.NewRedis(rdb, cfg.RedisTTL)
		return web.KeyedSlots(r, cfg.CartKey), r.Ping, func() { _ = rdb.Close() }
	case config.DriverSession:
	default:
		log.Warnf("unknown STORAGE_DRIVER %q, using session", cfg.StorageDriver)
	}
	return web.SessionSlots(cfg.CartKey), nil, noop
}

func buildCatalog(ctx context.Context, cfg config.Config, db *gorm.DB, log *logrus.Logger) *catalog.Loader {
	var src catalog.Source
	switch cfg.CatalogSource {
	case config.CatalogStatic:
		src = catalog.Fallback()
	case config.CatalogMenu:
		src = catalog.Menu()
	case config.CatalogDB:
		d := catalog.NewDB(db)
		if err := d.Seed(ctx, catalog.Fallback()); err != nil {
			log.WithError(err).Warn("catalog seed failed")
		}
		src = d
	default:
		src = catalog.NewRemote(cfg.CatalogURL, cfg.CatalogTimeout, log)
	}
	return catalog.NewLoader(src, catalog.Fallback(), cfg.CatalogLimit, cfg.CatalogCacheTTL, log)
}
