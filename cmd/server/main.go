// Command server runs the GLESP protocol registry HTTP API.
//
// @title       GLESP Protocol Registry API
// @version     1.0
// @description Sequentially numbered delivery protocols for lodge documents.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-protocol-backend/internal/backup"
	"github.com/tbourn/go-protocol-backend/internal/config"
	"github.com/tbourn/go-protocol-backend/internal/domain"
	httpapi "github.com/tbourn/go-protocol-backend/internal/http"
	"github.com/tbourn/go-protocol-backend/internal/localstore"
	"github.com/tbourn/go-protocol-backend/internal/observability"
	"github.com/tbourn/go-protocol-backend/internal/repo"
	"github.com/tbourn/go-protocol-backend/internal/services"
	"github.com/tbourn/go-protocol-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	shutdownTimeout     = 15 * time.Second
	idempotencyPurgeGap = time.Hour
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion,
		attribute.String("registry.storage", cfg.Storage.Backend),
		attribute.String("registry.prefix", cfg.Protocol.Prefix),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	store, db, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("storage init failed")
	}

	sink, err := backup.Open(ctx, backup.Config{
		Driver:      cfg.Backup.Driver,
		Dir:         cfg.Backup.Dir,
		S3Bucket:    cfg.Backup.S3Bucket,
		S3Region:    cfg.Backup.S3Region,
		S3Endpoint:  cfg.Backup.S3Endpoint,
		S3PathStyle: cfg.Backup.S3PathStyle,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Backup.Driver).Msg("backup sink init failed")
	}

	ps := services.NewProtocolService(store)
	ps.Prefix = cfg.Protocol.Prefix
	ps.MaxAttempts = cfg.Protocol.AllocMaxAttempts
	ps.StoreTimeout = cfg.Storage.StoreTimeout
	ps.ListMax = cfg.Protocol.ListMaxRecords
	ps.Location = cfg.Protocol.Location

	types := services.NewDocumentTypeService(store)
	types.StoreTimeout = cfg.Storage.StoreTimeout

	activity := services.NewActivityService(store)
	activity.StoreTimeout = cfg.Storage.StoreTimeout

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		Protocols: ps,
		Types:     types,
		Activity:  activity,
		Transfer:  services.NewTransferService(ps, sink),
		IdemDB:    db,
	}, cfg)

	go purgeIdempotency(ctx, db)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", appVersion).
			Str("storage", cfg.Storage.Backend).
			Str("backup", cfg.Backup.Driver).
			Str("timezone", cfg.Protocol.Timezone).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

// openStore builds the configured storage backend and returns the GORM
// handle that also holds the idempotency table.
func openStore(cfg config.Config) (services.Store, *gorm.DB, error) {
	sc := cfg.Storage
	switch sc.Backend {
	case config.BackendLocal:
		ls, err := localstore.Open(sc.LocalStorePath, localstore.Options{
			CacheSize:   sc.CacheSize,
			CacheTTL:    sc.CacheTTL,
			ActivityMax: cfg.Protocol.ActivityLogMax,
		})
		if err != nil {
			return nil, nil, err
		}
		db := ls.DB()
		if err := repo.Instrument(db); err != nil {
			return nil, nil, err
		}
		if err := db.AutoMigrate(&domain.Idempotency{}); err != nil {
			return nil, nil, err
		}
		return ls, db, nil
	default:
		db, err := repo.Open(sc.DBDriver, sc.DBPath, sc.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.Instrument(db); err != nil {
			return nil, nil, err
		}
		if err := repo.AutoMigrate(db); err != nil {
			return nil, nil, err
		}
		return repo.NewSQLStore(db, cfg.Protocol.ActivityLogMax), db, nil
	}
}

// purgeIdempotency deletes expired Idempotency-Key records until ctx ends.
func purgeIdempotency(ctx context.Context, db *gorm.DB) {
	t := time.NewTicker(idempotencyPurgeGap)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("expired idempotency keys removed")
			}
		}
	}
}
