package main

import (
	"context"
	"os/signal"
	"syscall"

	"screenrate/internal/ml/client"
	"screenrate/internal/platform/config"
	"screenrate/internal/platform/logger"
	"screenrate/internal/platform/queue"
	"screenrate/internal/platform/store"

	"screenrate/internal/services/jobs/worker"
	scriptsmod "screenrate/internal/services/scripts/module"
	scriptsrepo "screenrate/internal/services/scripts/repo"
	scriptssvc "screenrate/internal/services/scripts/service"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	l := logger.Get()

	// both backends are hard requirements for the worker
	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		RDS: store.RedisConfig{
			Enabled: true,
			Addr:    rdsCfg.MayString("ADDR", "localhost:6379"),
			DB:      rdsCfg.MayInt("DB", 0),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// the worker shares the scripts module's queue and ML client settings
	o := scriptsmod.FromConfig(root)

	ml := client.New(client.Options{
		BaseURL:    o.MLBaseURL,
		Timeout:    o.MLTimeout,
		MaxRetries: o.MLMaxRetries,
		RetryBase:  o.MLRetryBase,
	})

	// no coordinator: the worker only runs ProcessRating, never enqueues
	svc := scriptssvc.New(st.PG, scriptsrepo.NewPG(), ml, nil)

	q := queue.New(st.RD, o.QueueName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.New(q, svc).Run(ctx); err != nil && ctx.Err() == nil {
		l.Panic().Err(err).Msg("worker stopped")
	}
	l.Info().Msg("worker shut down")
}
