// @title         Screenrate Scoring Service
// @version       0.1.0
// @description   Rating, what-if and advisor endpoints over screenplay text

package main

import (
	"context"

	"screenrate/internal/platform/config"
	"screenrate/internal/platform/logger"
	phttp "screenrate/internal/platform/net/http"

	"screenrate/internal/services/mlsvc"
)

func main() {
	// service-scoped config (CORE_ML_*), embedder knobs under EMBEDDER_*
	root := config.New()
	mlCfg := root.Prefix("CORE_ML_")
	embCfg := root.Prefix("EMBEDDER_")

	l := logger.Get()

	// http server (reads CORE_ML_PORT / CORE_ML_ADDR)
	srv := phttp.NewServer(mlCfg)

	if err := mlsvc.Mount(srv.Router(), mlsvc.Options{
		Config:         mlCfg,
		Embedder:       embCfg,
		EnableProfiler: mlCfg.MayBool("PROFILER", false),
	}); err != nil {
		l.Panic().Err(err).Msg("mlsvc.Mount failed")
	}

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
