// Package mlsvc assembles the scoring service: the rating pipeline, the
// what-if engine and the advisor behind one root-mounted HTTP surface
package mlsvc

import (
	"compress/flate"
	"net/http"
	"time"

	"screenrate/internal/core/lexicon"
	"screenrate/internal/core/scoring"
	"screenrate/internal/ml/embed"
	"screenrate/internal/platform/config"
	"screenrate/internal/platform/logger"
	phttp "screenrate/internal/platform/net/http"
	"screenrate/internal/platform/net/middleware"
	advisorsvc "screenrate/internal/services/advisor/service"
	mlhttp "screenrate/internal/services/mlsvc/http"
	ratingsvc "screenrate/internal/services/rating/service"
	"screenrate/internal/services/whatif/classify"
	"screenrate/internal/services/whatif/engine"
	"screenrate/internal/services/whatif/parser"
	whatifsvc "screenrate/internal/services/whatif/service"
)

// Options configure the scoring service assembly
type Options struct {
	// Config is the CORE_ML_ scoped view
	Config config.Conf

	// Embedder is the EMBEDDER_ scoped view
	Embedder config.Conf

	EnableProfiler bool
}

// Mount builds the full pipeline and registers the scoring routes.
// Returns an error when the lexicon pack cannot compile; a missing
// embedder model degrades instead of failing
func Mount(r phttp.Router, opt Options) error {
	log := logger.Named("mlsvc")

	pack, err := lexicon.Load()
	if err != nil {
		return err
	}

	var emb embed.Embedder
	if l := embed.NewLocalOrNil(embed.LocalConfig{
		ModelPath:       opt.Embedder.MayString("MODEL_PATH", ""),
		OnnxLibraryPath: opt.Embedder.MayString("ONNX_LIB_PATH", ""),
	}); l != nil {
		emb = l
	}

	rater := ratingsvc.New(pack, ratingsvc.Config{
		ModelVersion: opt.Config.MayString("MODEL_VERSION", ""),
		Aggregator: scoring.AggregatorConfig{
			Mode: scoring.AggregatorMode(opt.Config.MayString("AGG_MODE", "")),
		},
	})

	whatif := whatifsvc.New(rater, parser.New(emb), engine.NewRegistry(nil), classify.New(emb))
	advisor := advisorsvc.New(rater)

	r.Use(stack()...)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	mlhttp.Register(r, mlhttp.Deps{
		Rater:       rater,
		WhatIf:      whatif,
		Advisor:     advisor,
		ModelLoaded: func() bool { return emb != nil },
	})

	log.Info().Bool("embedder", emb != nil).Int("lexicon_version", pack.Version).
		Msg("scoring service mounted")
	return nil
}

// stack is the scoring-service middleware set. No heartbeat; /health is a
// real handler reporting the model flag. The timeout is generous since a
// long script can take a while through the what-if engine
func stack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.Logger(),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(120 * time.Second),
	}
}
