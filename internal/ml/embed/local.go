package embed

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"

	"screenrate/internal/platform/logger"
)

// MiniLM-L6-v2 output width
const localDimension = 384

// LocalConfig configures the on-disk ONNX embedder
type LocalConfig struct {
	// ModelPath is the directory holding model.onnx + tokenizer files
	ModelPath string

	// OnnxLibraryPath points at libonnxruntime; empty selects the pure Go
	// backend directly
	OnnxLibraryPath string
}

// Local runs a sentence-transformer ONNX model in-process via hugot
type Local struct {
	mu       sync.RWMutex
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	log      logger.Logger
}

// NewLocal loads the model at cfg.ModelPath. ONNX Runtime is preferred;
// when the shared library is unavailable it falls back to the pure Go
// backend before giving up
func NewLocal(cfg LocalConfig) (*Local, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("embed: no model path configured")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("embed: model path %q: %w", cfg.ModelPath, err)
	}

	l := &Local{log: *logger.Named("embed")}

	session, err := l.newSession(cfg)
	if err != nil {
		return nil, err
	}
	pipe, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: cfg.ModelPath,
		Name:      "scene-embedder",
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("embed: create pipeline: %w", err)
	}

	l.session = session
	l.pipeline = pipe
	l.log.Info().Str("model", cfg.ModelPath).Msg("embedder ready")
	return l, nil
}

// NewLocalOrNil is NewLocal with graceful degradation: on any failure it
// logs a warning and returns nil, which callers treat as "no embedder"
func NewLocalOrNil(cfg LocalConfig) *Local {
	l, err := NewLocal(cfg)
	if err != nil {
		logger.Named("embed").Warn().Err(err).Msg("embedder unavailable, degrading")
		return nil
	}
	return l
}

func (l *Local) newSession(cfg LocalConfig) (*hugot.Session, error) {
	if cfg.OnnxLibraryPath != "" {
		s, err := hugot.NewORTSession(options.WithOnnxLibraryPath(cfg.OnnxLibraryPath))
		if err == nil {
			return s, nil
		}
		l.log.Warn().Err(err).Msg("onnxruntime unavailable, using Go backend")
	}
	s, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("embed: create session: %w", err)
	}
	return s, nil
}

func (l *Local) Dimension() int { return localDimension }

func (l *Local) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := l.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("embed: no embedding returned")
	}
	return out[0], nil
}

func (l *Local) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.pipeline == nil {
		return nil, fmt.Errorf("embed: embedder closed")
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := l.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("embed: run pipeline: %w", err)
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		if i < len(res.Embeddings) {
			out[i] = res.Embeddings[i]
		}
	}
	return out, nil
}

// Close destroys the hugot session; the embedder is unusable afterwards
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pipeline = nil
	if l.session != nil {
		s := l.session
		l.session = nil
		return s.Destroy()
	}
	return nil
}
