// Package module wires scripts into the API using modkit
package module

import (
	"net/http"
	"strings"

	modkit "screenrate/internal/modkit"
	"screenrate/internal/modkit/httpkit"
	"screenrate/internal/ml/client"
	"screenrate/internal/platform/queue"
	str "screenrate/internal/platform/strings"
	"screenrate/internal/services/jobs/coordinator"
	scriptshttp "screenrate/internal/services/scripts/http"
	scriptsrepo "screenrate/internal/services/scripts/repo"
	scriptssvc "screenrate/internal/services/scripts/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc scriptssvc.Service
}

// New constructs a scripts module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("scripts"), modkit.WithPrefix("/scripts")}, opts...)...)

	o := FromConfig(deps.Cfg)

	ml := client.New(client.Options{
		BaseURL:    o.MLBaseURL,
		Timeout:    o.MLTimeout,
		MaxRetries: o.MLMaxRetries,
		RetryBase:  o.MLRetryBase,
	})

	var coord scriptssvc.Coordinator
	if deps.RD != nil {
		coord = coordinator.New(queue.New(deps.RD, o.QueueName))
	}

	repo := scriptsrepo.NewPG()
	svc := scriptssvc.New(deps.PG, repo, ml, coord)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Scripts: svc}

	limits := scriptshttp.UploadLimits{
		MaxBytes:    int64(o.MaxUploadMB) << 20,
		AllowedExts: normalizeExts(o.AllowedExts),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		scriptshttp.Register(r, m.svc, limits)
		if external != nil {
			external(r)
		}
	}
	return m
}

// normalizeExts lowercases and dot-prefixes the configured extension list
func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
