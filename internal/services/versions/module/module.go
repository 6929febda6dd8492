// Package module wires script versioning into the API using modkit
package module

import (
	"net/http"

	modkit "screenrate/internal/modkit"
	"screenrate/internal/modkit/httpkit"
	str "screenrate/internal/platform/strings"
	scriptsrepo "screenrate/internal/services/scripts/repo"
	versionshttp "screenrate/internal/services/versions/http"
	versionsrepo "screenrate/internal/services/versions/repo"
	versionssvc "screenrate/internal/services/versions/service"
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

	svc versionssvc.Service
}

// New constructs a versions module. Its prefix keeps the script id param
// so it mounts inside the scripts subrouter
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("versions"),
		modkit.WithPrefix("/{script_id}/versions"),
	}, opts...)...)

	svc := versionssvc.New(deps.PG, versionsrepo.NewPG(), scriptsrepo.NewPG())

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Versions: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		versionshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
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
