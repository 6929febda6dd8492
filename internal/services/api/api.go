// Package api provides the HTTP API for the application
package api

import (
	"screenrate/internal/platform/config"
	"screenrate/internal/platform/logger"
	phttp "screenrate/internal/platform/net/http"
	"screenrate/internal/platform/store"

	"screenrate/internal/modkit"
	"screenrate/internal/modkit/httpkit"
	"screenrate/internal/modkit/module"
	"screenrate/internal/modkit/swaggerkit"

	metamod "screenrate/internal/services/api/meta/module"
	scriptsmod "screenrate/internal/services/scripts/module"
	versionsmod "screenrate/internal/services/versions/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		RD:  opt.Store.RD,
	}

	// Versions nest under /scripts/{script_id}/versions, inside the scripts
	// subrouter, so both share the script_id path param
	versions := versionsmod.New(deps)
	scripts := scriptsmod.New(deps, modkit.WithRegister(func(rr httpkit.Router) {
		versions.MountRoutes(rr)
	}))

	mods := []module.Module{
		metamod.New(deps),
		scripts,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}

		// versions mounted through the scripts register hook, ports still registered
		module.Register(versions.Name(), versions.Ports())
	})
}
