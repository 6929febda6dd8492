// Package http provides http transport for script versions
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"screenrate/internal/modkit/httpkit"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/net/http/bind"
	"screenrate/internal/services/versions/domain"
	svc "screenrate/internal/services/versions/service"
)

// Register mounts version endpoints on the given router. The router is
// expected to sit under a /{script_id} scope
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Post(r, "/", h.create)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/compare/{v1}/{v2}", h.compare)
	httpkit.Get(r, "/{version_number}", h.get)
	httpkit.Post(r, "/{version_number}/restore", h.restore)
	httpkit.Delete(r, "/{version_number}", h.remove)
}

type handlers struct {
	svc svc.Service
}

func versionParam(r *stdhttp.Request, key string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0, perr.Validationf("%s must be an integer", key)
	}
	return n, nil
}

// @Summary Save a version snapshot of a script
// @Tags Versions
// @Accept json
// @Produce json
// @Param script_id path string true "Script id"
// @Param payload body domain.CreateInput false "Snapshot options"
// @Success 201 {object} domain.Version "created"
// @Router /scripts/{script_id}/versions [post]
func (h *handlers) create(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[domain.CreateInput](r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Create(r.Context(), chi.URLParam(r, "script_id"), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// @Summary List a script's versions, newest first
// @Tags Versions
// @Produce json
// @Param script_id path string true "Script id"
// @Success 200 {array} domain.Version "ok"
// @Router /scripts/{script_id}/versions [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), chi.URLParam(r, "script_id"))
}

// @Summary Get one version with its content and scenes
// @Tags Versions
// @Produce json
// @Param script_id path string true "Script id"
// @Param version_number path int true "Version number"
// @Success 200 {object} domain.Version "ok"
// @Router /scripts/{script_id}/versions/{version_number} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	n, err := versionParam(r, "version_number")
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), chi.URLParam(r, "script_id"), n)
}

// @Summary Restore a script to a version
// @Tags Versions
// @Produce json
// @Param script_id path string true "Script id"
// @Param version_number path int true "Version number"
// @Success 200 {object} domain.RestoreResult "ok"
// @Router /scripts/{script_id}/versions/{version_number}/restore [post]
func (h *handlers) restore(r *stdhttp.Request) (any, error) {
	n, err := versionParam(r, "version_number")
	if err != nil {
		return nil, err
	}
	return h.svc.Restore(r.Context(), chi.URLParam(r, "script_id"), n)
}

// @Summary Compare two versions of a script
// @Tags Versions
// @Produce json
// @Param script_id path string true "Script id"
// @Param v1 path int true "First version number"
// @Param v2 path int true "Second version number"
// @Success 200 {object} domain.Comparison "ok"
// @Router /scripts/{script_id}/versions/compare/{v1}/{v2} [get]
func (h *handlers) compare(r *stdhttp.Request) (any, error) {
	v1, err := versionParam(r, "v1")
	if err != nil {
		return nil, err
	}
	v2, err := versionParam(r, "v2")
	if err != nil {
		return nil, err
	}
	return h.svc.Compare(r.Context(), chi.URLParam(r, "script_id"), v1, v2)
}

// @Summary Delete a non-current version
// @Tags Versions
// @Produce json
// @Param script_id path string true "Script id"
// @Param version_number path int true "Version number"
// @Success 200 {object} map[string]string "deleted"
// @Router /scripts/{script_id}/versions/{version_number} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	n, err := versionParam(r, "version_number")
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "script_id"), n); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Version " + strconv.Itoa(n) + " deleted successfully"}, nil
}
