// Package http provides http transport for scripts
package http

import (
	"io"
	stdhttp "net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"screenrate/internal/modkit/httpkit"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/net/http/bind"
	"screenrate/internal/services/scripts/domain"
	svc "screenrate/internal/services/scripts/service"
)

// UploadLimits are the file-upload guards
type UploadLimits struct {
	MaxBytes    int64
	AllowedExts []string // lowercased, dot-prefixed, e.g. ".txt"
}

// Register mounts scripts endpoints on the given router
func Register(r httpkit.Router, s svc.Service, limits UploadLimits) {
	h := &handlers{svc: s, limits: limits}

	httpkit.Post(r, "/", h.create)
	httpkit.Post(r, "/upload", h.upload)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/jobs/{job_id}/status", h.jobStatus)
	httpkit.Get(r, "/{script_id}", h.get)
	httpkit.Post(r, "/{script_id}/rate", h.rate)
	httpkit.Delete(r, "/{script_id}", h.remove)
}

type handlers struct {
	svc    svc.Service
	limits UploadLimits
}

// @Summary Create a script from raw text
// @Tags Scripts
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Script"
// @Success 201 {object} domain.Script "created"
// @Router /scripts [post]
func (h *handlers) create(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[domain.CreateInput](r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// @Summary Upload a script file
// @Tags Scripts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "UTF-8 text file"
// @Param title formData string false "Title override"
// @Success 201 {object} domain.Script "created"
// @Router /scripts/upload [post]
func (h *handlers) upload(r *stdhttp.Request) (any, error) {
	if h.limits.MaxBytes > 0 {
		r.Body = stdhttp.MaxBytesReader(nil, r.Body, h.limits.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.limits.MaxBytes); err != nil {
		var tooLarge *stdhttp.MaxBytesError
		if bind.As(err, &tooLarge) {
			return nil, perr.PayloadTooLargef("upload exceeds %d bytes", h.limits.MaxBytes)
		}
		return nil, perr.Validationf("malformed multipart body: %v", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, perr.Validationf("missing file field")
	}
	defer file.Close()

	if !h.extensionAllowed(header.Filename) {
		return nil, perr.Validationf("file extension not allowed: %s", filepath.Ext(header.Filename))
	}

	buf, err := io.ReadAll(file)
	if err != nil {
		return nil, perr.Validationf("unreadable upload: %v", err)
	}
	if !utf8.Valid(buf) {
		return nil, perr.Validationf("file must be UTF-8 encoded text")
	}

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}
	if title == "" {
		title = "Untitled Script"
	}

	out, err := h.svc.Create(r.Context(), domain.CreateInput{Title: title, Content: string(buf)})
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) extensionAllowed(name string) bool {
	if len(h.limits.AllowedExts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range h.limits.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// @Summary List scripts, newest first
// @Tags Scripts
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} domain.Script "ok"
// @Router /scripts [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	in := domain.ListInput{
		Skip:  queryInt(r, "skip", 0),
		Limit: queryInt(r, "limit", 100),
	}
	return h.svc.List(r.Context(), in)
}

// @Summary Get a script with its stored scenes
// @Tags Scripts
// @Produce json
// @Param script_id path string true "Script id"
// @Success 200 {object} domain.ScriptDetail "ok"
// @Router /scripts/{script_id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "script_id"))
}

// @Summary Rate a script, queued or inline
// @Tags Scripts
// @Produce json
// @Param script_id path string true "Script id"
// @Param background query bool false "Queue the job (default true)"
// @Success 200 {object} domain.RateJobInfo "ok"
// @Router /scripts/{script_id}/rate [post]
func (h *handlers) rate(r *stdhttp.Request) (any, error) {
	background := true
	if v := r.URL.Query().Get("background"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, perr.Validationf("background must be a boolean")
		}
		background = b
	}
	return h.svc.Rate(r.Context(), chi.URLParam(r, "script_id"), background)
}

// @Summary Rating job status
// @Tags Scripts
// @Produce json
// @Param job_id path string true "Job id"
// @Success 200 {object} domain.RateJobInfo "ok"
// @Router /scripts/jobs/{job_id}/status [get]
func (h *handlers) jobStatus(r *stdhttp.Request) (any, error) {
	return h.svc.JobStatus(r.Context(), chi.URLParam(r, "job_id"))
}

// @Summary Delete a script and everything it owns
// @Tags Scripts
// @Produce json
// @Param script_id path string true "Script id"
// @Success 204 "deleted"
// @Router /scripts/{script_id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "script_id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func queryInt(r *stdhttp.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
