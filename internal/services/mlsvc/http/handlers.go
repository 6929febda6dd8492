// Package http provides the scoring-service transport: the rating,
// what-if and advisor endpoints the backend's ML client calls. Bodies are
// raw JSON, not the API envelope, since the only consumer is the client
// package which decodes response shapes directly
package http

import (
	stdhttp "net/http"

	perr "screenrate/internal/platform/errors"
	phttp "screenrate/internal/platform/net/http"
	"screenrate/internal/platform/net/http/bind"
	advisordom "screenrate/internal/services/advisor/domain"
	ratingdom "screenrate/internal/services/rating/domain"
	whatifdom "screenrate/internal/services/whatif/domain"
)

// Deps are the service ports the transport mounts
type Deps struct {
	Rater   ratingdom.RaterPort
	WhatIf  whatifdom.WhatIfPort
	Advisor advisordom.AdvisorPort

	// ModelLoaded reports whether the full capability set is up
	ModelLoaded func() bool
}

// HealthResponse is the /health payload
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	ModelLoaded bool   `json:"model_loaded" example:"true"`
}

// errBody mirrors the wire error shape of the raw endpoints
type errBody struct {
	Code  perr.ErrorCode `json:"code"`
	Error string         `json:"error"`
}

// raw adapts a handler to plain JSON in and out
func raw(h func(*stdhttp.Request) (any, error)) phttp.Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		out, err := h(r)
		if err != nil {
			wr := perr.WireFrom(err)
			phttp.JSON(w, perr.HTTPStatus(err), errBody{Code: wr.Code, Error: wr.Message})
			return
		}
		phttp.JSON(w, stdhttp.StatusOK, out)
	}
}

// Register mounts the scoring routes at the router root
func Register(r phttp.Router, d Deps) {
	h := &handlers{deps: d}

	r.Post("/rate_script", raw(h.rate))
	r.Post("/what_if", raw(h.whatIf))
	r.Post("/what_if_advanced", raw(h.whatIfAdvanced))
	r.Post("/smart_suggestions", raw(h.suggest))
	r.Post("/rate_advisor", raw(h.advise))
	r.Get("/health", raw(h.health))
}

type handlers struct {
	deps Deps
}

// @Summary Rate a screenplay text
// @Tags Scoring
// @Accept json
// @Produce json
// @Param payload body ratingdom.RateRequest true "Script text"
// @Success 200 {object} ratingdom.RateResult "ok"
// @Router /rate_script [post]
func (h *handlers) rate(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[ratingdom.RateRequest](r)
	if err != nil {
		return nil, err
	}
	return h.deps.Rater.Rate(in)
}

// @Summary Simulate a natural-language modification
// @Tags Scoring
// @Accept json
// @Produce json
// @Param payload body whatifdom.Request true "Simulation request"
// @Success 200 {object} whatifdom.Result "ok"
// @Router /what_if [post]
func (h *handlers) whatIf(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[whatifdom.Request](r)
	if err != nil {
		return nil, err
	}
	return h.deps.WhatIf.Simulate(r.Context(), in)
}

// @Summary Apply a structured modification list
// @Tags Scoring
// @Accept json
// @Produce json
// @Param payload body whatifdom.StructuredRequest true "Modification list"
// @Success 200 {object} whatifdom.Result "ok"
// @Router /what_if_advanced [post]
func (h *handlers) whatIfAdvanced(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[whatifdom.StructuredRequest](r)
	if err != nil {
		return nil, err
	}
	return h.deps.WhatIf.ApplyStructured(r.Context(), in)
}

// @Summary Ranked suggestions for lowering the rating
// @Tags Scoring
// @Accept json
// @Produce json
// @Param payload body whatifdom.SuggestRequest true "Suggestion request"
// @Success 200 {object} whatifdom.Suggestions "ok"
// @Router /smart_suggestions [post]
func (h *handlers) suggest(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[whatifdom.SuggestRequest](r)
	if err != nil {
		return nil, err
	}
	return h.deps.WhatIf.Suggest(r.Context(), in)
}

// @Summary Recommend edits toward a target rating
// @Tags Scoring
// @Accept json
// @Produce json
// @Param payload body advisordom.AdviseRequest true "Advisory request"
// @Success 200 {object} advisordom.AdviseResponse "ok"
// @Router /rate_advisor [post]
func (h *handlers) advise(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[advisordom.AdviseRequest](r)
	if err != nil {
		return nil, err
	}
	return h.deps.Advisor.Advise(r.Context(), in)
}

// @Summary Scoring service liveness
// @Tags Scoring
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /health [get]
func (h *handlers) health(_ *stdhttp.Request) (any, error) {
	loaded := h.deps.ModelLoaded != nil && h.deps.ModelLoaded()
	return HealthResponse{Status: "healthy", ModelLoaded: loaded}, nil
}
