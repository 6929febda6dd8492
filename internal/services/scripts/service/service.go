// Package service contains script CRUD and rating workflows
package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"screenrate/internal/core/normalize"
	"screenrate/internal/ml/client"
	"screenrate/internal/modkit/repokit"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/logger"
	"screenrate/internal/platform/queue"
	"screenrate/internal/services/scripts/domain"
	"screenrate/internal/services/scripts/repo"
)

// MLRater is the slice of the scoring client the scripts service uses
type MLRater interface {
	RateScript(ctx context.Context, text, scriptID string) (*client.RateResult, error)
}

// Coordinator enqueues background rating jobs and reports their status
type Coordinator interface {
	Enqueue(ctx context.Context, scriptID string) (string, error)
	Status(ctx context.Context, jobID string) (queue.Job, error)
}

// Service defines the service contract for scripts
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	ml     MLRater
	coord  Coordinator
	log    logger.Logger
}

// New creates a new scripts service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], ml MLRater, coord Coordinator) *Svc {
	if db == nil {
		panic("scripts.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("scripts.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		ml:     ml,
		coord:  coord,
		log:    *logger.Named("scripts"),
	}
}

// Create stores a new script from raw text
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Script, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Script{}, perr.Validationf("title must not be empty")
	}
	if strings.TrimSpace(in.Content) == "" {
		return domain.Script{}, perr.Validationf("content must not be empty")
	}

	// control characters and invalid UTF-8 never reach the DB
	content := normalize.Sanitize(in.Content)

	row, err := s.Repo.Insert(ctx, uuid.NewString(), in.Title, content)
	if err != nil {
		return domain.Script{}, err
	}
	s.log.Info().Str("script_id", row.ID).Str("title", row.Title).Msg("script created")
	return toScript(row), nil
}

// Get returns the script with its stored trigger scenes
func (s *Svc) Get(ctx context.Context, id string) (domain.ScriptDetail, error) {
	row, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.ScriptDetail{}, err
	}
	sceneRows, err := s.Repo.Scenes(ctx, id)
	if err != nil {
		return domain.ScriptDetail{}, err
	}

	scenes := make([]domain.Scene, 0, len(sceneRows))
	for _, sc := range sceneRows {
		scenes = append(scenes, toScene(sc))
	}
	return domain.ScriptDetail{
		Script:  toScript(row),
		Content: row.Content,
		Scenes:  scenes,
	}, nil
}

// List pages through stored scripts, newest first
func (s *Svc) List(ctx context.Context, in domain.ListInput) ([]domain.Script, error) {
	rows, err := s.Repo.ListRecent(ctx, in.Skip, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Script, 0, len(rows))
	for _, r := range rows {
		out = append(out, toScript(r))
	}
	return out, nil
}

// Delete removes a script; scenes, versions and logs cascade
func (s *Svc) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("script_id", id).Msg("script deleted")
	return nil
}

// Rate scores the script. With background=true the job goes through the
// queue and the caller polls JobStatus; otherwise the rating runs inline
func (s *Svc) Rate(ctx context.Context, id string, background bool) (domain.RateJobInfo, error) {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return domain.RateJobInfo{}, err
	}

	if background {
		if s.coord == nil {
			return domain.RateJobInfo{}, perr.Unavailablef("job queue not configured")
		}
		jobID, err := s.coord.Enqueue(ctx, id)
		if err != nil {
			return domain.RateJobInfo{}, err
		}
		return domain.RateJobInfo{
			JobID:    jobID,
			ScriptID: id,
			Status:   string(queue.StatusQueued),
			Message:  "Rating job has been queued",
		}, nil
	}

	if _, err := s.ProcessRating(ctx, id); err != nil {
		return domain.RateJobInfo{}, err
	}
	return domain.RateJobInfo{
		JobID:    "sync",
		ScriptID: id,
		Status:   string(queue.StatusCompleted),
		Message:  "Rating completed synchronously",
	}, nil
}

// ProcessRating calls the scoring service and persists the outcome. The
// script row, its scenes and the audit log commit in one transaction so a
// concurrent completion can never interleave partial writes
func (s *Svc) ProcessRating(ctx context.Context, id string) (domain.RateOutcome, error) {
	row, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.RateOutcome{}, err
	}
	if s.ml == nil {
		return domain.RateOutcome{}, perr.Unavailablef("scoring service not configured")
	}

	res, err := s.ml.RateScript(ctx, row.Content, row.ID)
	if err != nil {
		return domain.RateOutcome{}, err
	}

	out := toOutcome(row.ID, res)
	agg, err := json.Marshal(res.AggScores)
	if err != nil {
		return domain.RateOutcome{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "marshal agg scores")
	}
	reasons, err := json.Marshal(res.Reasons)
	if err != nil {
		return domain.RateOutcome{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "marshal reasons")
	}

	sceneRows := make([]repo.RowScene, 0, len(res.TopTriggerScenes))
	for _, sc := range res.TopTriggerScenes {
		sceneRows = append(sceneRows, repo.RowScene{
			SceneID:    sc.SceneID,
			Heading:    sc.Heading,
			SampleText: sc.SampleText,
			Violence:   sc.Violence,
			Gore:       sc.Gore,
			SexAct:     sc.SexAct,
			Nudity:     sc.Nudity,
			Profanity:  sc.Profanity,
			Drugs:      sc.Drugs,
			ChildRisk:  sc.ChildRisk,
			Weight:     sc.Weight,
		})
	}

	err = repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := r.UpdateRating(ctx, row.ID, res.PredictedRating, agg, res.ModelVersion, res.TotalScenes); err != nil {
			return err
		}
		if err := r.ReplaceScenes(ctx, row.ID, sceneRows); err != nil {
			return err
		}
		return r.InsertRatingLog(ctx, row.ID, res.PredictedRating, reasons, res.ModelVersion)
	})
	if err != nil {
		return domain.RateOutcome{}, err
	}

	s.log.Info().Str("script_id", row.ID).Str("rating", res.PredictedRating).
		Int("total_scenes", res.TotalScenes).Msg("rating persisted")
	return out, nil
}

// JobStatus looks up a background rating job
func (s *Svc) JobStatus(ctx context.Context, jobID string) (domain.RateJobInfo, error) {
	if s.coord == nil {
		return domain.RateJobInfo{}, perr.Unavailablef("job queue not configured")
	}
	job, err := s.coord.Status(ctx, jobID)
	if err != nil {
		return domain.RateJobInfo{}, err
	}
	return domain.RateJobInfo{
		JobID:    job.ID,
		ScriptID: job.ScriptID,
		Status:   string(job.Status),
		Result:   job.Result,
		Error:    job.Error,
	}, nil
}

func toScript(r repo.RowScript) domain.Script {
	var agg map[string]float64
	if len(r.AggScores) > 0 {
		_ = json.Unmarshal(r.AggScores, &agg)
	}
	return domain.Script{
		ID:              r.ID,
		Title:           r.Title,
		PredictedRating: r.PredictedRating,
		AggScores:       agg,
		ModelVersion:    r.ModelVersion,
		TotalScenes:     r.TotalScenes,
		CurrentVersion:  r.CurrentVersion,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toScene(r repo.RowScene) domain.Scene {
	return domain.Scene{
		SceneID:    r.SceneID,
		Heading:    r.Heading,
		SampleText: r.SampleText,
		Scores: map[string]float64{
			"violence":   r.Violence,
			"gore":       r.Gore,
			"sex_act":    r.SexAct,
			"nudity":     r.Nudity,
			"profanity":  r.Profanity,
			"drugs":      r.Drugs,
			"child_risk": r.ChildRisk,
		},
		Weight: r.Weight,
	}
}

func toOutcome(id string, res *client.RateResult) domain.RateOutcome {
	scenes := make([]domain.Scene, 0, len(res.TopTriggerScenes))
	for _, sc := range res.TopTriggerScenes {
		scenes = append(scenes, domain.Scene{
			SceneID:    sc.SceneID,
			Heading:    sc.Heading,
			SampleText: sc.SampleText,
			Scores:     sc.Scores.Map(),
			Weight:     sc.Weight,
		})
	}
	return domain.RateOutcome{
		ScriptID:        id,
		PredictedRating: res.PredictedRating,
		Reasons:         res.Reasons,
		AggScores:       res.AggScores,
		ModelVersion:    res.ModelVersion,
		TotalScenes:     res.TotalScenes,
		TriggerScenes:   scenes,
	}
}
