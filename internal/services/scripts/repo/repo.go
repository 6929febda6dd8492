// Package repo provides postgres access for scripts
package repo

import (
	"context"
	"errors"
	"time"

	"screenrate/internal/modkit/repokit"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/store"
)

// RowScript is a scripts table row
type RowScript struct {
	ID              string
	Title           string
	Content         string
	PredictedRating string
	AggScores       []byte
	ModelVersion    string
	TotalScenes     int
	CurrentVersion  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RowScene is a scenes table row
type RowScene struct {
	SceneID    int
	Heading    string
	SampleText string
	Violence   float64
	Gore       float64
	SexAct     float64
	Nudity     float64
	Profanity  float64
	Drugs      float64
	ChildRisk  float64
	Weight     float64
}

// Repo defines the repository contract for scripts
type Repo interface {
	Insert(ctx context.Context, id, title, content string) (RowScript, error)
	Get(ctx context.Context, id string) (RowScript, error)
	ListRecent(ctx context.Context, skip, limit int) ([]RowScript, error)
	Delete(ctx context.Context, id string) error

	Scenes(ctx context.Context, scriptID string) ([]RowScene, error)

	UpdateRating(ctx context.Context, id, rating string, aggScores []byte, modelVersion string, totalScenes int) error
	ReplaceScenes(ctx context.Context, scriptID string, scenes []RowScene) error
	InsertRatingLog(ctx context.Context, scriptID, rating string, reasons []byte, modelVersion string) error

	UpdateCurrentVersion(ctx context.Context, id string, version int) error
	RestoreSnapshot(ctx context.Context, id, title, content, rating string, aggScores []byte, totalScenes, currentVersion int) error
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const scriptCols = `
id, title, content, coalesce(predicted_rating, ''), coalesce(agg_scores, '{}'::jsonb),
coalesce(model_version, ''), coalesce(total_scenes, 0), coalesce(current_version, 0),
created_at, updated_at`

func scanScript(r repokit.Row) (RowScript, error) {
	var s RowScript
	err := r.Scan(
		&s.ID, &s.Title, &s.Content, &s.PredictedRating, &s.AggScores,
		&s.ModelVersion, &s.TotalScenes, &s.CurrentVersion,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func scanScene(r repokit.Row) (RowScene, error) {
	var s RowScene
	err := r.Scan(
		&s.SceneID, &s.Heading, &s.SampleText,
		&s.Violence, &s.Gore, &s.SexAct, &s.Nudity,
		&s.Profanity, &s.Drugs, &s.ChildRisk, &s.Weight,
	)
	return s, err
}

func (r *queries) Insert(ctx context.Context, id, title, content string) (RowScript, error) {
	const sql = `
insert into scripts (id, title, content, created_at, updated_at)
values ($1, $2, $3, now(), now())
returning ` + scriptCols
	s, err := scanScript(r.q.QueryRow(ctx, sql, id, title, content))
	if err != nil {
		return RowScript{}, perr.Wrapf(err, perr.ErrorCodeDB, "scripts insert")
	}
	return s, nil
}

func (r *queries) Get(ctx context.Context, id string) (RowScript, error) {
	const sql = `select ` + scriptCols + ` from scripts where id = $1`
	s, err := store.One(ctx, r.q, scanScript, sql, id)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return RowScript{}, perr.NotFoundf("script %s not found", id)
		}
		return RowScript{}, perr.Wrapf(err, perr.ErrorCodeDB, "scripts get")
	}
	return s, nil
}

func (r *queries) ListRecent(ctx context.Context, skip, limit int) ([]RowScript, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	const sql = `select ` + scriptCols + ` from scripts order by created_at desc offset $1 limit $2`
	out, err := store.Many(ctx, r.q, scanScript, sql, skip, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "scripts list")
	}
	return out, nil
}

func (r *queries) Delete(ctx context.Context, id string) error {
	err := store.ExecOne(ctx, r.q, `delete from scripts where id = $1`, id)
	if errors.Is(err, perr.ErrNotFound) {
		return perr.NotFoundf("script %s not found", id)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "scripts delete")
	}
	return nil
}

func (r *queries) Scenes(ctx context.Context, scriptID string) ([]RowScene, error) {
	const sql = `
select scene_id, heading, coalesce(sample_text, ''),
violence, gore, sex_act, nudity, profanity, drugs, child_risk, weight
from scenes where script_id = $1 order by weight desc, scene_id`
	out, err := store.Many(ctx, r.q, scanScene, sql, scriptID)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "scenes list")
	}
	return out, nil
}

func (r *queries) UpdateRating(ctx context.Context, id, rating string, aggScores []byte, modelVersion string, totalScenes int) error {
	const sql = `
update scripts
set predicted_rating = $2, agg_scores = $3::jsonb, model_version = $4,
total_scenes = $5, updated_at = now()
where id = $1`
	err := store.ExecOne(ctx, r.q, sql, id, rating, aggScores, modelVersion, totalScenes)
	if errors.Is(err, perr.ErrNotFound) {
		return perr.NotFoundf("script %s not found", id)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "scripts update rating")
	}
	return nil
}

func (r *queries) ReplaceScenes(ctx context.Context, scriptID string, scenes []RowScene) error {
	if _, err := r.q.Exec(ctx, `delete from scenes where script_id = $1`, scriptID); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "scenes clear")
	}
	const sql = `
insert into scenes (script_id, scene_id, heading, sample_text,
violence, gore, sex_act, nudity, profanity, drugs, child_risk, weight)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, s := range scenes {
		if _, err := r.q.Exec(ctx, sql, scriptID, s.SceneID, s.Heading, s.SampleText,
			s.Violence, s.Gore, s.SexAct, s.Nudity, s.Profanity, s.Drugs, s.ChildRisk, s.Weight); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "scenes insert")
		}
	}
	return nil
}

func (r *queries) UpdateCurrentVersion(ctx context.Context, id string, version int) error {
	err := store.ExecOne(ctx, r.q,
		`update scripts set current_version = $2, updated_at = now() where id = $1`, id, version)
	if errors.Is(err, perr.ErrNotFound) {
		return perr.NotFoundf("script %s not found", id)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "scripts update current version")
	}
	return nil
}

func (r *queries) RestoreSnapshot(ctx context.Context, id, title, content, rating string, aggScores []byte, totalScenes, currentVersion int) error {
	const sql = `
update scripts
set title = $2, content = $3, predicted_rating = $4, agg_scores = $5::jsonb,
total_scenes = $6, current_version = $7, updated_at = now()
where id = $1`
	err := store.ExecOne(ctx, r.q, sql, id, title, content, rating, aggScores, totalScenes, currentVersion)
	if errors.Is(err, perr.ErrNotFound) {
		return perr.NotFoundf("script %s not found", id)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "scripts restore snapshot")
	}
	return nil
}

func (r *queries) InsertRatingLog(ctx context.Context, scriptID, rating string, reasons []byte, modelVersion string) error {
	const sql = `
insert into rating_logs (script_id, predicted_rating, reasons, model_version, created_at)
values ($1, $2, $3::jsonb, $4, now())`
	if _, err := r.q.Exec(ctx, sql, scriptID, rating, reasons, modelVersion); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "rating log insert")
	}
	return nil
}
