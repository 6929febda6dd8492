// Package repo provides postgres access for script versions
package repo

import (
	"context"
	"errors"
	"time"

	"screenrate/internal/modkit/repokit"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/store"
)

// RowVersion is a script_versions table row
type RowVersion struct {
	ID                int64
	ScriptID          string
	VersionNumber     int
	Title             string
	Content           string
	PredictedRating   string
	AggScores         []byte
	TotalScenes       int
	ChangeDescription string
	IsCurrent         bool
	CreatedAt         time.Time
	ScenesData        []byte
	Metadata          []byte
}

// Repo defines the repository contract for script versions
type Repo interface {
	Insert(ctx context.Context, v RowVersion) (RowVersion, error)
	MaxVersionNumber(ctx context.Context, scriptID string) (int, error)
	List(ctx context.Context, scriptID string) ([]RowVersion, error)
	Get(ctx context.Context, scriptID string, number int) (RowVersion, error)

	// ClearCurrent drops the current flag on every version of the script
	ClearCurrent(ctx context.Context, scriptID string) error

	// SetCurrent makes exactly the given version current
	SetCurrent(ctx context.Context, scriptID string, number int) error

	Delete(ctx context.Context, scriptID string, number int) error
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

const versionCols = `
id, script_id, version_number, title, content, coalesce(predicted_rating, ''),
coalesce(agg_scores, '{}'::jsonb), coalesce(total_scenes, 0),
coalesce(change_description, ''), is_current, created_at,
coalesce(scenes_data, '[]'::jsonb), coalesce(version_metadata, '{}'::jsonb)`

func scanVersion(r repokit.Row) (RowVersion, error) {
	var v RowVersion
	err := r.Scan(
		&v.ID, &v.ScriptID, &v.VersionNumber, &v.Title, &v.Content,
		&v.PredictedRating, &v.AggScores, &v.TotalScenes,
		&v.ChangeDescription, &v.IsCurrent, &v.CreatedAt,
		&v.ScenesData, &v.Metadata,
	)
	return v, err
}

func (r *queries) Insert(ctx context.Context, v RowVersion) (RowVersion, error) {
	const sql = `
insert into script_versions
(script_id, version_number, title, content, predicted_rating, agg_scores,
total_scenes, change_description, is_current, created_at, scenes_data, version_metadata)
values ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, now(), $10::jsonb, $11::jsonb)
returning ` + versionCols
	out, err := scanVersion(r.q.QueryRow(ctx, sql,
		v.ScriptID, v.VersionNumber, v.Title, v.Content, v.PredictedRating, v.AggScores,
		v.TotalScenes, v.ChangeDescription, v.IsCurrent, v.ScenesData, v.Metadata))
	if err != nil {
		return RowVersion{}, perr.Wrapf(err, perr.ErrorCodeDB, "version insert")
	}
	return out, nil
}

func (r *queries) MaxVersionNumber(ctx context.Context, scriptID string) (int, error) {
	n, err := store.Scalar[int](ctx, r.q,
		`select coalesce(max(version_number), 0) from script_versions where script_id = $1`,
		scriptID)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeDB, "version max number")
	}
	return n, nil
}

func (r *queries) List(ctx context.Context, scriptID string) ([]RowVersion, error) {
	const sql = `select ` + versionCols + `
from script_versions where script_id = $1 order by version_number desc`
	out, err := store.Many(ctx, r.q, scanVersion, sql, scriptID)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "version list")
	}
	return out, nil
}

func (r *queries) Get(ctx context.Context, scriptID string, number int) (RowVersion, error) {
	const sql = `select ` + versionCols + `
from script_versions where script_id = $1 and version_number = $2`
	v, err := store.One(ctx, r.q, scanVersion, sql, scriptID, number)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return RowVersion{}, perr.NotFoundf("version %d not found", number)
		}
		return RowVersion{}, perr.Wrapf(err, perr.ErrorCodeDB, "version get")
	}
	return v, nil
}

func (r *queries) ClearCurrent(ctx context.Context, scriptID string) error {
	if _, err := r.q.Exec(ctx,
		`update script_versions set is_current = false where script_id = $1 and is_current`,
		scriptID); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "version clear current")
	}
	return nil
}

func (r *queries) SetCurrent(ctx context.Context, scriptID string, number int) error {
	if _, err := r.q.Exec(ctx,
		`update script_versions set is_current = (version_number = $2) where script_id = $1`,
		scriptID, number); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "version set current")
	}
	return nil
}

func (r *queries) Delete(ctx context.Context, scriptID string, number int) error {
	err := store.ExecOne(ctx, r.q,
		`delete from script_versions where script_id = $1 and version_number = $2`,
		scriptID, number)
	if errors.Is(err, perr.ErrNotFound) {
		return perr.NotFoundf("version %d not found", number)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "version delete")
	}
	return nil
}
