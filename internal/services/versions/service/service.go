// Package service contains the script versioning workflows: snapshot,
// restore with backup, compare and delete
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"screenrate/internal/modkit/repokit"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/logger"
	scriptsdom "screenrate/internal/services/scripts/domain"
	scriptsrepo "screenrate/internal/services/scripts/repo"
	"screenrate/internal/services/versions/domain"
	"screenrate/internal/services/versions/repo"
)

const diffLineCap = 100

// Service defines the service contract for versions
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo    repo.Repo
	binder  repokit.Binder[repo.Repo]
	scripts repokit.Binder[scriptsrepo.Repo]
	db      repokit.TxRunner
	log     logger.Logger
}

// New creates a new versions service. It binds both the versions and the
// scripts repos so snapshots and restores can span both tables in one
// transaction
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], scripts repokit.Binder[scriptsrepo.Repo]) *Svc {
	if db == nil {
		panic("versions.Service requires a non nil TxRunner")
	}
	if binder == nil || scripts == nil {
		panic("versions.Service requires non nil Repo binders")
	}
	return &Svc{
		Repo:    binder.Bind(db),
		binder:  binder,
		scripts: scripts,
		db:      db,
		log:     *logger.Named("versions"),
	}
}

// Create snapshots the script as a new version. With make_current the
// current flag flips to the new version and the script's pointer follows,
// all inside one transaction
func (s *Svc) Create(ctx context.Context, scriptID string, in domain.CreateInput) (domain.Version, error) {
	makeCurrent := true
	if in.MakeCurrent != nil {
		makeCurrent = *in.MakeCurrent
	}

	var row repo.RowVersion
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		var err error
		row, err = s.snapshot(ctx, q, scriptID, in.ChangeDescription, makeCurrent)
		return err
	})
	if err != nil {
		return domain.Version{}, err
	}

	s.log.Info().Str("script_id", scriptID).Int("version", row.VersionNumber).
		Bool("current", makeCurrent).Msg("version created")
	return toVersion(row, false), nil
}

// snapshot captures the script's present state as version max+1. Runs
// inside the caller's transaction
func (s *Svc) snapshot(ctx context.Context, q repokit.Queryer, scriptID, description string, makeCurrent bool) (repo.RowVersion, error) {
	sr := s.scripts.Bind(q)
	vr := s.binder.Bind(q)

	script, err := sr.Get(ctx, scriptID)
	if err != nil {
		return repo.RowVersion{}, err
	}
	maxN, err := vr.MaxVersionNumber(ctx, scriptID)
	if err != nil {
		return repo.RowVersion{}, err
	}
	number := maxN + 1

	sceneRows, err := sr.Scenes(ctx, scriptID)
	if err != nil {
		return repo.RowVersion{}, err
	}
	scenes := make([]scriptsdom.Scene, 0, len(sceneRows))
	for _, sc := range sceneRows {
		scenes = append(scenes, scriptsdom.Scene{
			SceneID:    sc.SceneID,
			Heading:    sc.Heading,
			SampleText: sc.SampleText,
			Scores: map[string]float64{
				"violence":   sc.Violence,
				"gore":       sc.Gore,
				"sex_act":    sc.SexAct,
				"nudity":     sc.Nudity,
				"profanity":  sc.Profanity,
				"drugs":      sc.Drugs,
				"child_risk": sc.ChildRisk,
			},
			Weight: sc.Weight,
		})
	}
	scenesData, err := json.Marshal(scenes)
	if err != nil {
		return repo.RowVersion{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "marshal scenes data")
	}
	metadata, err := json.Marshal(map[string]string{
		"model_version": script.ModelVersion,
		"created_from":  "manual_save",
	})
	if err != nil {
		return repo.RowVersion{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "marshal version metadata")
	}

	if makeCurrent {
		if err := vr.ClearCurrent(ctx, scriptID); err != nil {
			return repo.RowVersion{}, err
		}
		if err := sr.UpdateCurrentVersion(ctx, scriptID, number); err != nil {
			return repo.RowVersion{}, err
		}
	}

	return vr.Insert(ctx, repo.RowVersion{
		ScriptID:          scriptID,
		VersionNumber:     number,
		Title:             script.Title,
		Content:           script.Content,
		PredictedRating:   script.PredictedRating,
		AggScores:         script.AggScores,
		TotalScenes:       script.TotalScenes,
		ChangeDescription: description,
		IsCurrent:         makeCurrent,
		ScenesData:        scenesData,
		Metadata:          metadata,
	})
}

// List returns the script's versions, newest first, without content
func (s *Svc) List(ctx context.Context, scriptID string) ([]domain.Version, error) {
	rows, err := s.Repo.List(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Version, 0, len(rows))
	for _, r := range rows {
		out = append(out, toVersion(r, false))
	}
	return out, nil
}

// Get returns one version including its content and stored scenes
func (s *Svc) Get(ctx context.Context, scriptID string, number int) (domain.Version, error) {
	row, err := s.Repo.Get(ctx, scriptID, number)
	if err != nil {
		return domain.Version{}, err
	}
	return toVersion(row, true), nil
}

// Restore rolls the script back to a version. The current state is first
// preserved as a non-current backup version, then the script's fields and
// the current flags flip to the target, all inside one transaction
func (s *Svc) Restore(ctx context.Context, scriptID string, number int) (domain.RestoreResult, error) {
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		sr := s.scripts.Bind(q)
		vr := s.binder.Bind(q)

		target, err := vr.Get(ctx, scriptID, number)
		if err != nil {
			return err
		}

		backup := fmt.Sprintf("Backup before restore to v%d", number)
		if _, err := s.snapshot(ctx, q, scriptID, backup, false); err != nil {
			return err
		}

		if err := sr.RestoreSnapshot(ctx, scriptID, target.Title, target.Content,
			target.PredictedRating, target.AggScores, target.TotalScenes, target.VersionNumber); err != nil {
			return err
		}
		return vr.SetCurrent(ctx, scriptID, number)
	})
	if err != nil {
		return domain.RestoreResult{}, err
	}

	s.log.Info().Str("script_id", scriptID).Int("version", number).Msg("version restored")
	return domain.RestoreResult{
		Message:        fmt.Sprintf("Successfully restored to version %d", number),
		ScriptID:       scriptID,
		CurrentVersion: number,
	}, nil
}

// Compare diffs two versions: rating flip, aggregate score deltas beyond
// 0.01, scene-count delta and a unified content diff capped at 100 lines
func (s *Svc) Compare(ctx context.Context, scriptID string, v1, v2 int) (domain.Comparison, error) {
	a, err := s.Repo.Get(ctx, scriptID, v1)
	if err != nil {
		return domain.Comparison{}, err
	}
	b, err := s.Repo.Get(ctx, scriptID, v2)
	if err != nil {
		return domain.Comparison{}, err
	}
	return compare(a, b)
}

func compare(a, b repo.RowVersion) (domain.Comparison, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a.Content),
		B:        difflib.SplitLines(b.Content),
		FromFile: fmt.Sprintf("v%d", a.VersionNumber),
		ToFile:   fmt.Sprintf("v%d", b.VersionNumber),
		Context:  3,
	})
	if err != nil {
		return domain.Comparison{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "content diff")
	}
	var lines []string
	if text != "" {
		lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	}
	total := len(lines)
	if len(lines) > diffLineCap {
		lines = lines[:diffLineCap]
	}

	changes := domain.CompareChanges{
		RatingChanged:     a.PredictedRating != b.PredictedRating,
		ScoreChanges:      scoreChanges(a.AggScores, b.AggScores),
		ScenesChanged:     sceneCountDelta(a.ScenesData, b.ScenesData),
		ContentDiff:       lines,
		TotalLinesChanged: total,
	}
	if changes.RatingChanged {
		changes.RatingChange = &domain.RatingTransition{From: a.PredictedRating, To: b.PredictedRating}
	}

	return domain.Comparison{
		Version1: versionRef(a),
		Version2: versionRef(b),
		Changes:  changes,
	}, nil
}

func versionRef(v repo.RowVersion) domain.VersionRef {
	var scenes []scriptsdom.Scene
	_ = json.Unmarshal(v.ScenesData, &scenes)
	return domain.VersionRef{
		Number:    v.VersionNumber,
		Rating:    v.PredictedRating,
		Scenes:    v.TotalScenes,
		CreatedAt: v.CreatedAt,
	}
}

func scoreChanges(oldRaw, newRaw []byte) map[string]domain.ScoreChange {
	var oldScores, newScores map[string]float64
	_ = json.Unmarshal(oldRaw, &oldScores)
	_ = json.Unmarshal(newRaw, &newScores)

	out := map[string]domain.ScoreChange{}
	for key, oldVal := range oldScores {
		newVal := newScores[key]
		d := newVal - oldVal
		if d > 0.01 || d < -0.01 {
			out[key] = domain.ScoreChange{Old: oldVal, New: newVal, Change: d}
		}
	}
	return out
}

func sceneCountDelta(aRaw, bRaw []byte) int {
	var aScenes, bScenes []json.RawMessage
	_ = json.Unmarshal(aRaw, &aScenes)
	_ = json.Unmarshal(bRaw, &bScenes)
	d := len(aScenes) - len(bScenes)
	if d < 0 {
		d = -d
	}
	return d
}

// Delete removes a version. The current version is protected
func (s *Svc) Delete(ctx context.Context, scriptID string, number int) error {
	row, err := s.Repo.Get(ctx, scriptID, number)
	if err != nil {
		return err
	}
	if row.IsCurrent {
		return perr.Conflictf("cannot delete current version")
	}
	if err := s.Repo.Delete(ctx, scriptID, number); err != nil {
		return err
	}
	s.log.Info().Str("script_id", scriptID).Int("version", number).Msg("version deleted")
	return nil
}

func toVersion(r repo.RowVersion, full bool) domain.Version {
	var agg map[string]float64
	_ = json.Unmarshal(r.AggScores, &agg)
	v := domain.Version{
		ID:                r.ID,
		ScriptID:          r.ScriptID,
		VersionNumber:     r.VersionNumber,
		Title:             r.Title,
		PredictedRating:   r.PredictedRating,
		AggScores:         agg,
		TotalScenes:       r.TotalScenes,
		ChangeDescription: r.ChangeDescription,
		IsCurrent:         r.IsCurrent,
		CreatedAt:         r.CreatedAt,
	}
	if full {
		v.Content = r.Content
		_ = json.Unmarshal(r.ScenesData, &v.ScenesData)
	}
	return v
}
