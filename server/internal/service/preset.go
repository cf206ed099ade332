package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/server/internal/database"
	"github.com/neuromation/neuro-admin/server/internal/metrics"
)

// PresetService stores the ordered resource preset list of each cluster.
type PresetService struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPresetService creates a new PresetService.
func NewPresetService(db *sql.DB, logger *zap.Logger) *PresetService {
	return &PresetService{db: db, logger: logger}
}

// ListPresets returns the presets of cluster in the order they were stored.
func (s *PresetService) ListPresets(ctx context.Context, cluster string) (_ []models.ResourcePreset, err error) {
	defer database.Observe("list_presets", time.Now(), &err)

	if err := ensureClusterExists(ctx, s.db, cluster); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT spec FROM resource_presets
		WHERE cluster_name = ?
		ORDER BY position ASC
	`, cluster)
	if err != nil {
		return nil, dbError("list presets", err)
	}
	defer rows.Close()

	presets := []models.ResourcePreset{}
	for rows.Next() {
		var spec string
		if err := rows.Scan(&spec); err != nil {
			return nil, dbError("read preset", err)
		}
		var p models.ResourcePreset
		if err := json.Unmarshal([]byte(spec), &p); err != nil {
			return nil, fmt.Errorf("%w: corrupt preset in cluster %q: %v", models.ErrInternalError, cluster, err)
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list presets", err)
	}
	return presets, nil
}

// ReplacePresets atomically replaces the preset list of cluster.
func (s *PresetService) ReplacePresets(ctx context.Context, cluster string, presets []models.ResourcePreset) (err error) {
	defer func() { metrics.RecordOperation("resource_presets", "replace", err) }()
	defer database.Observe("replace_presets", time.Now(), &err)

	if err := models.ValidatePresets(presets); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := ensureClusterExists(ctx, tx, cluster); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM resource_presets WHERE cluster_name = ?`, cluster); err != nil {
		return dbError("clear presets", err)
	}

	for i, p := range presets {
		spec, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("%w: failed to encode preset %q: %v", models.ErrInternalError, p.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO resource_presets (cluster_name, position, name, spec) VALUES (?, ?, ?, ?)
		`, cluster, i, p.Name, string(spec)); err != nil {
			return dbError("insert preset", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError("commit presets", err)
	}

	logging.FromContextOr(ctx, s.logger).Info("resource presets replaced",
		zap.String(logging.FieldCluster, cluster),
		zap.Int("count", len(presets)),
	)
	return nil
}
