package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/clusterconfig"
	"github.com/neuromation/neuro-admin/server/internal/database"
	"github.com/neuromation/neuro-admin/server/internal/metrics"
)

// ClusterService manages cluster records and their cloud provider configuration.
type ClusterService struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClusterService creates a new ClusterService.
func NewClusterService(db *sql.DB, logger *zap.Logger) *ClusterService {
	return &ClusterService{db: db, logger: logger}
}

// ListClusters returns all clusters ordered by name.
func (s *ClusterService) ListClusters(ctx context.Context) (_ []models.Cluster, err error) {
	defer database.Observe("list_clusters", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, status, cloud_provider, created_at
		FROM clusters
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, dbError("list clusters", err)
	}
	defer rows.Close()

	clusters := []models.Cluster{}
	for rows.Next() {
		c, err := scanCluster(rows)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list clusters", err)
	}
	return clusters, nil
}

// GetCluster returns one cluster by name.
func (s *ClusterService) GetCluster(ctx context.Context, name string) (_ *models.Cluster, err error) {
	defer database.Observe("get_cluster", time.Now(), &err)

	row := s.db.QueryRowContext(ctx, `
		SELECT name, status, cloud_provider, created_at
		FROM clusters
		WHERE name = ?
	`, name)
	c, err := scanCluster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", models.ErrClusterNotFound, name)
	}
	return c, err
}

// CreateCluster registers a blank cluster.
func (s *ClusterService) CreateCluster(ctx context.Context, req *models.ClusterCreateRequest) (_ *models.Cluster, err error) {
	defer func() { metrics.RecordOperation("cluster", "create", err) }()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	createdAt := start.UTC().Truncate(time.Second)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clusters (name, status, created_at) VALUES (?, ?, ?)
	`, req.Name, models.ClusterStatusBlank, createdAt)
	database.Observe("create_cluster", start, &err)
	if err != nil {
		if database.IsUniqueConstraint(err) {
			return nil, fmt.Errorf("%w: %q", models.ErrClusterExists, req.Name)
		}
		return nil, dbError("insert cluster", err)
	}

	logging.FromContextOr(ctx, s.logger).Info("cluster created", zap.String(logging.FieldCluster, req.Name))
	s.refreshCounts(ctx)

	return &models.Cluster{
		Name:      req.Name,
		Status:    models.ClusterStatusBlank,
		CreatedAt: createdAt,
	}, nil
}

// SetCloudProvider stores the cloud provider configuration of a cluster.
// With startDeployment the cluster is marked deployed; there is no real provisioning.
func (s *ClusterService) SetCloudProvider(ctx context.Context, name string, cfg *clusterconfig.Config, startDeployment bool) (err error) {
	defer func() { metrics.RecordOperation("cloud_provider", "set", err) }()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}

	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: failed to encode cloud provider: %v", models.ErrInternalError, err)
	}

	status := models.ClusterStatusBlank
	if startDeployment {
		status = models.ClusterStatusDeployed
	}

	start := time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE clusters SET cloud_provider = ?, status = ? WHERE name = ?
	`, string(doc), status, name)
	database.Observe("set_cloud_provider", start, &err)
	if err != nil {
		return dbError("update cluster", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", models.ErrClusterNotFound, name)
	}

	logging.FromContextOr(ctx, s.logger).Info("cloud provider configured",
		zap.String(logging.FieldCluster, name),
		zap.String(logging.FieldCloudType, string(cfg.Type)),
		zap.Bool("start_deployment", startDeployment),
	)
	s.refreshCounts(ctx)
	return nil
}

// refreshCounts updates the per-status cluster gauge. Failures are only logged.
func (s *ClusterService) refreshCounts(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM clusters GROUP BY status`)
	if err != nil {
		s.logger.Warn("failed to count clusters", zap.Error(err))
		return
	}
	defer rows.Close()

	metrics.ClusterCount.Reset()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			s.logger.Warn("failed to count clusters", zap.Error(err))
			return
		}
		metrics.ClusterCount.WithLabelValues(status).Set(float64(n))
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCluster(row rowScanner) (*models.Cluster, error) {
	var (
		c        models.Cluster
		provider sql.NullString
	)
	if err := row.Scan(&c.Name, &c.Status, &provider, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, dbError("read cluster", err)
	}

	if provider.Valid && provider.String != "" {
		var cfg clusterconfig.Config
		if err := json.Unmarshal([]byte(provider.String), &cfg); err != nil {
			return nil, fmt.Errorf("%w: corrupt cloud provider for %q: %v", models.ErrInternalError, c.Name, err)
		}
		c.CloudProvider = &models.CloudProvider{
			Type:   cfg.Type,
			Region: cfg.Region,
			Zones:  cfg.Zones,
		}
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
