package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/server/internal/database"
	"github.com/neuromation/neuro-admin/server/internal/metrics"
)

const userColumns = `cluster_name, user_name, role, credits, gpu_run_time_minutes, non_gpu_run_time_minutes, running_jobs`

// UserService manages cluster membership and per-user quotas.
type UserService struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, logger *zap.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

// ListUsers returns the members of cluster ordered by user name.
func (s *UserService) ListUsers(ctx context.Context, cluster string) (_ []models.ClusterUser, err error) {
	defer database.Observe("list_cluster_users", time.Now(), &err)

	if err := ensureClusterExists(ctx, s.db, cluster); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM cluster_users
		WHERE cluster_name = ?
		ORDER BY user_name ASC
	`, cluster)
	if err != nil {
		return nil, dbError("list cluster users", err)
	}
	defer rows.Close()

	users := []models.ClusterUser{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list cluster users", err)
	}
	return users, nil
}

// GetUser returns one member of cluster.
func (s *UserService) GetUser(ctx context.Context, cluster, user string) (_ *models.ClusterUser, err error) {
	defer database.Observe("get_cluster_user", time.Now(), &err)
	return getUser(ctx, s.db, cluster, user)
}

// AddUser grants a user access to cluster.
func (s *UserService) AddUser(ctx context.Context, cluster string, req *models.ClusterUserAddRequest) (_ *models.ClusterUser, err error) {
	defer func() { metrics.RecordOperation("cluster_user", "add", err) }()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ensureClusterExists(ctx, s.db, cluster); err != nil {
		return nil, err
	}

	start := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cluster_users (cluster_name, user_name, role) VALUES (?, ?, ?)
	`, cluster, req.UserName, req.Role)
	database.Observe("add_cluster_user", start, &err)
	if err != nil {
		if database.IsUniqueConstraint(err) {
			return nil, fmt.Errorf("%w: %q in cluster %q", models.ErrUserExists, req.UserName, cluster)
		}
		return nil, dbError("insert cluster user", err)
	}

	logging.FromContextOr(ctx, s.logger).Info("cluster user added",
		zap.String(logging.FieldCluster, cluster),
		zap.String(logging.FieldUser, req.UserName),
		zap.String(logging.FieldRole, string(req.Role)),
	)

	return &models.ClusterUser{ClusterName: cluster, UserName: req.UserName, Role: req.Role}, nil
}

// RemoveUser revokes a user's access to cluster.
func (s *UserService) RemoveUser(ctx context.Context, cluster, user string) (err error) {
	defer func() { metrics.RecordOperation("cluster_user", "remove", err) }()
	if err := ensureClusterExists(ctx, s.db, cluster); err != nil {
		return err
	}

	start := time.Now()
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM cluster_users WHERE cluster_name = ? AND user_name = ?
	`, cluster, user)
	database.Observe("remove_cluster_user", start, &err)
	if err != nil {
		return dbError("delete cluster user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q in cluster %q", models.ErrUserNotFound, user, cluster)
	}

	logging.FromContextOr(ctx, s.logger).Info("cluster user removed",
		zap.String(logging.FieldCluster, cluster),
		zap.String(logging.FieldUser, user),
	)
	return nil
}

// SetQuota replaces the user's quota. Nil parts become unlimited.
func (s *UserService) SetQuota(ctx context.Context, cluster, user string, quota models.Quota) (_ *models.ClusterUser, err error) {
	defer func() { metrics.RecordOperation("quota", "set", err) }()
	if err := quota.Validate(); err != nil {
		return nil, err
	}
	return s.updateQuota(ctx, cluster, user, func(models.Quota) (models.Quota, error) { return quota, nil })
}

// AddQuota increases the user's quota. Unlimited parts stay unlimited.
func (s *UserService) AddQuota(ctx context.Context, cluster, user string, req models.QuotaAddRequest) (_ *models.ClusterUser, err error) {
	defer func() { metrics.RecordOperation("quota", "add", err) }()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.updateQuota(ctx, cluster, user, func(cur models.Quota) (models.Quota, error) { return cur.Add(req.Delta()) })
}

func (s *UserService) updateQuota(ctx context.Context, cluster, user string, apply func(models.Quota) (models.Quota, error)) (_ *models.ClusterUser, err error) {
	defer database.Observe("update_quota", time.Now(), &err)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, dbError("begin transaction", err)
	}
	defer tx.Rollback()

	cu, err := getUser(ctx, tx, cluster, user)
	if err != nil {
		return nil, err
	}
	if cu.Quota, err = apply(cu.Quota); err != nil {
		return nil, err
	}
	if err := cu.Quota.Validate(); err != nil {
		return nil, err
	}

	var credits sql.NullString
	if cu.Quota.Credits != nil {
		credits = sql.NullString{String: cu.Quota.Credits.String(), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE cluster_users
		SET credits = ?, gpu_run_time_minutes = ?, non_gpu_run_time_minutes = ?, running_jobs = ?
		WHERE cluster_name = ? AND user_name = ?
	`, credits, nullInt(cu.Quota.TotalGPURunTimeMinutes), nullInt(cu.Quota.TotalNonGPURunTimeMinutes),
		nullInt(cu.Quota.TotalRunningJobs), cluster, user)
	if err != nil {
		return nil, dbError("update quota", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, dbError("commit quota", err)
	}

	logging.FromContextOr(ctx, s.logger).Info("quota updated",
		zap.String(logging.FieldCluster, cluster),
		zap.String(logging.FieldUser, user),
		zap.Bool("unlimited", cu.Quota.IsUnlimited()),
	)
	return cu, nil
}

func getUser(ctx context.Context, q querier, cluster, user string) (*models.ClusterUser, error) {
	if err := ensureClusterExists(ctx, q, cluster); err != nil {
		return nil, err
	}
	row := q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM cluster_users
		WHERE cluster_name = ? AND user_name = ?
	`, cluster, user)
	cu, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q in cluster %q", models.ErrUserNotFound, user, cluster)
	}
	return cu, err
}

func scanUser(row rowScanner) (*models.ClusterUser, error) {
	var (
		cu                           models.ClusterUser
		credits                      sql.NullString
		gpuMinutes, cpuMinutes, jobs sql.NullInt64
	)
	if err := row.Scan(&cu.ClusterName, &cu.UserName, &cu.Role, &credits, &gpuMinutes, &cpuMinutes, &jobs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, dbError("read cluster user", err)
	}

	if credits.Valid {
		d, err := decimal.NewFromString(credits.String)
		if err != nil {
			return nil, fmt.Errorf("%w: corrupt credits for %q: %v", models.ErrInternalError, cu.UserName, err)
		}
		cu.Quota.Credits = &d
	}
	cu.Quota.TotalGPURunTimeMinutes = intPtr(gpuMinutes)
	cu.Quota.TotalNonGPURunTimeMinutes = intPtr(cpuMinutes)
	cu.Quota.TotalRunningJobs = intPtr(jobs)
	return &cu, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
