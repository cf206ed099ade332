// Package service implements the admin API operations on top of the SQLite store.
//
// Services validate their input with the models package and report failures
// as models sentinel errors (wrapped with context) so the HTTP layer can map
// them with errors.Is.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neuromation/neuro-admin/models"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ensureClusterExists returns models.ErrClusterNotFound for unknown clusters.
func ensureClusterExists(ctx context.Context, q querier, name string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM clusters WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", models.ErrClusterNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to look up cluster: %v", models.ErrDatabaseError, err)
	}
	return nil
}

func dbError(action string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", models.ErrDatabaseError, action, err)
}
