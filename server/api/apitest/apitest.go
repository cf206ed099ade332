// Package apitest runs the admin API in-process for tests.
//
// Each Server has its own in-memory database and admin token, so tests can
// run in parallel without sharing state.
package apitest

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/token"
	"github.com/neuromation/neuro-admin/sdk"
	"github.com/neuromation/neuro-admin/server/api"
	"github.com/neuromation/neuro-admin/server/internal/database"
)

// Server is a running admin API.
type Server struct {
	*httptest.Server

	// Token is the admin bearer token the server accepts.
	Token string

	// DB is the server's database.
	DB *sql.DB
}

// NewServer starts an admin API that is shut down when the test ends.
// logger may be nil.
func NewServer(t testing.TB, logger *zap.Logger) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.Open(context.Background(), database.MemoryPath, logger)
	require.NoError(t, err, "failed to open test database")

	adminToken, err := token.Generate()
	require.NoError(t, err)
	secret, err := token.Generate()
	require.NoError(t, err)
	verifier, err := token.NewVerifier(adminToken, secret)
	require.NoError(t, err)

	done := make(chan struct{})
	router := api.SetupRouter(&api.RouterConfig{
		DB:         db,
		Logger:     logger,
		Verifier:   verifier,
		InstanceID: uuid.New().String(),
		RateLimit:  1000,
		Burst:      1000,
		Done:       done,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		close(done)
		db.Close()
	})

	return &Server{Server: srv, Token: adminToken, DB: db}
}

// Client returns an SDK client authenticated with the admin token.
func (s *Server) Client(t testing.TB) *sdk.Client {
	t.Helper()
	client, err := sdk.NewClient(sdk.ClientConfig{
		BaseURL:       s.URL,
		Token:         s.Token,
		RetryAttempts: 1,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  5 * time.Millisecond,
		Timeout:       5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

// SeedCluster creates a blank cluster.
func (s *Server) SeedCluster(t testing.TB, name string) {
	t.Helper()
	_, err := s.Client(t).CreateCluster(context.Background(), name)
	require.NoError(t, err, "failed to seed cluster %s", name)
}

// SeedUser adds user to cluster with role.
func (s *Server) SeedUser(t testing.TB, cluster, user string, role models.ClusterUserRole) {
	t.Helper()
	_, err := s.Client(t).AddClusterUser(context.Background(), cluster, user, role)
	require.NoError(t, err, "failed to seed user %s", user)
}
