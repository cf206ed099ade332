package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/clusterconfig"
	"github.com/neuromation/neuro-admin/sdk"
	"github.com/neuromation/neuro-admin/server/api/apitest"
)

func TestHealthAndMetricsArePublic(t *testing.T) {
	srv := apitest.NewServer(t, nil)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	require.NoError(t, srv.Client(t).Ping(context.Background()))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := apitest.NewServer(t, nil)

	resp, err := http.Get(srv.URL + "/apis/admin/v1/clusters")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unauthorized", body.Error)
	assert.NotEmpty(t, body.RequestID)

	bad, err := sdk.NewClient(sdk.ClientConfig{BaseURL: srv.URL, Token: strings.Repeat("x", 44), RetryAttempts: -1})
	require.NoError(t, err)
	_, err = bad.ListClusters(context.Background())
	assert.ErrorIs(t, err, sdk.ErrUnauthorized)
}

func TestClusterLifecycle(t *testing.T) {
	srv := apitest.NewServer(t, nil)
	client := srv.Client(t)
	ctx := context.Background()

	clusters, err := client.ListClusters(ctx)
	require.NoError(t, err)
	assert.Empty(t, clusters)

	created, err := client.CreateCluster(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.ClusterStatusBlank, created.Status)

	_, err = client.CreateCluster(ctx, "default")
	assert.ErrorIs(t, err, sdk.ErrConflict)

	cfg, err := clusterconfig.Build(models.CloudAWS, map[string]string{
		clusterconfig.KeyAccessKeyID:     "AKIA123",
		clusterconfig.KeySecretAccessKey: "secret",
	})
	require.NoError(t, err)
	require.NoError(t, client.SetupCloudProvider(ctx, "default", cfg))

	err = client.SetupCloudProvider(ctx, "missing", cfg)
	assert.ErrorIs(t, err, sdk.ErrNotFound)

	clusters, err = client.ListClusters(ctx)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, models.ClusterStatusDeployed, clusters[0].Status)
	require.NotNil(t, clusters[0].CloudProvider)
	assert.Equal(t, models.CloudAWS, clusters[0].CloudProvider.Type)
}

func TestCloudProviderOptions(t *testing.T) {
	srv := apitest.NewServer(t, nil)
	client := srv.Client(t)

	for _, typ := range models.CloudProviderTypes {
		opts, err := client.GetCloudProviderOptions(context.Background(), typ)
		require.NoError(t, err)
		assert.Equal(t, typ, opts.Type)
		assert.NotEmpty(t, opts.NodePools)
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/cloud_providers/openstack", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+srv.Token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsersAndQuota(t *testing.T) {
	srv := apitest.NewServer(t, nil)
	client := srv.Client(t)
	ctx := context.Background()
	srv.SeedCluster(t, "default")

	_, err := client.AddClusterUser(ctx, "missing", "alice", models.RoleUser)
	assert.ErrorIs(t, err, sdk.ErrNotFound)

	cu, err := client.AddClusterUser(ctx, "default", "alice", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, cu.Role)

	_, err = client.AddClusterUser(ctx, "default", "alice", models.RoleAdmin)
	assert.ErrorIs(t, err, sdk.ErrConflict)

	credits := decimal.NewFromInt(50)
	minutes := int64(120)
	cu, err = client.SetUserQuota(ctx, "default", "alice", models.Quota{
		Credits:                &credits,
		TotalGPURunTimeMinutes: &minutes,
	})
	require.NoError(t, err)
	assert.True(t, cu.Quota.Credits.Equal(credits))
	assert.Nil(t, cu.Quota.TotalRunningJobs)

	more := int64(60)
	cu, err = client.AddUserQuota(ctx, "default", "alice", models.QuotaAddRequest{AdditionalGPURunTimeMinutes: &more})
	require.NoError(t, err)
	assert.Equal(t, int64(180), *cu.Quota.TotalGPURunTimeMinutes)

	users, err := client.ListClusterUsers(ctx, "default")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(180), *users[0].Quota.TotalGPURunTimeMinutes)

	require.NoError(t, client.RemoveClusterUser(ctx, "default", "alice"))
	err = client.RemoveClusterUser(ctx, "default", "alice")
	assert.ErrorIs(t, err, sdk.ErrNotFound)

	_, err = client.GetClusterUser(ctx, "default", "alice")
	var apiErr *sdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Contains(t, apiErr.Message, "alice")
}

func TestPresets(t *testing.T) {
	srv := apitest.NewServer(t, nil)
	client := srv.Client(t)
	ctx := context.Background()
	srv.SeedCluster(t, "default")

	preset := models.ResourcePreset{Name: "cpu-small", CPU: 1, MemoryMB: 2048, CreditsPerHour: decimal.NewFromInt(1)}
	require.NoError(t, client.AddResourcePreset(ctx, "default", preset))
	assert.ErrorIs(t, client.AddResourcePreset(ctx, "default", preset), sdk.ErrConflict)

	preset.CPU = 2
	require.NoError(t, client.UpdateResourcePreset(ctx, "default", preset))
	require.NoError(t, client.UpdateResourcePreset(ctx, "default", models.ResourcePreset{
		Name: "gpu-large", CPU: 8, MemoryMB: 65536, GPU: 4, GPUModel: "nvidia-tesla-v100",
	}))

	presets, err := client.ListResourcePresets(ctx, "default")
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, 2.0, presets[0].CPU)
	assert.Equal(t, "gpu-large", presets[1].Name)

	require.NoError(t, client.RemoveResourcePreset(ctx, "default", "cpu-small"))
	assert.ErrorIs(t, client.RemoveResourcePreset(ctx, "default", "cpu-small"), sdk.ErrNotFound)

	_, err = client.ListResourcePresets(ctx, "missing")
	assert.ErrorIs(t, err, sdk.ErrNotFound)
}

func TestInvalidBodies(t *testing.T) {
	srv := apitest.NewServer(t, nil)
	srv.SeedCluster(t, "default")

	send := func(method, path, body string) *http.Response {
		req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+srv.Token)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp
	}

	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/apis/admin/v1/clusters", `{"name":`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/apis/admin/v1/clusters", `{"name":"Bad Name"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest,
		send(http.MethodPut, "/api/v1/clusters/default/cloud_provider?start_deployment=maybe", `{}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest,
		send(http.MethodPut, "/api/v1/clusters/default/resource_presets", `[{"name":"small","cpu":0,"memory_mb":1}]`).StatusCode)
	assert.Equal(t, http.StatusBadRequest,
		send(http.MethodPatch, "/apis/admin/v1/clusters/default/users/alice/quota", `{}`).StatusCode)
}
