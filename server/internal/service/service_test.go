package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/clusterconfig"
	"github.com/neuromation/neuro-admin/server/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.MemoryPath, zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func awsConfig(t *testing.T) *clusterconfig.Config {
	t.Helper()
	cfg, err := clusterconfig.Build(models.CloudAWS, map[string]string{
		clusterconfig.KeyAccessKeyID:     "AKIA123",
		clusterconfig.KeySecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	return cfg
}

func seedCluster(t *testing.T, svc *ClusterService, name string) {
	t.Helper()
	if _, err := svc.CreateCluster(context.Background(), &models.ClusterCreateRequest{Name: name}); err != nil {
		t.Fatalf("seed cluster: %v", err)
	}
}

func TestClusterService_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	core, logs := observer.New(zap.InfoLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))
	svc := NewClusterService(db, zap.NewNop())

	for _, name := range []string{"zeta", "alpha"} {
		c, err := svc.CreateCluster(ctx, &models.ClusterCreateRequest{Name: name})
		if err != nil {
			t.Fatalf("CreateCluster(%s) failed: %v", name, err)
		}
		if c.Status != models.ClusterStatusBlank {
			t.Errorf("status = %q, want blank", c.Status)
		}
	}

	clusters, err := svc.ListClusters(ctx)
	if err != nil {
		t.Fatalf("ListClusters failed: %v", err)
	}
	if len(clusters) != 2 || clusters[0].Name != "alpha" || clusters[1].Name != "zeta" {
		t.Fatalf("unexpected clusters: %+v", clusters)
	}
	if clusters[0].CloudProvider != nil {
		t.Errorf("blank cluster should have no cloud provider")
	}
	if logs.FilterMessage("cluster created").Len() != 2 {
		t.Errorf("expected two creation log entries, got %d", logs.FilterMessage("cluster created").Len())
	}
}

func TestClusterService_CreateErrors(t *testing.T) {
	svc := NewClusterService(newTestDB(t), zap.NewNop())
	ctx := context.Background()
	seedCluster(t, svc, "default")

	_, err := svc.CreateCluster(ctx, &models.ClusterCreateRequest{Name: "default"})
	if !errors.Is(err, models.ErrClusterExists) {
		t.Errorf("duplicate create: got %v, want ErrClusterExists", err)
	}

	_, err = svc.CreateCluster(ctx, &models.ClusterCreateRequest{Name: "Bad_Name"})
	if !errors.Is(err, models.ErrInvalidName) {
		t.Errorf("invalid name: got %v, want ErrInvalidName", err)
	}
}

func TestClusterService_SetCloudProvider(t *testing.T) {
	svc := NewClusterService(newTestDB(t), zap.NewNop())
	ctx := context.Background()
	seedCluster(t, svc, "default")
	cfg := awsConfig(t)

	if err := svc.SetCloudProvider(ctx, "default", cfg, true); err != nil {
		t.Fatalf("SetCloudProvider failed: %v", err)
	}

	c, err := svc.GetCluster(ctx, "default")
	if err != nil {
		t.Fatalf("GetCluster failed: %v", err)
	}
	if c.Status != models.ClusterStatusDeployed {
		t.Errorf("status = %q, want deployed", c.Status)
	}
	if c.CloudProvider == nil || c.CloudProvider.Type != models.CloudAWS || c.CloudProvider.Region != cfg.Region {
		t.Errorf("unexpected cloud provider: %+v", c.CloudProvider)
	}

	if err := svc.SetCloudProvider(ctx, "missing", cfg, true); !errors.Is(err, models.ErrClusterNotFound) {
		t.Errorf("missing cluster: got %v, want ErrClusterNotFound", err)
	}

	cfg.NodePools = nil
	if err := svc.SetCloudProvider(ctx, "default", cfg, true); !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("invalid config: got %v, want ErrInvalidRequest", err)
	}

	if _, err := svc.GetCluster(ctx, "missing"); !errors.Is(err, models.ErrClusterNotFound) {
		t.Errorf("GetCluster(missing): got %v", err)
	}
}

func TestUserService_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	clusters := NewClusterService(db, zap.NewNop())
	users := NewUserService(db, zap.NewNop())
	ctx := context.Background()
	seedCluster(t, clusters, "default")

	added, err := users.AddUser(ctx, "default", &models.ClusterUserAddRequest{UserName: "bob"})
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if added.Role != models.RoleUser {
		t.Errorf("role = %q, want default role", added.Role)
	}
	if _, err := users.AddUser(ctx, "default", &models.ClusterUserAddRequest{UserName: "alice", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("AddUser(alice) failed: %v", err)
	}

	list, err := users.ListUsers(ctx, "default")
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(list) != 2 || list[0].UserName != "alice" || list[0].Role != models.RoleAdmin {
		t.Fatalf("unexpected users: %+v", list)
	}
	if !list[1].Quota.IsUnlimited() {
		t.Errorf("new user should have unlimited quota")
	}

	_, err = users.AddUser(ctx, "default", &models.ClusterUserAddRequest{UserName: "bob"})
	if !errors.Is(err, models.ErrUserExists) {
		t.Errorf("duplicate add: got %v, want ErrUserExists", err)
	}
	_, err = users.AddUser(ctx, "missing", &models.ClusterUserAddRequest{UserName: "bob"})
	if !errors.Is(err, models.ErrClusterNotFound) {
		t.Errorf("add to missing cluster: got %v", err)
	}
	_, err = users.AddUser(ctx, "default", &models.ClusterUserAddRequest{UserName: "carol", Role: "owner"})
	if !errors.Is(err, models.ErrInvalidRole) {
		t.Errorf("bad role: got %v, want ErrInvalidRole", err)
	}

	if err := users.RemoveUser(ctx, "default", "bob"); err != nil {
		t.Fatalf("RemoveUser failed: %v", err)
	}
	if err := users.RemoveUser(ctx, "default", "bob"); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("second remove: got %v, want ErrUserNotFound", err)
	}
	if _, err := users.GetUser(ctx, "default", "bob"); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("GetUser(bob): got %v", err)
	}
}

func TestUserService_LogsWithoutRequestLogger(t *testing.T) {
	db := newTestDB(t)
	core, logs := observer.New(zap.InfoLevel)
	seedCluster(t, NewClusterService(db, zap.NewNop()), "default")
	users := NewUserService(db, zap.New(core))
	presets := NewPresetService(db, zap.New(core))
	ctx := context.Background()

	if _, err := users.AddUser(ctx, "default", &models.ClusterUserAddRequest{UserName: "bob"}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if err := presets.ReplacePresets(ctx, "default", nil); err != nil {
		t.Fatalf("ReplacePresets failed: %v", err)
	}

	if logs.FilterMessage("cluster user added").Len() != 1 {
		t.Errorf("service logger did not receive the user log entry")
	}
	if logs.FilterMessage("resource presets replaced").Len() != 1 {
		t.Errorf("service logger did not receive the preset log entry")
	}
}

func TestUserService_Quota(t *testing.T) {
	db := newTestDB(t)
	clusters := NewClusterService(db, zap.NewNop())
	users := NewUserService(db, zap.NewNop())
	ctx := context.Background()
	seedCluster(t, clusters, "default")
	if _, err := users.AddUser(ctx, "default", &models.ClusterUserAddRequest{UserName: "bob"}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	credits := decimal.RequireFromString("100.5")
	gpu := int64(600)
	cu, err := users.SetQuota(ctx, "default", "bob", models.Quota{Credits: &credits, TotalGPURunTimeMinutes: &gpu})
	if err != nil {
		t.Fatalf("SetQuota failed: %v", err)
	}
	if cu.Quota.TotalNonGPURunTimeMinutes != nil || cu.Quota.TotalRunningJobs != nil {
		t.Errorf("omitted parts should be unlimited: %+v", cu.Quota)
	}

	moreCredits := decimal.RequireFromString("0.5")
	moreJobs := int64(3)
	cu, err = users.AddQuota(ctx, "default", "bob", models.QuotaAddRequest{
		AdditionalCredits:     &moreCredits,
		AdditionalRunningJobs: &moreJobs,
	})
	if err != nil {
		t.Fatalf("AddQuota failed: %v", err)
	}
	if cu.Quota.Credits.String() != "101" {
		t.Errorf("credits = %s, want 101", cu.Quota.Credits)
	}
	if cu.Quota.TotalRunningJobs != nil {
		t.Errorf("unlimited jobs should stay unlimited, got %d", *cu.Quota.TotalRunningJobs)
	}

	stored, err := users.GetUser(ctx, "default", "bob")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if *stored.Quota.TotalGPURunTimeMinutes != 600 || stored.Quota.Credits.String() != "101" {
		t.Errorf("stored quota mismatch: %+v", stored.Quota)
	}

	if _, err := users.AddQuota(ctx, "default", "bob", models.QuotaAddRequest{}); !errors.Is(err, models.ErrInvalidQuota) {
		t.Errorf("empty add: got %v, want ErrInvalidQuota", err)
	}
	negative := int64(-1)
	if _, err := users.SetQuota(ctx, "default", "bob", models.Quota{TotalRunningJobs: &negative}); !errors.Is(err, models.ErrInvalidQuota) {
		t.Errorf("negative set: got %v, want ErrInvalidQuota", err)
	}
	if _, err := users.SetQuota(ctx, "default", "ghost", models.Quota{}); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("unknown user: got %v, want ErrUserNotFound", err)
	}
}

func TestUserService_AddQuotaOverflow(t *testing.T) {
	db := newTestDB(t)
	clusters := NewClusterService(db, zap.NewNop())
	users := NewUserService(db, zap.NewNop())
	ctx := context.Background()
	seedCluster(t, clusters, "default")
	if _, err := users.AddUser(ctx, "default", &models.ClusterUserAddRequest{UserName: "bob"}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	jobs := int64(10)
	if _, err := users.SetQuota(ctx, "default", "bob", models.Quota{TotalRunningJobs: &jobs}); err != nil {
		t.Fatalf("SetQuota failed: %v", err)
	}

	huge := int64(math.MaxInt64)
	_, err := users.AddQuota(ctx, "default", "bob", models.QuotaAddRequest{AdditionalRunningJobs: &huge})
	if !errors.Is(err, models.ErrInvalidQuota) {
		t.Fatalf("overflowing add: got %v, want ErrInvalidQuota", err)
	}

	stored, err := users.GetUser(ctx, "default", "bob")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if stored.Quota.TotalRunningJobs == nil || *stored.Quota.TotalRunningJobs != 10 {
		t.Errorf("running jobs changed after rejected add: %+v", stored.Quota)
	}
}

func TestPresetService_Replace(t *testing.T) {
	db := newTestDB(t)
	clusters := NewClusterService(db, zap.NewNop())
	presets := NewPresetService(db, zap.NewNop())
	ctx := context.Background()
	seedCluster(t, clusters, "default")

	empty, err := presets.ListPresets(ctx, "default")
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no presets, got %d", len(empty))
	}

	want := []models.ResourcePreset{
		{Name: "gpu-small", CPU: 4, MemoryMB: 16384, GPU: 1, GPUModel: "nvidia-tesla-k80", CreditsPerHour: decimal.NewFromInt(5)},
		{Name: "cpu-small", CPU: 0.5, MemoryMB: 1024, Preemptible: true},
	}
	if err := presets.ReplacePresets(ctx, "default", want); err != nil {
		t.Fatalf("ReplacePresets failed: %v", err)
	}

	got, err := presets.ListPresets(ctx, "default")
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if len(got) != 2 || got[0].Name != "gpu-small" || got[1].Name != "cpu-small" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if !got[0].CreditsPerHour.Equal(decimal.NewFromInt(5)) || !got[1].Preemptible {
		t.Errorf("fields not round-tripped: %+v", got)
	}

	if err := presets.ReplacePresets(ctx, "default", want[1:]); err != nil {
		t.Fatalf("ReplacePresets failed: %v", err)
	}
	got, _ = presets.ListPresets(ctx, "default")
	if len(got) != 1 {
		t.Errorf("expected replacement to drop presets, got %d", len(got))
	}

	dup := []models.ResourcePreset{want[1], want[1]}
	if err := presets.ReplacePresets(ctx, "default", dup); !errors.Is(err, models.ErrInvalidPreset) {
		t.Errorf("duplicate presets: got %v, want ErrInvalidPreset", err)
	}
	if err := presets.ReplacePresets(ctx, "missing", want); !errors.Is(err, models.ErrClusterNotFound) {
		t.Errorf("missing cluster: got %v", err)
	}
	if _, err := presets.ListPresets(ctx, "missing"); !errors.Is(err, models.ErrClusterNotFound) {
		t.Errorf("ListPresets(missing): got %v", err)
	}
}
