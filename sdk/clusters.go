package sdk

import (
	"context"
	"net/http"
	"net/url"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/clusterconfig"
)

// ListClusters returns every cluster visible to the caller.
func (c *Client) ListClusters(ctx context.Context) ([]models.Cluster, error) {
	var clusters []models.Cluster
	if err := c.doJSONRequest(ctx, http.MethodGet, "/apis/admin/v1/clusters", nil, &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// CreateCluster registers a new, blank cluster.
//
// Parameters:
//   - ctx: Request context for cancellation and timeouts
//   - name: Cluster name, validated with models.ValidateClusterName
//
// Returns:
//   - *models.Cluster: The created cluster
//   - error: ErrConflict if the name is taken, ErrBadRequest for invalid names
func (c *Client) CreateCluster(ctx context.Context, name string) (*models.Cluster, error) {
	req := models.ClusterCreateRequest{Name: name}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var cluster models.Cluster
	if err := c.doJSONRequest(ctx, http.MethodPost, "/apis/admin/v1/clusters", req, &cluster); err != nil {
		return nil, err
	}
	return &cluster, nil
}

// SetupCloudProvider uploads a cluster configuration document and starts deployment.
//
// Parameters:
//   - ctx: Request context for cancellation and timeouts
//   - name: Name of an existing cluster
//   - config: A validated configuration document
//
// Returns:
//   - error: ErrNotFound if the cluster does not exist, ErrBadRequest if the
//     server rejects the document
func (c *Client) SetupCloudProvider(ctx context.Context, name string, config *clusterconfig.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	path := clusterAPIPath(name) + "/cloud_provider?start_deployment=true"
	return c.doJSONRequest(ctx, http.MethodPut, path, config, nil)
}

// GetCloudProviderOptions returns the node pool shapes offered by a cloud provider.
func (c *Client) GetCloudProviderOptions(ctx context.Context, t models.CloudProviderType) (*models.CloudProviderOptions, error) {
	if !t.Valid() {
		_, err := models.ParseCloudProviderType(string(t))
		return nil, err
	}
	var opts models.CloudProviderOptions
	path := "/api/v1/cloud_providers/" + url.PathEscape(string(t))
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
