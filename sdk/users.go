package sdk

import (
	"context"
	"net/http"

	"github.com/neuromation/neuro-admin/models"
)

// ListClusterUsers returns the users of a cluster with their roles and quotas.
func (c *Client) ListClusterUsers(ctx context.Context, cluster string) ([]models.ClusterUser, error) {
	var users []models.ClusterUser
	if err := c.doJSONRequest(ctx, http.MethodGet, clusterAdminPath(cluster)+"/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetClusterUser returns one user of a cluster.
func (c *Client) GetClusterUser(ctx context.Context, cluster, user string) (*models.ClusterUser, error) {
	var cu models.ClusterUser
	if err := c.doJSONRequest(ctx, http.MethodGet, clusterUserPath(cluster, user), nil, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

// AddClusterUser grants user access to cluster with role.
// An empty role grants models.DefaultRole.
//
// Returns:
//   - *models.ClusterUser: The created binding
//   - error: ErrNotFound if the cluster does not exist, ErrConflict if the user is
//     already a member, or a models validation error for bad input
func (c *Client) AddClusterUser(ctx context.Context, cluster, user string, role models.ClusterUserRole) (*models.ClusterUser, error) {
	req := models.ClusterUserAddRequest{UserName: user, Role: role}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var cu models.ClusterUser
	if err := c.doJSONRequest(ctx, http.MethodPost, clusterAdminPath(cluster)+"/users", req, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

// RemoveClusterUser revokes user's access to cluster.
func (c *Client) RemoveClusterUser(ctx context.Context, cluster, user string) error {
	return c.doJSONRequest(ctx, http.MethodDelete, clusterUserPath(cluster, user), nil, nil)
}

// SetUserQuota replaces the user's quota. Nil parts of quota become unlimited.
func (c *Client) SetUserQuota(ctx context.Context, cluster, user string, quota models.Quota) (*models.ClusterUser, error) {
	if err := quota.Validate(); err != nil {
		return nil, err
	}
	var cu models.ClusterUser
	if err := c.doJSONRequest(ctx, http.MethodPut, clusterUserPath(cluster, user)+"/quota", quota, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

// AddUserQuota increases the user's quota by the amounts in req.
// Parts that are unlimited on the server stay unlimited.
func (c *Client) AddUserQuota(ctx context.Context, cluster, user string, req models.QuotaAddRequest) (*models.ClusterUser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var cu models.ClusterUser
	if err := c.doJSONRequest(ctx, http.MethodPatch, clusterUserPath(cluster, user)+"/quota", req, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}
