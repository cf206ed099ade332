package models

import (
	"fmt"
	"strings"
)

// ClusterUserRole is the access level a user holds within a cluster.
type ClusterUserRole string

const (
	// RoleAdmin can manage the cluster, its users and its presets.
	RoleAdmin ClusterUserRole = "admin"

	// RoleManager can manage users of the cluster.
	RoleManager ClusterUserRole = "manager"

	// RoleUser can run workloads on the cluster.
	RoleUser ClusterUserRole = "user"
)

// DefaultRole is assigned when a user is added without an explicit role.
const DefaultRole = RoleUser

// ClusterUserRoles lists the accepted roles from most to least privileged.
var ClusterUserRoles = []ClusterUserRole{RoleAdmin, RoleManager, RoleUser}

// ParseClusterUserRole converts user input into a role.
// An empty string yields DefaultRole.
func ParseClusterUserRole(s string) (ClusterUserRole, error) {
	if s == "" {
		return DefaultRole, nil
	}
	role := ClusterUserRole(strings.ToLower(s))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q is not one of admin, manager, user", ErrInvalidRole, s)
	}
	return role, nil
}

// Valid reports whether r is a known role.
func (r ClusterUserRole) Valid() bool {
	for _, known := range ClusterUserRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r ClusterUserRole) String() string {
	return string(r)
}

// ClusterUser binds a platform user to a cluster with a role and a quota.
type ClusterUser struct {
	// ClusterName is the cluster the binding belongs to
	ClusterName string `json:"cluster_name"`

	// UserName is the platform user name
	UserName string `json:"user_name"`

	// Role is the user's access level in the cluster
	Role ClusterUserRole `json:"role"`

	// Quota limits the user's consumption; a zero Quota is unlimited
	Quota Quota `json:"quota"`
}

// ClusterUserAddRequest represents the request body for adding a user to a cluster.
type ClusterUserAddRequest struct {
	// UserName is the platform user to add (required)
	UserName string `json:"user_name"`

	// Role is the role to grant; empty means DefaultRole
	Role ClusterUserRole `json:"role,omitempty"`
}

// Validate checks the request and fills in the default role.
func (r *ClusterUserAddRequest) Validate() error {
	if err := ValidateUserName(r.UserName); err != nil {
		return err
	}
	role, err := ParseClusterUserRole(string(r.Role))
	if err != nil {
		return err
	}
	r.Role = role
	return nil
}
