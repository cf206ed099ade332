package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/neuromation/neuro-admin/models"
)

// ListResourcePresets returns the presets configured for a cluster.
func (c *Client) ListResourcePresets(ctx context.Context, cluster string) ([]models.ResourcePreset, error) {
	var presets []models.ResourcePreset
	if err := c.doJSONRequest(ctx, http.MethodGet, clusterAPIPath(cluster)+"/resource_presets", nil, &presets); err != nil {
		return nil, err
	}
	return presets, nil
}

// PutResourcePresets replaces the full preset list of a cluster.
func (c *Client) PutResourcePresets(ctx context.Context, cluster string, presets []models.ResourcePreset) error {
	if presets == nil {
		presets = []models.ResourcePreset{}
	}
	if err := models.ValidatePresets(presets); err != nil {
		return err
	}
	return c.doJSONRequest(ctx, http.MethodPut, clusterAPIPath(cluster)+"/resource_presets", presets, nil)
}

// UpdateResourcePreset adds preset, replacing any existing preset with the same name.
//
// The admin API only exposes the whole preset list, so this is a
// read-modify-write and concurrent edits to the same cluster may be lost.
func (c *Client) UpdateResourcePreset(ctx context.Context, cluster string, preset models.ResourcePreset) error {
	return c.modifyPresets(ctx, cluster, func(presets []models.ResourcePreset) ([]models.ResourcePreset, error) {
		if i := models.FindPreset(presets, preset.Name); i >= 0 {
			presets[i] = preset
			return presets, nil
		}
		return append(presets, preset), nil
	})
}

// AddResourcePreset adds preset and fails with ErrConflict if the name is taken.
func (c *Client) AddResourcePreset(ctx context.Context, cluster string, preset models.ResourcePreset) error {
	return c.modifyPresets(ctx, cluster, func(presets []models.ResourcePreset) ([]models.ResourcePreset, error) {
		if models.FindPreset(presets, preset.Name) >= 0 {
			return nil, fmt.Errorf("%w: preset %q already exists in cluster %q", ErrConflict, preset.Name, cluster)
		}
		return append(presets, preset), nil
	})
}

// RemoveResourcePreset deletes the named preset and fails with ErrNotFound if it is absent.
func (c *Client) RemoveResourcePreset(ctx context.Context, cluster, name string) error {
	return c.modifyPresets(ctx, cluster, func(presets []models.ResourcePreset) ([]models.ResourcePreset, error) {
		i := models.FindPreset(presets, name)
		if i < 0 {
			return nil, fmt.Errorf("%w: preset %q not found in cluster %q", ErrNotFound, name, cluster)
		}
		return append(presets[:i], presets[i+1:]...), nil
	})
}

func (c *Client) modifyPresets(ctx context.Context, cluster string, fn func([]models.ResourcePreset) ([]models.ResourcePreset, error)) error {
	presets, err := c.ListResourcePresets(ctx, cluster)
	if err != nil {
		return err
	}
	updated, err := fn(presets)
	if err != nil {
		return err
	}
	return c.PutResourcePresets(ctx, cluster, updated)
}
