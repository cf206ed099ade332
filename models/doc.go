// Package models provides shared data structures for the neuro admin tooling.
//
// This package contains the records exchanged between the CLI, the admin API SDK
// and the admin API dev server. Keeping them in one place lets every component
// validate requests the same way without creating circular dependencies.
//
// The models in this package represent:
//   - Clusters: named compute environments provisioned on a cloud provider
//   - Cluster users: user-to-cluster role bindings
//   - Quotas: per-user limits on credits, run time and running jobs
//   - Resource presets: named CPU/GPU/TPU/memory bundles with an hourly credit cost
//   - Cloud provider options: node pool shapes offered by each cloud type
package models
