package postgres

import (
	"context"
	"fmt"
)

// Capabilities reports which optional schema features are present in the
// connected database. Deployments that never ran the versioning migration
// still serve the core skill API; version history and publishing are
// reported as unavailable instead of failing at query time.
type Capabilities struct {
	// Versioning is true when the skill_versions and publications tables
	// exist. When false, snapshot writes are skipped and the version,
	// publish and rollback operations are rejected.
	Versioning bool
}

// DetectCapabilities probes the schema once at startup. to_regclass returns
// NULL for missing relations, so the probe works without elevated privileges
// and without depending on migration bookkeeping tables.
func DetectCapabilities(ctx context.Context, q Querier) (Capabilities, error) {
	var caps Capabilities

	var versions, publications *string
	err := q.QueryRow(ctx,
		`SELECT to_regclass('skill_versions')::text, to_regclass('publications')::text`,
	).Scan(&versions, &publications)
	if err != nil {
		return Capabilities{}, fmt.Errorf("detect capabilities: %w", err)
	}

	caps.Versioning = versions != nil && publications != nil
	return caps, nil
}
