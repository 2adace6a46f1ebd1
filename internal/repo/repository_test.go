package repo_test

import (
	"testing"

	"github.com/rivergate/proxywatch/internal/repo"
	"github.com/rivergate/proxywatch/internal/repo/memory"
	pg "github.com/rivergate/proxywatch/internal/repo/postgres"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.ConfigStore = memory.New()
	var _ repo.StatusStore = memory.New()

	// Postgres store types compile against the interfaces, too.
	var _ repo.ConfigStore = (*pg.Store)(nil)
	var _ repo.StatusStore = (*pg.Store)(nil)
}
