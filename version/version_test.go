package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, version, commit, date string) {
	oldV, oldC, oldD := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = oldV, oldC, oldD })
	Version, GitCommit, BuildDate = version, commit, date
}

func TestGetFullVersionUnstamped(t *testing.T) {
	stamp(t, "dev", "unknown", "unknown")
	assert.Equal(t, "dev", GetFullVersion())
}

func TestGetFullVersionWithCommit(t *testing.T) {
	stamp(t, "1.2.0", "abc123", "unknown")
	assert.Equal(t, "1.2.0 (abc123)", GetFullVersion())

	BuildDate = "2026-10-01"
	assert.Equal(t, "1.2.0 (abc123, 2026-10-01)", GetFullVersion())
}
