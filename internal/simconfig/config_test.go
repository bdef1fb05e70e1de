package simconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithNoConfigFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4096, cfg.GridBlocksMax)
	assert.Equal(t, 3, cfg.ReplicaCount)
	assert.Equal(t, uint32(512), cfg.SectorSize)
	assert.Equal(t, "none", cfg.FaultInjectionMode)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("SIMVERIFY_REPLICA_COUNT", "5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.ReplicaCount)
}

func TestLoad_RejectsInvalidReplicaCount(t *testing.T) {
	t.Setenv("SIMVERIFY_REPLICA_COUNT", "0")

	_, err := Load("")
	assert.Error(t, err)
}
