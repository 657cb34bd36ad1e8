package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areaquiz-server/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Equal(t, "area_ontology.yaml", cfg.OntologyPath)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.Auth.JWTSigningKey)
	assert.InDelta(t, 0.05, cfg.AbsTolerance, 1e-9)
	assert.InDelta(t, 0.02, cfg.RelTolerance, 1e-9)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("AREAQUIZ_SERVER_PORT", ":9090")
	t.Setenv("AREAQUIZ_ONTOLOGY_PATH", "/tmp/test_onto.yaml")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerPort)
	assert.Equal(t, "/tmp/test_onto.yaml", cfg.OntologyPath)
}
