package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 0.7, cfg.PrimaryThreshold)
	assert.Equal(t, 0.6, cfg.FuzzyThreshold)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 60, cfg.RequestsPerMinute)
	assert.True(t, cfg.IsDevelopment())
}

func TestValidate_RejectsInvertedThresholds(t *testing.T) {
	t.Setenv("FUZZY_THRESHOLD", "0.9")
	t.Setenv("PRIMARY_THRESHOLD", "0.7")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("VECTOR_INDEX_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
