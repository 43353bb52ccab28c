package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("min value length", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinValueLength = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("patch size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StablePatchSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative streak", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinStableStreak = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-increasing phase thresholds", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.PhaseThresholds = [4]time.Duration{
			2 * time.Second, 5 * time.Second, 5 * time.Second, 12 * time.Second,
		}
		assert.Error(t, cfg.Validate())
	})
}
