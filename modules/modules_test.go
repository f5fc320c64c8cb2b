package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAllModules(t *testing.T) {
	mods, err := Load(nil)
	require.NoError(t, err)
	require.Len(t, mods, 3)

	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name())
		assert.GreaterOrEqual(t, len(m.ClientFallbacks()), 3)
		assert.Equal(t, 3, m.MaxStage())
	}
	assert.Equal(t, []string{"objections", "upsell", "sleeping_dragon"}, names)
}

func TestLoadFiltersEnabled(t *testing.T) {
	mods, err := Load([]string{" sleeping_dragon "})
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "sleeping_dragon", mods[0].Name())
}

func TestLoadRejectsUnknown(t *testing.T) {
	_, err := Load([]string{"arena"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arena")
}
