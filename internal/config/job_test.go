package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobFromFlags_Defaults(t *testing.T) {
	cfg, err := JobFromFlags(flagSet(t, "--do-attrs"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Nil(t, cfg.MinID)
	assert.Nil(t, cfg.MaxID)
	assert.False(t, cfg.NewestFirst)
	assert.Empty(t, cfg.Attrs)
	assert.True(t, cfg.Attributes)
	assert.False(t, cfg.Browse)
}

func TestJobFromFlags_All(t *testing.T) {
	cfg, err := JobFromFlags(flagSet(t,
		"--max-threads=8", "--batch-size=50",
		"--min-id=100", "--max-id=200", "--newest-first",
		"--attr=item_type", "--attr=date1",
		"--do-browse", "--do-search", "--do-facets", "--do-display",
	))
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 50, cfg.BatchSize)
	require.NotNil(t, cfg.MinID)
	require.NotNil(t, cfg.MaxID)
	assert.Equal(t, int64(100), *cfg.MinID)
	assert.Equal(t, int64(200), *cfg.MaxID)
	assert.True(t, cfg.NewestFirst)
	assert.Equal(t, []string{"item_type", "date1"}, cfg.Attrs)
	assert.True(t, cfg.Browse && cfg.Search && cfg.Facets && cfg.Display)
	assert.False(t, cfg.Attributes)
}

func TestJobFromFlags_Invalid(t *testing.T) {
	tests := map[string][]string{
		"no phase":      {},
		"zero workers":  {"--do-attrs", "--max-threads=0"},
		"zero batch":    {"--do-attrs", "--batch-size=0"},
		"empty range":   {"--do-attrs", "--min-id=10", "--max-id=5"},
		"negative size": {"--do-attrs", "--batch-size=-3"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := JobFromFlags(flagSet(t, args...))
			assert.Error(t, err)
		})
	}
}
