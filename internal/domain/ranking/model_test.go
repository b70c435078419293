package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	require.Len(t, w, len(Categories))
	for _, c := range Categories {
		require.Contains(t, w, c)
	}
	assert.Equal(t, -1.0, w[CategoryTurnovers])
	assert.Equal(t, 1.0, w[CategoryPoints])
}

func TestValidateWeights(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateWeights(nil))
	require.NoError(t, ValidateWeights(map[string]float64{
		CategoryPoints:    1.5,
		CategoryTurnovers: -2,
	}))

	err := ValidateWeights(map[string]float64{"oreb": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oreb")
}

func TestCategoriesAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		_, dup := seen[c]
		require.Falsef(t, dup, "duplicate category %s", c)
		seen[c] = struct{}{}
	}
}
