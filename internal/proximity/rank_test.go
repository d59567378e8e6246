package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/wellprox/internal/model"
)

func resultAt(name string, distanceFt float64) model.ProximityResult {
	return model.ProximityResult{
		Well:       model.WellRecord{Name: name},
		DistanceFt: distanceFt,
	}
}

func TestRankSortsAscending(t *testing.T) {
	results := []model.ProximityResult{
		resultAt("far", 7280),
		resultAt("on property", 0),
		resultAt("close", 410),
	}

	ranked := Rank(results, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "on property", ranked[0].Well.Name)
	assert.Equal(t, "close", ranked[1].Well.Name)
	assert.Equal(t, "far", ranked[2].Well.Name)
}

func TestRankStableOnTies(t *testing.T) {
	results := []model.ProximityResult{
		resultAt("tie one", 500),
		resultAt("closer", 100),
		resultAt("tie two", 500),
		resultAt("tie three", 500),
	}

	ranked := Rank(results, 0)
	require.Len(t, ranked, 4)
	assert.Equal(t, "closer", ranked[0].Well.Name)
	assert.Equal(t, "tie one", ranked[1].Well.Name)
	assert.Equal(t, "tie two", ranked[2].Well.Name)
	assert.Equal(t, "tie three", ranked[3].Well.Name)
}

func TestRankTruncatesToTopN(t *testing.T) {
	results := []model.ProximityResult{
		resultAt("a", 4),
		resultAt("b", 1),
		resultAt("c", 3),
		resultAt("d", 2),
	}

	ranked := Rank(results, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Well.Name)
	assert.Equal(t, "d", ranked[1].Well.Name)
}

func TestRankEmptyInput(t *testing.T) {
	ranked := Rank(nil, 50)
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	results := []model.ProximityResult{
		resultAt("far", 900),
		resultAt("near", 10),
	}

	_ = Rank(results, 0)
	assert.Equal(t, "far", results[0].Well.Name)
	assert.Equal(t, "near", results[1].Well.Name)
}
