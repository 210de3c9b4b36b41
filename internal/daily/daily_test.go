package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-01", DateKey(local))
}

func TestIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	later := day.Add(6 * time.Hour)

	a := Index(day, "salt", 500)
	assert.Equal(t, a, Index(later, "salt", 500), "same day, same index")
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 500)
	assert.Zero(t, Index(day, "salt", 0))
}

func TestIndexVariesBySaltAndDay(t *testing.T) {
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	seen := map[int]bool{}
	for i := 0; i < 30; i++ {
		seen[Index(day.AddDate(0, 0, i), "salt", 1_000_000)] = true
	}
	assert.Greater(t, len(seen), 25)
	assert.NotEqual(t,
		Index(day, "a", 1_000_000),
		Index(day, "b", 1_000_000))
}

func TestIndexCoversSmallRanges(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, n := range []int{1, 2, 3, 7} {
		hits := make([]int, n)
		for i := 0; i < 200; i++ {
			idx := Index(day.AddDate(0, 0, i), "salt", n)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, n)
			hits[idx]++
		}
		for slot, c := range hits {
			assert.Positive(t, c, "n=%d slot=%d never chosen", n, slot)
		}
	}
}

func TestDayDigestDependsOnSaltAndKey(t *testing.T) {
	base := dayDigest("salt", "2026-10-16")
	assert.Equal(t, base, dayDigest("salt", "2026-10-16"))
	assert.NotEqual(t, base, dayDigest("salt", "2026-10-17"))
	assert.NotEqual(t, base, dayDigest("pepper", "2026-10-16"))
}

func TestSolution(t *testing.T) {
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	list := []string{"crane", "slate", "trace"}
	assert.Contains(t, list, Solution(day, "salt", list))
	assert.Equal(t, "", Solution(day, "salt", nil))
}
