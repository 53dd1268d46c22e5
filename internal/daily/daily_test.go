package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2024, 3, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "2024-03-01", DateKey(ts))
}

func TestIndexIsStablePerDay(t *testing.T) {
	morning := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)

	i := Index(morning, "salt", 12)
	assert.Equal(t, i, Index(evening, "salt", 12))
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 12)
}

func TestIndexVariesAcrossDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	seen := map[int]bool{}
	for d := 0; d < 30; d++ {
		seen[Index(start.AddDate(0, 0, d), "salt", 12)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestIndexEmpty(t *testing.T) {
	assert.Equal(t, 0, Index(time.Now(), "salt", 0))
}
