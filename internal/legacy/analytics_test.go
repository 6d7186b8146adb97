package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnhkchen/hack-stack/internal/models"
)

func TestNeighborhoods(t *testing.T) {
	got := Neighborhoods(models.LegacySeed())

	assert.Equal(t, map[string]int{"Chinatown": 1, "North Beach": 2}, got.Distribution)
	assert.Equal(t, 2, got.TotalNeighborhoods)
	assert.Equal(t, 3, got.TotalBusinesses)
	require.NotNil(t, got.Analytics.MostRepresented)
	require.NotNil(t, got.Analytics.LeastRepresented)
	assert.Equal(t, "North Beach", *got.Analytics.MostRepresented)
	assert.Equal(t, "Chinatown", *got.Analytics.LeastRepresented)
	assert.InDelta(t, 1.5, got.Analytics.AveragePerNeighborhood, 1e-9)
}

func TestNeighborhoods_Empty(t *testing.T) {
	got := Neighborhoods(nil)

	assert.Empty(t, got.Distribution)
	assert.Nil(t, got.Analytics.MostRepresented)
	assert.Nil(t, got.Analytics.LeastRepresented)
	assert.Zero(t, got.Analytics.AveragePerNeighborhood)
}

func TestNeighborhoods_TiesResolveToFirstSeen(t *testing.T) {
	got := Neighborhoods([]models.LegacyBusiness{
		{Neighborhood: models.NeighborhoodSunset},
		{Neighborhood: models.NeighborhoodCastro},
	})

	assert.Equal(t, "Sunset", *got.Analytics.MostRepresented)
	assert.Equal(t, "Sunset", *got.Analytics.LeastRepresented)
}

func TestHeritageBucket(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, Bucket90to100},
		{90, Bucket90to100},
		{89, Bucket80to89},
		{80, Bucket80to89},
		{79, Bucket70to79},
		{60, Bucket60to69},
		{59, BucketBelow60},
		{1, BucketBelow60},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HeritageBucket(tt.score), "score %d", tt.score)
	}
}

func TestHeritageScores(t *testing.T) {
	t.Run("seed registry", func(t *testing.T) {
		got := HeritageScores(models.LegacySeed())
		assert.Equal(t, 3, got.Distribution[Bucket90to100])
		assert.Equal(t, 3, got.Analytics.TotalScored)
		assert.Equal(t, 3, got.Analytics.HighHeritage)
		assert.InDelta(t, 100.0, got.Analytics.PreservationRate, 1e-9)
	})

	t.Run("mixed scores skip unscored", func(t *testing.T) {
		got := HeritageScores([]models.LegacyBusiness{
			{HeritageScore: intPtr(95)},
			{HeritageScore: intPtr(85)},
			{HeritageScore: intPtr(70)},
			{HeritageScore: intPtr(0)},
			{},
		})
		assert.Equal(t, map[string]int{
			Bucket90to100: 1,
			Bucket80to89:  1,
			Bucket70to79:  1,
			Bucket60to69:  0,
			BucketBelow60: 0,
		}, got.Distribution)
		assert.Equal(t, 3, got.Analytics.TotalScored)
		assert.Equal(t, 1, got.Analytics.HighHeritage)
		assert.InDelta(t, 66.7, got.Analytics.PreservationRate, 1e-9)
	})

	t.Run("nothing scored", func(t *testing.T) {
		got := HeritageScores(nil)
		assert.Zero(t, got.Analytics.TotalScored)
		assert.Zero(t, got.Analytics.PreservationRate)
	})
}

func TestBusinessTypes(t *testing.T) {
	got := BusinessTypes(models.LegacySeed())

	assert.Equal(t, 3, got.TotalTypes)
	require.NotNil(t, got.Analytics.MostCommonType)
	assert.Equal(t, "Kitchen Supply Store", *got.Analytics.MostCommonType)
	assert.InDelta(t, 1.0, got.Analytics.TypeDiversityIndex, 1e-9)

	empty := BusinessTypes(nil)
	assert.Nil(t, empty.Analytics.MostCommonType)
	assert.Zero(t, empty.Analytics.TypeDiversityIndex)
}
