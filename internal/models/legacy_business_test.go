package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Search tag generation
// ==========================

func TestGenerateSearchTags(t *testing.T) {
	tests := []struct {
		name     string
		business LegacyBusiness
		year     int
		want     []string
	}{
		{
			name:     "nineteenth century immigrant",
			business: LegacyBusiness{FoundingYear: intPtr(1896), FoundingStory: "An Immigrant from Liguria", Neighborhood: NeighborhoodNorthBeach},
			year:     2024,
			want:     []string{"19th-century", "century-old", "immigrant-founded", "north-beach-heritage"},
		},
		{
			name:     "early twentieth century historic family",
			business: LegacyBusiness{FoundingYear: intPtr(1940), FoundingStory: "a family bakery"},
			year:     2024,
			want:     []string{"early-20th-century", "family-owned", "historic"},
		},
		{
			name:     "mid century established with awards",
			business: LegacyBusiness{FoundingYear: intPtr(1972), Recognition: []Recognition{{Title: "x", Issuer: "y"}}},
			year:     2024,
			want:     []string{"award-winning", "established", "mid-century"},
		},
		{
			name:     "young business keeps manual tags",
			business: LegacyBusiness{FoundingYear: intPtr(2010), SearchTags: []string{"zine-friendly", "mid-century"}},
			year:     2024,
			want:     []string{"mid-century", "zine-friendly"},
		},
		{
			name:     "empty",
			business: LegacyBusiness{},
			year:     2024,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSearchTags(&tt.business, tt.year))
		})
	}
}

func TestGenerateSearchTags_MultiWordNeighborhood(t *testing.T) {
	b := LegacyBusiness{Neighborhood: NeighborhoodPacificHeights}
	assert.Equal(t, []string{"pacific-heights-heritage"}, GenerateSearchTags(&b, 2024))
}

// ==========================
// Normalize / Summary
// ==========================

func TestNormalize(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := LegacyBusiness{
		BusinessName:   "Tadich Grill",
		CurrentAddress: "545 Clay Street",
		LocationHistory: []LocationHistory{
			{Address: "545 Clay Street", StartYear: 1967, IsCurrent: false},
			{Address: "240 California Street", StartYear: 1967, IsCurrent: true},
		},
	}

	b.Normalize(now)

	assert.Equal(t, StatusActive, b.CurrentStatus)
	assert.Equal(t, now, b.CreatedAt)
	assert.Equal(t, "240 California Street", b.CurrentAddress)
	assert.NotNil(t, b.Recognition)
	assert.NotNil(t, b.SearchTags)
}

func TestSummary(t *testing.T) {
	seed := LegacySeed()
	require.Len(t, seed, 3)

	s := seed[0].Summary()
	assert.Equal(t, "The Wok Shop", s.BusinessName)
	assert.Len(t, s.UniqueFeatures, 3)
	assert.Len(t, s.DemoHighlights, 3)
	require.NotNil(t, s.Neighborhood)
	assert.Equal(t, "Chinatown", *s.Neighborhood)
	require.NotNil(t, s.CurrentStatus)
	assert.Equal(t, "active", *s.CurrentStatus)

	empty := (&LegacyBusiness{BusinessName: "x"}).Summary()
	assert.Nil(t, empty.Neighborhood)
	assert.Empty(t, empty.UniqueFeatures)
}

func TestDemoBusinesses_ReturnsFreshCopy(t *testing.T) {
	a := DemoBusinesses()
	a[0].Name = "changed"
	assert.Equal(t, "Quantum Coffee Co.", DemoBusinesses()[0].Name)
}
