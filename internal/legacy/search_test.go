package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func registry() []models.LegacyBusiness {
	return []models.LegacyBusiness{
		{
			BusinessName:  "Golden Noodle House",
			Neighborhood:  models.NeighborhoodChinatown,
			BusinessType:  "Restaurant",
			FoundingYear:  intPtr(1931),
			HeritageScore: intPtr(88),
			FoundingStory: "A family noodle counter opened by two brothers.",
			UniqueFeatures: []string{
				"Hand-pulled noodles made in the window",
				"Original tile floor",
			},
		},
		{
			BusinessName:         "Mission Printworks",
			Neighborhood:         models.NeighborhoodMission,
			BusinessType:         "Print Shop",
			FoundingYear:         intPtr(1968),
			HeritageScore:        intPtr(72),
			CulturalSignificance: "Printed posters for every neighborhood festival.",
			DemoHighlights:       []string{"Letterpress demo"},
		},
		{
			BusinessName:       "Beach Blanket Bakery",
			Neighborhood:       models.NeighborhoodNorthBeach,
			BusinessType:       "Bakery",
			FoundingYear:       intPtr(1905),
			PhysicalTraditions: "Brick ovens still bake the morning noodles and bread.",
		},
	}
}

func names(businesses []models.LegacyBusiness) []string {
	out := make([]string, len(businesses))
	for i, b := range businesses {
		out[i] = b.BusinessName
	}
	return out
}

// ==========================
// Filters
// ==========================

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		req  models.LegacyBusinessSearch
		want []string
	}{
		{
			name: "no filters",
			req:  models.LegacyBusinessSearch{},
			want: []string{"Golden Noodle House", "Mission Printworks", "Beach Blanket Bakery"},
		},
		{
			name: "neighborhood equality",
			req:  models.LegacyBusinessSearch{Neighborhood: models.NeighborhoodMission},
			want: []string{"Mission Printworks"},
		},
		{
			name: "business type substring ignoring case",
			req:  models.LegacyBusinessSearch{BusinessType: "SHOP"},
			want: []string{"Mission Printworks"},
		},
		{
			name: "founding year range",
			req:  models.LegacyBusinessSearch{FoundingYearMin: intPtr(1900), FoundingYearMax: intPtr(1950)},
			want: []string{"Golden Noodle House", "Beach Blanket Bakery"},
		},
		{
			name: "heritage minimum excludes unscored",
			req:  models.LegacyBusinessSearch{HeritageScoreMin: intPtr(70)},
			want: []string{"Golden Noodle House", "Mission Printworks"},
		},
		{
			name: "zero bounds are ignored",
			req:  models.LegacyBusinessSearch{FoundingYearMin: intPtr(0), HeritageScoreMin: intPtr(0)},
			want: []string{"Golden Noodle House", "Mission Printworks", "Beach Blanket Bakery"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(registry(), tt.req)))
		})
	}
}

// ==========================
// Relevance
// ==========================

func TestRelevance(t *testing.T) {
	r := registry()

	tests := []struct {
		name     string
		business models.LegacyBusiness
		query    string
		want     float64
	}{
		{"name story and feature", r[0], "noodle", 4 + 3 + 1.5},
		{"significance and highlight", r[1], "festival", 3},
		{"type", r[2], "bakery", 4 + 2},
		{"traditions", r[2], "ovens", 2},
		{"no match", r[1], "noodle", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Relevance(tt.business, tt.query), 1e-9)
		})
	}
}

func TestRank(t *testing.T) {
	t.Run("orders by relevance and drops misses", func(t *testing.T) {
		got := Rank(registry(), "  NOODLE ")
		assert.Equal(t, []string{"Golden Noodle House", "Beach Blanket Bakery"}, names(got))
	})

	t.Run("ties keep store order", func(t *testing.T) {
		in := []models.LegacyBusiness{
			{BusinessName: "B Cafe"},
			{BusinessName: "A Cafe"},
		}
		assert.Equal(t, []string{"B Cafe", "A Cafe"}, names(Rank(in, "cafe")))
	})

	t.Run("blank query keeps everything", func(t *testing.T) {
		assert.Len(t, Rank(registry(), "   "), 3)
	})
}

// ==========================
// Paging
// ==========================

func TestPage(t *testing.T) {
	r := registry()

	tests := []struct {
		name   string
		offset int
		limit  int
		want   int
	}{
		{"first page", 0, 2, 2},
		{"tail", 2, 10, 1},
		{"past end", 5, 10, 0},
		{"negative offset", -1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Page(r, tt.offset, tt.limit)
			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestSearchLocal_TotalCountsBeforePaging(t *testing.T) {
	req := models.NewLegacyBusinessSearch("noodle")
	req.Limit = 1
	req.Offset = 1

	page, total := SearchLocal(registry(), req)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"Beach Blanket Bakery"}, names(page))
}

func TestCheckLimit(t *testing.T) {
	for _, limit := range []int{1, 10, MaxLimit} {
		assert.NoError(t, CheckLimit(limit), "limit %d", limit)
	}
	for _, limit := range []int{0, -3, MaxLimit + 1} {
		err := CheckLimit(limit)
		require.Error(t, err, "limit %d", limit)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
	}
}
