// internal/legacy/analytics.go
package legacy

import (
	"math"

	"github.com/johnhkchen/hack-stack/internal/models"
)

// Heritage score buckets, highest first.
const (
	Bucket90to100 = "90-100"
	Bucket80to89  = "80-89"
	Bucket70to79  = "70-79"
	Bucket60to69  = "60-69"
	BucketBelow60 = "below-60"
)

type NeighborhoodStats struct {
	MostRepresented        *string `json:"most_represented"`
	LeastRepresented       *string `json:"least_represented"`
	AveragePerNeighborhood float64 `json:"average_per_neighborhood"`
}

type NeighborhoodAnalytics struct {
	Distribution       map[string]int    `json:"neighborhood_distribution"`
	TotalNeighborhoods int               `json:"total_neighborhoods"`
	TotalBusinesses    int               `json:"total_businesses"`
	Analytics          NeighborhoodStats `json:"analytics"`
}

type HeritageStats struct {
	TotalScored      int     `json:"total_scored_businesses"`
	HighHeritage     int     `json:"high_heritage_businesses"`
	PreservationRate float64 `json:"heritage_preservation_rate"`
}

type HeritageAnalytics struct {
	Distribution map[string]int `json:"score_distribution"`
	Analytics    HeritageStats  `json:"analytics"`
}

type BusinessTypeStats struct {
	MostCommonType     *string `json:"most_common_type"`
	TypeDiversityIndex float64 `json:"type_diversity_index"`
}

type BusinessTypeAnalytics struct {
	Distribution map[string]int    `json:"business_type_distribution"`
	TotalTypes   int               `json:"total_types"`
	Analytics    BusinessTypeStats `json:"analytics"`
}

// orderedCounts counts keys keeping first-seen order, so ties resolve to the
// key seen first.
type orderedCounts struct {
	keys   []string
	counts map[string]int
}

func newOrderedCounts() *orderedCounts {
	return &orderedCounts{counts: map[string]int{}}
}

func (c *orderedCounts) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *orderedCounts) total() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

func (c *orderedCounts) most() *string {
	var best *string
	for i, k := range c.keys {
		if best == nil || c.counts[k] > c.counts[*best] {
			best = &c.keys[i]
		}
	}
	return best
}

func (c *orderedCounts) least() *string {
	var best *string
	for i, k := range c.keys {
		if best == nil || c.counts[k] < c.counts[*best] {
			best = &c.keys[i]
		}
	}
	return best
}

func Neighborhoods(businesses []models.LegacyBusiness) NeighborhoodAnalytics {
	counts := newOrderedCounts()
	for _, b := range businesses {
		if b.Neighborhood != "" {
			counts.add(string(b.Neighborhood))
		}
	}

	out := NeighborhoodAnalytics{
		Distribution:       counts.counts,
		TotalNeighborhoods: len(counts.keys),
		TotalBusinesses:    counts.total(),
	}
	if len(counts.keys) > 0 {
		out.Analytics = NeighborhoodStats{
			MostRepresented:        counts.most(),
			LeastRepresented:       counts.least(),
			AveragePerNeighborhood: float64(out.TotalBusinesses) / float64(len(counts.keys)),
		}
	}
	return out
}

// HeritageBucket names the bucket for score.
func HeritageBucket(score int) string {
	switch {
	case score >= 90:
		return Bucket90to100
	case score >= 80:
		return Bucket80to89
	case score >= 70:
		return Bucket70to79
	case score >= 60:
		return Bucket60to69
	default:
		return BucketBelow60
	}
}

// HeritageScores buckets every non-zero heritage score.
func HeritageScores(businesses []models.LegacyBusiness) HeritageAnalytics {
	dist := map[string]int{
		Bucket90to100: 0,
		Bucket80to89:  0,
		Bucket70to79:  0,
		Bucket60to69:  0,
		BucketBelow60: 0,
	}
	for _, b := range businesses {
		if b.HeritageScore == nil || *b.HeritageScore == 0 {
			continue
		}
		dist[HeritageBucket(*b.HeritageScore)]++
	}

	scored := 0
	for _, v := range dist {
		scored += v
	}
	high := dist[Bucket90to100] + dist[Bucket80to89]
	rate := float64(high) / float64(max(scored, 1)) * 100

	return HeritageAnalytics{
		Distribution: dist,
		Analytics: HeritageStats{
			TotalScored:      scored,
			HighHeritage:     dist[Bucket90to100],
			PreservationRate: math.Round(rate*10) / 10,
		},
	}
}

func BusinessTypes(businesses []models.LegacyBusiness) BusinessTypeAnalytics {
	counts := newOrderedCounts()
	for _, b := range businesses {
		if b.BusinessType != "" {
			counts.add(b.BusinessType)
		}
	}

	total := counts.total()
	return BusinessTypeAnalytics{
		Distribution: counts.counts,
		TotalTypes:   len(counts.keys),
		Analytics: BusinessTypeStats{
			MostCommonType:     counts.most(),
			TypeDiversityIndex: float64(len(counts.keys)) / float64(max(total, 1)),
		},
	}
}
