// internal/models/business.go
package models

// Business is the v1 demo business shape.
type Business struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline"`
	Type         string   `json:"type"`
	Neighborhood string   `json:"neighborhood"`
	Founded      int      `json:"founded"`
	Story        string   `json:"story"`
	Features     []string `json:"features"`
	Status       string   `json:"status"`
}

type BusinessSearchResult struct {
	Query   string     `json:"query"`
	Results []Business `json:"results"`
	Total   int        `json:"total"`
}

// DemoBusinesses returns a fresh copy of the v1 demo data set.
func DemoBusinesses() []Business {
	return []Business{
		{
			ID:           1,
			Name:         "Quantum Coffee Co.",
			Tagline:      "Where physics meets caffeine",
			Type:         "cafe",
			Neighborhood: "Mission",
			Founded:      2019,
			Story:        "Started by two quantum physicists who left academia to perfect the science of coffee extraction. Their signature 'Heisenberg Blend' changes flavor based on observation.",
			Features:     []string{"Molecular gastronomy", "Physics-themed drinks", "Coding meetups"},
			Status:       "thriving",
		},
		{
			ID:           2,
			Name:         "Vinyl Rebellion Records",
			Tagline:      "Analog souls in a digital world",
			Type:         "record_store",
			Neighborhood: "Haight",
			Founded:      1967,
			Story:        "Survived the digital revolution by becoming a cultural hub. The owners curate rare finds and host intimate acoustic sessions every Friday night.",
			Features:     []string{"Rare vinyl collection", "Live acoustic sessions", "Turntable repair"},
			Status:       "legendary",
		},
		{
			ID:           3,
			Name:         "Midnight Ramen Lab",
			Tagline:      "Ramen perfected through 10,000 experiments",
			Type:         "restaurant",
			Neighborhood: "Tenderloin",
			Founded:      2021,
			Story:        "Chef Yuki spent 3 years perfecting a single ramen recipe using data science and taste testing. Open only 11PM-3AM for the true ramen experience.",
			Features:     []string{"Data-driven recipes", "24-hour broth process", "Interactive flavor journey"},
			Status:       "cult_following",
		},
	}
}
