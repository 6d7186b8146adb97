// internal/models/legacy_seed.go
package models

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

// LegacySeed returns the registry's demo entries. Callers should Normalize
// them before storing.
func LegacySeed() []LegacyBusiness {
	return []LegacyBusiness{
		{
			BusinessName:           "The Wok Shop",
			LegalName:              "The Wok Shop LLC",
			DBAName:                "The Wok Shop",
			FoundingYear:           intPtr(1972),
			YearsAtCurrentLocation: intPtr(51),
			CurrentAddress:         "718 Grant Avenue",
			Neighborhood:           NeighborhoodChinatown,
			BusinessType:           "Kitchen Supply Store",
			BusinessCategory:       "Retail - Specialty Goods",
			FoundingStory:          "Founded in 1972 after President Nixon's historic visit to China opened American interest in authentic Chinese cooking. Tane Chan, a Chinese-American entrepreneur, recognized the need for traditional wok cooking equipment in American kitchens. Starting with just a few dozen carbon steel woks imported directly from Guangzhou, the shop became the go-to destination for both professional chefs and home cooking enthusiasts seeking authentic Chinese cookware.",
			CulturalSignificance:   "The Wok Shop serves as more than a retail store - it's a cultural bridge connecting traditional Chinese cooking methods with American home kitchens. For over 50 years, it has educated customers about proper wok seasoning, stir-fry techniques, and the cultural significance of communal cooking in Chinese families. The shop has hosted countless cooking demonstrations and has been featured in numerous culinary publications as an authentic source for traditional Chinese cooking wisdom.",
			PhysicalTraditions:     "The store's iconic pagoda-style neon sign has been a Chinatown landmark since 1974. Inside, hundreds of woks hang from the ceiling like a metallic forest, creating an immediately recognizable atmosphere. The original wooden displays and hand-painted price signs maintain the authentic feel of a traditional Chinese market.",
			CommunityImpact:        "Beyond serving San Francisco's Chinese-American community, The Wok Shop has become an international destination for cooking enthusiasts. It ships traditional cookware worldwide and has educated thousands of customers about Chinese culinary traditions. The business has supported local Chinatown festivals and cultural events, serving as an anchor business that helps maintain the neighborhood's authentic character.",
			HistoricalSignificance: "Surviving through Chinatown's transformation from the 1970s to today, The Wok Shop witnessed the neighborhood's evolution while maintaining traditional values. It operated through economic downturns, the dot-com boom, and the COVID-19 pandemic, adapting while preserving authentic Chinese cooking culture.",
			LocationHistory: []LocationHistory{
				{Address: "718 Grant Avenue", StartYear: 1972, IsCurrent: true},
			},
			OwnershipHistory: []OwnershipHistory{
				{OwnerName: "Tane Chan", StartYear: intPtr(1972), EndYear: intPtr(1995), Generation: intPtr(1)},
				{OwnerName: "Chan Family Trust", StartYear: intPtr(1995), Generation: intPtr(2)},
			},
			Recognition: []Recognition{
				{Title: "Featured on PBS Cooking Shows", Year: intPtr(2019), Issuer: "Public Broadcasting Service", Description: "Multiple segments showcasing traditional wok cooking techniques", MediaType: "television"},
				{Title: "Bon Appétit Best Kitchen Store", Year: intPtr(2018), Issuer: "Bon Appétit Magazine", Description: "Named among America's best specialty kitchen stores", MediaType: "magazine"},
				{Title: "Chinatown Cultural Heritage Award", Year: intPtr(2022), Issuer: "Chinese Historical Society of America", Description: "Recognition for preserving traditional cooking culture"},
			},
			UniqueFeatures: []string{
				"Original 1970s pagoda neon sign",
				"Woks hanging from ceiling display",
				"Hand-seasoned carbon steel woks",
				"International shipping worldwide",
				"Traditional Chinese cooking demonstrations",
			},
			SignatureProducts: []string{
				"Carbon steel woks (14-inch to 24-inch)",
				"Bamboo steamers",
				"Chinese cleavers",
				"Clay sand pots",
				"Traditional wok accessories",
			},
			DemoHighlights: []string{
				"50+ years serving authentic Chinese cooking community",
				"Featured on PBS and Food Network cooking shows",
				"Ships traditional cookware internationally",
				"Preserved traditional wok-making techniques",
				"Living piece of Chinatown culinary history",
			},
			ApplicationID:        "LBR-2016-17-064",
			HeritageScore:        intPtr(92),
			CurrentStatus:        StatusActive,
			SourceDocuments:      []string{"wok_shop_application.pdf", "chinatown_heritage_study.pdf"},
			ExtractionConfidence: floatPtr(0.95),
		},
		{
			BusinessName:           "Molinari Delicatessen",
			LegalName:              "Molinari Delicatessen LLC",
			FoundingYear:           intPtr(1896),
			YearsAtCurrentLocation: intPtr(127),
			CurrentAddress:         "476 Broadway",
			Neighborhood:           NeighborhoodNorthBeach,
			BusinessType:           "Delicatessen",
			BusinessCategory:       "Food & Beverage - Specialty",
			FoundingStory:          "Established in 1896 by Domenico Molinari, an immigrant from Liguria, Italy, who brought traditional salumi-making techniques to San Francisco's growing Italian-American community. Domenico learned charcuterie from his father in the hills above Genoa and saw an opportunity to serve fellow immigrants who missed the cured meats of their homeland. Starting with just a few hanging salamis, the shop grew to become the heart of North Beach's Italian community.",
			CulturalSignificance:   "For over 125 years, Molinari Delicatessen has served as the epicenter of North Beach's Italian-American culture. The shop has maintained authentic Ligurian traditions while adapting to serve multiple generations of Italian-Americans. It has been featured in countless films depicting San Francisco's Italian heritage and continues to be a gathering place where Italian is spoken and Old World traditions are preserved.",
			PhysicalTraditions:     "The shop maintains its original 1920s interior with marble counters, hanging salamis, and vintage scales. The distinctive aroma of aged prosciutto and aged cheeses greets customers. Family recipes for salami and pancetta remain unchanged since 1896.",
			CommunityImpact:        "Molinari's has fed generations of North Beach families, provided employment for countless Italian-Americans, and served as a cultural anchor during neighborhood changes. The deli supplies restaurants throughout the Bay Area with authentic Italian specialties and has educated customers about traditional Italian food culture.",
			HistoricalSignificance: "Surviving the 1906 earthquake, both World Wars, and decades of urban change, Molinari Delicatessen represents continuity in San Francisco's Italian-American experience. It stands as one of the last original Italian businesses in what was once the largest Italian community on the West Coast.",
			LocationHistory: []LocationHistory{
				{Address: "476 Broadway", StartYear: 1896, IsCurrent: true},
			},
			OwnershipHistory: []OwnershipHistory{
				{OwnerName: "Domenico Molinari", StartYear: intPtr(1896), EndYear: intPtr(1920), Generation: intPtr(1)},
				{OwnerName: "Giuseppe Molinari", StartYear: intPtr(1920), EndYear: intPtr(1955), Relationship: "son", Generation: intPtr(2)},
				{OwnerName: "Molinari Family Partnership", StartYear: intPtr(1955), Generation: intPtr(3)},
			},
			Recognition: []Recognition{
				{Title: "James Beard America's Classics Award", Year: intPtr(2013), Issuer: "James Beard Foundation", Description: "Recognition for outstanding local significance"},
				{Title: "Featured in The Godfather Part II", Year: intPtr(1974), Issuer: "Paramount Pictures", Description: "Shop featured in iconic North Beach scenes", MediaType: "film"},
				{Title: "San Francisco Heritage Award", Year: intPtr(1996), Issuer: "San Francisco Heritage", Description: "100th anniversary recognition for cultural preservation"},
			},
			UniqueFeatures: []string{
				"Original 1896 family recipes",
				"Hand-sliced prosciutto di Parma",
				"Vintage marble counters from 1920s",
				"Traditional hanging salami display",
				"Italian spoken daily by staff",
			},
			SignatureProducts: []string{
				"House-made salami and pancetta",
				"Imported Parmigiano-Reggiano",
				"Fresh mozzarella made daily",
				"Traditional mortadella",
				"Italian sandwich combinations",
			},
			DemoHighlights: []string{
				"127 years of continuous family operation",
				"Survived 1906 earthquake and both World Wars",
				"Featured in The Godfather Part II",
				"James Beard Award winner",
				"Last authentic Italian deli in North Beach",
			},
			ApplicationID:        "LBR-1896-001",
			HeritageScore:        intPtr(98),
			CurrentStatus:        StatusActive,
			SourceDocuments:      []string{"molinari_application.pdf", "north_beach_italian_history.pdf"},
			ExtractionConfidence: floatPtr(0.98),
		},
		{
			BusinessName:           "City Lights Booksellers & Publishers",
			LegalName:              "City Lights Books, Inc.",
			DBAName:                "City Lights",
			FoundingYear:           intPtr(1953),
			YearsAtCurrentLocation: intPtr(70),
			CurrentAddress:         "261 Columbus Avenue",
			Neighborhood:           NeighborhoodNorthBeach,
			BusinessType:           "Bookstore & Publisher",
			BusinessCategory:       "Retail - Books & Publishing",
			FoundingStory:          "Founded in 1953 by Lawrence Ferlinghetti and Peter Martin as America's first all-paperback bookstore. Ferlinghetti, a poet and painter, envisioned a space that would make literature accessible to everyone through affordable paperback editions. The bookstore was named after the 1931 Charlie Chaplin film and quickly became a gathering place for writers, artists, and intellectuals seeking alternative literature unavailable in mainstream bookstores.",
			CulturalSignificance:   "City Lights became the epicenter of the Beat Generation literary movement, publishing Allen Ginsberg's 'Howl' and launching the careers of countless counterculture writers. The bookstore challenged censorship laws, promoted free speech, and introduced American readers to international literature.",
			PhysicalTraditions:     "The narrow, three-story building maintains its bohemian character with hand-written shelf tags, poetry chapbooks displayed prominently, and reading nooks that encourage browsing. The famous Poetry Room upstairs features work by Beat Generation writers alongside contemporary voices.",
			CommunityImpact:        "Beyond selling books, City Lights has served as a community center for literary San Francisco. It has hosted countless poetry readings, book launches, and political events. Its publishing arm has introduced numerous international authors to American audiences.",
			HistoricalSignificance: "City Lights played a crucial role in the landmark 1957 obscenity trial over 'Howl,' establishing important precedents for freedom of expression. The bookstore was declared a San Francisco historic landmark in 2001 and continues to champion literary freedom.",
			LocationHistory: []LocationHistory{
				{Address: "261 Columbus Avenue", StartYear: 1953, IsCurrent: true},
			},
			OwnershipHistory: []OwnershipHistory{
				{OwnerName: "Lawrence Ferlinghetti & Peter Martin", StartYear: intPtr(1953), EndYear: intPtr(1955), Generation: intPtr(1)},
				{OwnerName: "Lawrence Ferlinghetti", StartYear: intPtr(1955), EndYear: intPtr(2021), Generation: intPtr(1)},
				{OwnerName: "City Lights Foundation", StartYear: intPtr(2021), Generation: intPtr(2)},
			},
			Recognition: []Recognition{
				{Title: "San Francisco Historic Landmark", Year: intPtr(2001), Issuer: "San Francisco Landmarks Preservation Board", Description: "Official recognition for cultural significance"},
				{Title: "Literary Landmark", Year: intPtr(2003), Issuer: "Friends of Libraries USA", Description: "First bookstore designated as Literary Landmark"},
				{Title: "Outstanding Achievement in Publishing", Year: intPtr(1994), Issuer: "Northern California Independent Booksellers Association", Description: "Lifetime achievement for independent publishing"},
			},
			UniqueFeatures: []string{
				"First all-paperback bookstore in America",
				"Beat Generation archives and manuscripts",
				"24-hour reading policy",
				"Hand-written shelf recommendations",
				"Three-story literary labyrinth",
			},
			SignatureProducts: []string{
				"City Lights Pocket Poets Series",
				"Beat Generation first editions",
				"International literature translations",
				"Political and social justice books",
				"Local author collections",
			},
			DemoHighlights: []string{
				"Birthplace of Beat Generation publishing",
				"First bookstore Literary Landmark",
				"Successfully defended 'Howl' in obscenity trial",
				"70 years of independent literary culture",
				"San Francisco Historic Landmark",
			},
			ApplicationID:        "LBR-1953-002",
			HeritageScore:        intPtr(96),
			CurrentStatus:        StatusActive,
			SourceDocuments:      []string{"city_lights_application.pdf", "beat_generation_history.pdf"},
			ExtractionConfidence: floatPtr(0.94),
		},
	}
}
