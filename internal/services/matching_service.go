package services

import (
	"slices"
	"strings"

	"github.com/justsurfingit/jobboard-web/internal/models"
)

// AllCities is the city filter value that disables filtering.
const AllCities = "All Cities"

// FilterByCity keeps companies that list city. The empty string and
// AllCities return the input unchanged. Matching is exact.
func FilterByCity(companies []models.Company, city string) []models.Company {
	if city == "" || city == AllCities {
		return companies
	}
	out := make([]models.Company, 0, len(companies))
	for _, c := range companies {
		if slices.Contains(c.Cities, city) {
			out = append(out, c)
		}
	}
	return out
}

// Search keeps companies whose name or any city contains query, ignoring
// case. An empty query matches everything.
func Search(companies []models.Company, query string) []models.Company {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return companies
	}
	out := make([]models.Company, 0, len(companies))
	for _, c := range companies {
		if matchesCompany(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func matchesCompany(c models.Company, q string) bool {
	// --- RULE 1: name ---
	if strings.Contains(strings.ToLower(c.Name), q) {
		return true
	}
	// --- RULE 2: any city ---
	for _, city := range c.Cities {
		if strings.Contains(strings.ToLower(city), q) {
			return true
		}
	}
	return false
}

// Cities lists the distinct cities across companies, sorted, for the
// filter dropdown. AllCities is not included.
func Cities(companies []models.Company) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, c := range companies {
		for _, city := range c.Cities {
			city = strings.TrimSpace(city)
			if city == "" {
				continue
			}
			if _, ok := seen[city]; ok {
				continue
			}
			seen[city] = struct{}{}
			out = append(out, city)
		}
	}
	slices.Sort(out)
	return out
}
