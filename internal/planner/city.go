package planner

import (
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy city match
const DefaultFuzzyThreshold = 0.75

// MatchKind tells how a city name was resolved
type MatchKind string

const (
	MatchNone      MatchKind = "none"
	MatchExact     MatchKind = "exact"
	MatchSubstring MatchKind = "substring"
	MatchFuzzy     MatchKind = "fuzzy"
)

// CityResolver maps free-text employee cities onto the known holiday cities
type CityResolver struct {
	cities    []string
	threshold float64
	matcher   *closestmatch.ClosestMatch
	keys      []string
	// normalized name -> known city and its source position
	normalized map[string]string
	order      map[string]int
}

// NewCityResolver creates a resolver over the known cities, kept in source order
func NewCityResolver(cities []string, threshold float64) *CityResolver {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	normalized := make(map[string]string, len(cities))
	order := make(map[string]int, len(cities))
	keys := make([]string, 0, len(cities))
	for _, city := range cities {
		key := normalizeCity(city)
		if key == "" {
			continue
		}
		if _, exists := normalized[key]; !exists {
			normalized[key] = city
			order[key] = len(keys)
			keys = append(keys, key)
		}
	}

	var matcher *closestmatch.ClosestMatch
	if len(keys) > 0 {
		matcher = closestmatch.New(keys, []int{2, 3})
	}

	return &CityResolver{
		cities:     cities,
		threshold:  threshold,
		matcher:    matcher,
		keys:       keys,
		normalized: normalized,
		order:      order,
	}
}

// Cities returns the known cities
func (r *CityResolver) Cities() []string {
	return r.cities
}

// Resolve finds the known city for a raw name. It tries an exact match, then a
// case-insensitive substring match in either direction (first known city
// wins), then a fuzzy match on normalized names.
func (r *CityResolver) Resolve(raw string) (string, MatchKind, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", MatchNone, false
	}

	for _, city := range r.cities {
		if city == raw {
			return city, MatchExact, true
		}
	}

	lower := strings.ToLower(raw)
	for _, city := range r.cities {
		known := strings.ToLower(city)
		if known == "" {
			continue
		}
		if strings.Contains(known, lower) || strings.Contains(lower, known) {
			return city, MatchSubstring, true
		}
	}

	if r.matcher == nil {
		return "", MatchNone, false
	}

	query := normalizeCity(raw)
	best, bestScore := "", 0.0
	for _, candidate := range r.matcher.ClosestN(query, len(r.keys)) {
		score := similarity(query, candidate)
		if score > bestScore || (score == bestScore && best != "" && r.order[candidate] < r.order[best]) {
			best, bestScore = candidate, score
		}
	}
	if best == "" || bestScore < r.threshold {
		return "", MatchNone, false
	}

	return r.normalized[best], MatchFuzzy, true
}

func normalizeCity(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return strings.Join(strings.Fields(input), " ")
}

// similarity is 1 - levenshtein distance / longer length
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}
