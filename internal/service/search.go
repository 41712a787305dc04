package service

import (
	"sort"
	"strings"

	"shop-backoffice/internal/models"
)

// SearchCandidate is a product plus its free-text specification
type SearchCandidate struct {
	Product       models.Product
	Specification string
}

// RankProducts scores each candidate against the query and returns the
// matches ordered by score descending, id ascending on ties. Candidates
// scoring zero are dropped. Matching is case-insensitive and
// whitespace-tokenized.
//
// Scoring per candidate:
//
//	+10 the full query is a substring of the name
//	+5  per query token found in the name
//	+4  per name token exactly equal to a query token
//	+3  per name token where either token contains the other (when not equal)
//	+2  per query token found in the description
//	+1  per query token found in the specification
func RankProducts(query string, candidates []SearchCandidate) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		products := make([]models.Product, len(candidates))
		for i, c := range candidates {
			products[i] = c.Product
		}
		return products
	}

	tokens := strings.Fields(query)

	type scored struct {
		product models.Product
		score   int
	}
	matches := make([]scored, 0, len(candidates))

	for _, candidate := range candidates {
		name := strings.ToLower(candidate.Product.Name)
		if name == "" {
			continue
		}
		nameTokens := strings.Fields(name)
		description := strings.ToLower(candidate.Product.Description)
		specification := strings.ToLower(candidate.Specification)

		score := 0
		if strings.Contains(name, query) {
			score += 10
		}

		for _, token := range tokens {
			if strings.Contains(name, token) {
				score += 5
			}
			for _, nameToken := range nameTokens {
				if token == nameToken {
					score += 4
				} else if strings.Contains(nameToken, token) || strings.Contains(token, nameToken) {
					score += 3
				}
			}
			if description != "" && strings.Contains(description, token) {
				score += 2
			}
			if specification != "" && strings.Contains(specification, token) {
				score += 1
			}
		}

		if score > 0 {
			matches = append(matches, scored{product: candidate.Product, score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].product.ID < matches[j].product.ID
	})

	products := make([]models.Product, len(matches))
	for i, m := range matches {
		products[i] = m.product
	}
	return products
}
