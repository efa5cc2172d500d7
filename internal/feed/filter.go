// Package feed implements the pure feed-shaping logic: filtering loaded
// prompt cards by tag and free-text query, and tracking pagination state for
// incremental loading.
package feed

import (
	"strings"

	"stitchhub/internal/models"
)

// Filter returns the subset of prompts matching the active tag filter and
// free-text query, preserving input order. Promotional entries pass every
// stage unconditionally. An empty or whitespace-only query is treated as no
// query; a nil-equivalent (empty) tag filter matches everything. Both stages
// compose by logical AND.
func Filter(prompts []models.Prompt, tagFilter, query string) []models.Prompt {
	query = strings.TrimSpace(query)
	queryLower := strings.ToLower(query)
	tagLower := strings.ToLower(tagFilter)

	out := make([]models.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.IsPromo() {
			out = append(out, p)
			continue
		}

		if query != "" && !matchesQuery(&p, queryLower) {
			continue
		}
		if tagFilter != "" && !anyTagContains(p.Tags, tagLower) {
			continue
		}

		out = append(out, p)
	}
	return out
}

// ResultCount counts the non-promotional entries, which is the number shown
// to the user.
func ResultCount(prompts []models.Prompt) int {
	n := 0
	for _, p := range prompts {
		if !p.IsPromo() {
			n++
		}
	}
	return n
}

// matchesQuery checks title, any tag, and prompt text for a case-insensitive
// substring match.
func matchesQuery(p *models.Prompt, queryLower string) bool {
	if strings.Contains(strings.ToLower(p.Title), queryLower) {
		return true
	}
	if anyTagContains(p.Tags, queryLower) {
		return true
	}
	return strings.Contains(strings.ToLower(p.Prompt), queryLower)
}

func anyTagContains(tags []string, substrLower string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), substrLower) {
			return true
		}
	}
	return false
}
