// Package relevance ranks project files against a user request and
// assembles a token-budgeted context bundle for the chat agent.
//
// The scorer combines five weighted signals (keyword overlap, file type,
// component-name match, route intent, recency) into one [0,1] score per
// file. The builder sorts files by that score and greedily fills a
// full-content set under a hard token budget, demoting everything else
// to one-line summaries. Both are pure: no I/O, no state shared across
// calls.
package relevance

import (
	"math"
	"regexp"
	"strings"
)

// Signal weights for the combined score.
const (
	weightKeyword   = 0.40
	weightFileType  = 0.25
	weightComponent = 0.20
	weightRoute     = 0.10
	weightRecency   = 0.05
)

// Flat bonus values and decay constants for the individual signals.
const (
	componentMatchScore = 0.3
	routePageScore      = 0.2
	recencyMaxBonus     = 0.15
	recencyDecay        = 0.7

	defaultTypePriority = 0.4
	minKeywordLen       = 3
)

// fileTypePriorities ranks extensions by how often they are the target
// of an edit request. Anything not listed gets defaultTypePriority.
var fileTypePriorities = map[string]float64{
	".tsx":  1.0,
	".ts":   0.8,
	".css":  0.6,
	".scss": 0.6,
}

// stopWords are query tokens that carry no relevance signal.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "to": true,
	"make": true, "change": true, "update": true, "add": true, "fix": true,
	"is": true, "it": true, "in": true, "on": true, "for": true,
}

// routeWords mark a query as navigation-related when any of them occurs
// as a substring of the lowercased query.
var routeWords = []string{"page", "route", "navigate", "navigation", "home", "homepage", "/"}

// pageFilenames are the files that receive the route bonus.
var pageFilenames = map[string]bool{
	"page.tsx":   true,
	"layout.tsx": true,
	"page.ts":    true,
	"layout.ts":  true,
}

var (
	tokenSplit = regexp.MustCompile(`[\s\-_.,;:!?()]+`)
	extPattern = regexp.MustCompile(`\.[a-zA-Z]+$`)
)

// Scorer assigns relevance scores to files for a single query context.
// It holds only an optional read-only recency list, so one Scorer may be
// shared freely across goroutines.
type Scorer struct {
	recent []string
}

// NewScorer returns a Scorer. recent lists recently modified file paths,
// most recent first, and may be nil.
func NewScorer(recent []string) *Scorer {
	return &Scorer{recent: recent}
}

// Score rates how relevant a file is to a query. The result is always in
// [0,1]; every input, including empty content or an empty query, is
// valid.
func (s *Scorer) Score(path, content, query string) float64 {
	keywords := extractKeywords(query)

	score := keywordScore(content, keywords)*weightKeyword +
		typePriority(path)*weightFileType +
		componentMatch(path, query)*weightComponent +
		pageBonus(path, query)*weightRoute +
		s.recencyBonus(path)*weightRecency

	return math.Max(0.0, math.Min(1.0, score))
}

// extractKeywords tokenizes a query into lowercase keywords: split on
// whitespace and punctuation, drop tokens shorter than three characters,
// drop stop words.
func extractKeywords(query string) []string {
	words := tokenSplit.Split(strings.ToLower(query), -1)

	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minKeywordLen || stopWords[w] {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// keywordScore is the fraction of keywords found as case-insensitive
// substrings of the content, capped at 1.0. No keywords scores 0.
func keywordScore(content string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0.0
	}

	contentLower := strings.ToLower(content)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(contentLower, kw) {
			matched++
		}
	}
	return math.Min(1.0, float64(matched)/float64(len(keywords)))
}

// typePriority looks up the file's extension in fileTypePriorities. An
// extension is a trailing dot followed by ASCII letters only.
func typePriority(path string) float64 {
	ext := extPattern.FindString(path)
	if ext == "" {
		return defaultTypePriority
	}
	if p, ok := fileTypePriorities[strings.ToLower(ext)]; ok {
		return p
	}
	return defaultTypePriority
}

// componentMatch awards a flat bonus when the file's bare name (layout.tsx
// -> "layout") is at least three characters and occurs inside the
// lowercased query. Binary, not proportional.
func componentMatch(path, query string) float64 {
	name := strings.ToLower(extPattern.ReplaceAllString(baseName(path), ""))
	if len(name) >= minKeywordLen && strings.Contains(strings.ToLower(query), name) {
		return componentMatchScore
	}
	return 0.0
}

// pageBonus awards a flat bonus to page/layout files when the query
// signals navigation intent.
func pageBonus(path, query string) float64 {
	queryLower := strings.ToLower(query)
	routeQuery := false
	for _, kw := range routeWords {
		if strings.Contains(queryLower, kw) {
			routeQuery = true
			break
		}
	}
	if !routeQuery {
		return 0.0
	}

	if pageFilenames[strings.ToLower(baseName(path))] {
		return routePageScore
	}
	return 0.0
}

// recencyBonus decays exponentially with the file's position in the
// recency list: 0.15 at position zero, 70% of that per older position.
// Files absent from the list get nothing.
func (s *Scorer) recencyBonus(path string) float64 {
	for i, p := range s.recent {
		if p == path {
			return recencyMaxBonus * math.Pow(recencyDecay, float64(i))
		}
	}
	return 0.0
}

// baseName returns the final slash-separated segment of a sandbox path.
func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
