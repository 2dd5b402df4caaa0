// Package bench measures the smart-context engine against a fixed
// sample project: five representative modification requests, each
// naming the file a correct context build must surface in full.
package bench

import (
	"strings"
	"time"

	"github.com/vibecraft-ai/vibecraft/internal/relevance"
)

// afterCalls is the round-trips a modification takes once the context
// pre-loads the right files: just the edit itself.
const afterCalls = 1

// Query is one benchmark case.
type Query struct {
	Text          string
	Description   string
	ExpectedFile  string // filename fragment that must appear among the full files
	BaselineCalls int
}

// Result captures one query's build outcome.
type Result struct {
	Query     Query
	Found     bool
	Rank      int // 1-based position among full files, 0 when absent
	FullFiles []string
	Summaries int
	Tokens    int
	Duration  time.Duration
}

// CallReduction is the percentage of tool round-trips saved against
// the search-then-read baseline.
func (r Result) CallReduction() float64 {
	return float64(r.Query.BaselineCalls-afterCalls) / float64(r.Query.BaselineCalls) * 100
}

// Report is the outcome of a full run.
type Report struct {
	Results []Result
}

// Run builds context for every benchmark query against the sample
// project and scores the outcomes.
func Run(builder *relevance.Builder) *Report {
	files := SampleProject()
	rep := &Report{}

	for _, q := range Queries() {
		start := time.Now()
		res := builder.Build(relevance.BuildRequest{Files: files, Query: q.Text})
		elapsed := time.Since(start)

		r := Result{
			Query:     q,
			Summaries: len(res.Summaries),
			Tokens:    res.TokenCount,
			Duration:  elapsed,
		}
		for i, f := range res.FullFiles {
			r.FullFiles = append(r.FullFiles, f.Path)
			if r.Rank == 0 && strings.Contains(f.Path, q.ExpectedFile) {
				r.Found = true
				r.Rank = i + 1
			}
		}
		rep.Results = append(rep.Results, r)
	}
	return rep
}

// HitRate is the fraction of queries whose expected file was included
// in full.
func (rep *Report) HitRate() float64 {
	if len(rep.Results) == 0 {
		return 0
	}
	hits := 0
	for _, r := range rep.Results {
		if r.Found {
			hits++
		}
	}
	return float64(hits) / float64(len(rep.Results))
}

// AvgCallReduction averages the per-query round-trip savings.
func (rep *Report) AvgCallReduction() float64 {
	if len(rep.Results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rep.Results {
		sum += r.CallReduction()
	}
	return sum / float64(len(rep.Results))
}
