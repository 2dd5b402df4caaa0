package relevance

import (
	"fmt"
	"sort"
	"strings"
)

// Default builder limits.
const (
	DefaultMaxTokens    = 4000
	DefaultMaxFullFiles = 5
	DefaultMinScore     = 0.1
)

// Config bounds what a single context build may spend.
type Config struct {
	// MaxTokens is the token budget for full-content inclusion.
	MaxTokens int `json:"max_tokens"`
	// MaxFullFiles caps how many files are included in full.
	MaxFullFiles int `json:"max_full_files"`
	// MinScore drops files scoring below it from the result entirely.
	MinScore float64 `json:"min_score"`
}

// DefaultConfig returns the standard limits: 4000 tokens, 5 full files,
// 0.1 minimum score.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    DefaultMaxTokens,
		MaxFullFiles: DefaultMaxFullFiles,
		MinScore:     DefaultMinScore,
	}
}

// Validate rejects configurations that would silently produce empty
// results.
func (c Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("relevance: max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.MaxFullFiles <= 0 {
		return fmt.Errorf("relevance: max full files must be positive, got %d", c.MaxFullFiles)
	}
	if c.MinScore < 0 {
		return fmt.Errorf("relevance: min score must not be negative, got %g", c.MinScore)
	}
	return nil
}

// FullFile is a file selected for verbatim inclusion.
type FullFile struct {
	Path    string  `json:"path"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Summary advertises a file without its content.
type Summary struct {
	Path      string  `json:"path"`
	LineCount int     `json:"line_count"`
	Purpose   string  `json:"purpose"`
	Score     float64 `json:"score"`
}

// Result partitions the above-threshold files of one build into full
// inclusions and summaries. TokenCount sums the estimated cost of the
// full files only and never exceeds the budget the build ran with.
type Result struct {
	FullFiles  []FullFile `json:"full_files"`
	Summaries  []Summary  `json:"summaries"`
	TokenCount int        `json:"token_count"`
}

// BuildRequest is the input to one context build.
type BuildRequest struct {
	// Files maps relative paths to current content.
	Files map[string]string
	// Query is the user's request, used for relevance scoring.
	Query string
	// Recent lists recently modified paths, most recent first. Optional.
	Recent []string
	// MaxTokens overrides the configured budget when positive.
	MaxTokens int
}

// Builder turns a file set and a query into a budgeted Result. It is
// stateless across calls; one Builder may serve concurrent builds.
type Builder struct {
	cfg Config
}

// NewBuilder validates cfg and returns a Builder.
func NewBuilder(cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Builder{cfg: cfg}, nil
}

type scoredFile struct {
	path    string
	content string
	score   float64
}

// Build scores every file against the query, sorts by score, and walks
// the ranking once: below-threshold files are dropped, and each
// remaining file is included in full while it fits the token budget and
// the full-file cap, otherwise summarized. The walk never backtracks;
// a demoted file is never re-admitted.
func (b *Builder) Build(req BuildRequest) *Result {
	res := &Result{
		FullFiles: []FullFile{},
		Summaries: []Summary{},
	}
	if len(req.Files) == 0 {
		return res
	}

	budget := b.cfg.MaxTokens
	if req.MaxTokens > 0 {
		budget = req.MaxTokens
	}

	scorer := NewScorer(req.Recent)
	scored := make([]scoredFile, 0, len(req.Files))
	for path, content := range req.Files {
		scored = append(scored, scoredFile{
			path:    path,
			content: content,
			score:   scorer.Score(path, content, req.Query),
		})
	}

	// Highest score first. Equal scores fall back to lexicographic path
	// order, which keeps the ranking deterministic.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].path < scored[j].path
	})

	for _, f := range scored {
		if f.score < b.cfg.MinScore {
			continue
		}

		cost := estimateFileTokens(f.path, f.content)
		if res.TokenCount+cost <= budget && len(res.FullFiles) < b.cfg.MaxFullFiles {
			res.FullFiles = append(res.FullFiles, FullFile{
				Path:    f.path,
				Content: f.content,
				Score:   f.score,
			})
			res.TokenCount += cost
		} else {
			res.Summaries = append(res.Summaries, Summary{
				Path:      f.path,
				LineCount: strings.Count(f.content, "\n") + 1,
				Purpose:   detectPurpose(f.path),
				Score:     f.score,
			})
		}
	}

	return res
}

// EstimateTokens approximates token count at roughly four characters per
// token, truncating. The empty string costs nothing.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// estimateFileTokens prices a file at its rendered size: header line,
// fence open, content, fence close. The budget check in Build therefore
// reflects what actually lands in the prompt.
func estimateFileTokens(path, content string) int {
	return EstimateTokens("### " + path + "\n```\n" + content + "\n```\n")
}
