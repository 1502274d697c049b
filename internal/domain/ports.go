package domain

import "context"

// Analyzer infers one structural dimension of a document.
type Analyzer interface {
	Describe() AnalyzerInfo
	// Eligible is a cheap, side-effect free check; ineligible analyzers are
	// never run.
	Eligible(actx *AnalysisContext) bool
	// Run never returns an error: failures are reported through
	// Result.Success and Result.Error.
	Run(ctx context.Context, actx *AnalysisContext, gen FixGenerator) Result
}

// FixGenerator proposes a remedy for a single issue. Implementations may be
// slow or fail; callers treat any error as "no fix available".
type FixGenerator interface {
	GenerateFix(ctx context.Context, issue Issue, actx *AnalysisContext) (string, error)
}

// FixGeneratorFunc adapts a function to FixGenerator.
type FixGeneratorFunc func(ctx context.Context, issue Issue, actx *AnalysisContext) (string, error)

func (f FixGeneratorFunc) GenerateFix(ctx context.Context, issue Issue, actx *AnalysisContext) (string, error) {
	return f(ctx, issue, actx)
}

// DocumentExtractor turns a file into plain text plus page and size info.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (*ExtractedDocument, error)
}

// ConfigLoader loads project configuration from a directory.
type ConfigLoader interface {
	Load(dir string) (ProjectConfig, error)
}

// AuditHistory persists audit scores per document.
type AuditHistory interface {
	Save(dir string, entry AuditEntry) error
	Load(dir string) ([]AuditEntry, error)
}

// GitInfo provides version-control information about a path.
type GitInfo interface {
	CommitHash(path string) (string, error)
}

// AuditEntry is one line of audit history.
type AuditEntry struct {
	Timestamp  string `json:"timestamp"`
	ReportID   string `json:"report_id"`
	Document   string `json:"document"`
	CommitHash string `json:"commit_hash,omitempty"`
	Score      int    `json:"score"`
	Status     string `json:"status"`
	Issues     int    `json:"issues"`
}
