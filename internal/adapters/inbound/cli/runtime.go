package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/cache"
	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/config"
	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/extractor"
	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/fixgen"
	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/gitinfo"
	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/history"
	"github.com/a11ykraft/a11ykraft/internal/application"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// runtime is the wired object graph behind a command.
type runtime struct {
	cfg     domain.ProjectConfig
	orch    *application.Orchestrator
	svc     *application.AuditService
	hist    *history.FileHistory
	histDir string
}

// loadConfig reads --config when set, otherwise .a11ykraft.yaml in dir.
func loadConfig(opts *globalOptions, dir string) (domain.ProjectConfig, error) {
	loader := config.New()
	if opts.configPath != "" {
		return loader.LoadFile(opts.configPath)
	}
	return loader.Load(dir)
}

// newRuntime wires adapters around cfg. History and the extraction cache
// are kept in histDir.
func newRuntime(cfg domain.ProjectConfig, histDir string) (*runtime, error) {
	orch, err := application.NewDefaultOrchestrator(cfg)
	if err != nil {
		return nil, err
	}
	hist := history.New()
	var ext domain.DocumentExtractor = extractor.New()
	if cfg.CacheEnabled() {
		ext = cache.NewExtractor(ext, cache.New(histDir))
	}
	svc := application.NewAuditService(orch, ext, cfg,
		application.WithHistory(hist, histDir),
		application.WithGitInfo(gitinfo.New()),
	)
	return &runtime{cfg: cfg, orch: orch, svc: svc, hist: hist, histDir: histDir}, nil
}

// newFixGenerator builds the configured generator, or nil when disabled.
// force enables the OpenAI provider when the config leaves it unset.
func newFixGenerator(cfg domain.FixGeneratorConfig, force bool) (domain.FixGenerator, error) {
	if !cfg.Enabled() {
		if !force {
			return nil, nil
		}
		cfg.Provider = domain.ProviderOpenAI
	}
	gen, err := fixgen.NewFromEnv(cfg, os.Getenv)
	if err != nil {
		return nil, err
	}
	return gen, nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}
