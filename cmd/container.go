package cmd

import (
	"context"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/gitmuse/gitmuse/internal/config"
	gmerrors "github.com/gitmuse/gitmuse/internal/errors"
	"github.com/gitmuse/gitmuse/internal/orchestrator"
	"github.com/gitmuse/gitmuse/internal/repository"
	"github.com/gitmuse/gitmuse/internal/service"
	"github.com/gitmuse/gitmuse/internal/ui"
)

// container holds all the dependencies for the application. Repository
// access is created lazily so commands that never touch git (config)
// work anywhere.
type container struct {
	verbose bool

	cfg         *config.Config
	cfgManager  *config.Manager
	fsRepo      repository.FileSystemRepository
	generateSvc service.GenerateService
	prompter    ui.Prompter

	orch *orchestrator.Orchestrator
}

// newContainer creates the container with the repository-independent
// dependencies.
func newContainer() (*container, error) {
	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	cfgManager := config.NewManager(fsRepo, "")
	cfg, err := cfgManager.Load()
	if err != nil {
		return nil, err
	}
	return &container{
		cfg:         cfg,
		cfgManager:  cfgManager,
		fsRepo:      fsRepo,
		generateSvc: service.NewGenerateService(cfg),
		prompter:    ui.NewTerminal(),
	}, nil
}

// logger returns a debug logger when --verbose is set, a no-op one
// otherwise.
func (c *container) logger() *zap.Logger {
	if !c.verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// orchestrator builds the workflow orchestrator, opening the repository
// on first use.
func (c *container) orchestrator() (*orchestrator.Orchestrator, error) {
	if c.orch != nil {
		return c.orch, nil
	}
	gitRepo, err := repository.NewGitRepository(".")
	if err != nil {
		return nil, gmerrors.WrapUser(err, "not a git repository",
			"run gitmuse from inside a git working tree")
	}
	historyStore := repository.NewJSONHistoryStore(c.fsRepo, c.cfgManager.HistoryPath())
	c.orch = orchestrator.NewOrchestrator(
		gitRepo,
		c.fsRepo,
		historyStore,
		c.generateSvc,
		c.cfgManager,
		c.prompter,
		c.buildPublisher(gitRepo),
		c.logger(),
	)
	return c.orch, nil
}

// buildPublisher creates the optional GitHub release publisher. Absent
// token or a non-GitHub remote silently yields nil.
func (c *container) buildPublisher(gitRepo repository.GitRepository) repository.ReleasePublisher {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil
	}
	url, err := gitRepo.RemoteURL(context.Background())
	if err != nil {
		return nil
	}
	owner, repo, ok := repository.ParseGithubRemote(url)
	if !ok {
		return nil
	}
	publisher, err := repository.NewGithubPublisher(token, owner, repo)
	if err != nil {
		return nil
	}
	return publisher
}

// Close releases process-wide resources. Idempotent.
func (c *container) Close() {
	// Best effort: nothing actionable at exit.
	_ = c.generateSvc.Close()
}
