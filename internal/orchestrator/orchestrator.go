// Package orchestrator sequences the commit, changelog and release
// workflows. All decision logic lives here; git, generation, filesystem
// and terminal I/O are delegated to collaborators.
package orchestrator

import (
	"time"

	"go.uber.org/zap"

	"github.com/gitmuse/gitmuse/internal/config"
	"github.com/gitmuse/gitmuse/internal/repository"
	"github.com/gitmuse/gitmuse/internal/service"
	"github.com/gitmuse/gitmuse/internal/ui"
)

// Orchestrator runs the commit, changelog and release workflows over one
// repository for one process invocation.
type Orchestrator struct {
	gitRepo      repository.GitRepository
	fsRepo       repository.FileSystemRepository
	historyStore repository.ChangelogHistoryStore
	generateSvc  service.GenerateService
	cfgManager   *config.Manager
	prompter     ui.Prompter
	publisher    repository.ReleasePublisher // nil when unavailable
	log          *zap.Logger

	retryCount uint64
	retryDelay time.Duration
}

// NewOrchestrator creates an Orchestrator. publisher may be nil when no
// hosting-service credentials are configured; log may be nil.
func NewOrchestrator(
	gitRepo repository.GitRepository,
	fsRepo repository.FileSystemRepository,
	historyStore repository.ChangelogHistoryStore,
	generateSvc service.GenerateService,
	cfgManager *config.Manager,
	prompter ui.Prompter,
	publisher repository.ReleasePublisher,
	log *zap.Logger,
) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		gitRepo:      gitRepo,
		fsRepo:       fsRepo,
		historyStore: historyStore,
		generateSvc:  generateSvc,
		cfgManager:   cfgManager,
		prompter:     prompter,
		publisher:    publisher,
		log:          log,
		retryCount:   DefaultRetryCount,
		retryDelay:   DefaultRetryDelay,
	}
}
