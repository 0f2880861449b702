package orchestrator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"

	"github.com/gitmuse/gitmuse/internal/config"
	"github.com/gitmuse/gitmuse/internal/domain"
	"github.com/gitmuse/gitmuse/internal/repository"
	"github.com/gitmuse/gitmuse/internal/service"
)

type mockGitRepository struct {
	mock.Mock
}

func (m *mockGitRepository) Status(ctx context.Context) (*domain.RepositoryStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepositoryStatus), args.Error(1)
}

func (m *mockGitRepository) StagedDiff(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) StageAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockGitRepository) Commit(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) Log(ctx context.Context, fromHash, toRef string) ([]domain.CommitRecord, error) {
	args := m.Called(ctx, fromHash, toRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommitRecord), args.Error(1)
}

func (m *mockGitRepository) ResolveRevision(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) Tags(ctx context.Context) ([]domain.TagRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TagRecord), args.Error(1)
}

func (m *mockGitRepository) CreateTag(ctx context.Context, name, message string) error {
	args := m.Called(ctx, name, message)
	return args.Error(0)
}

func (m *mockGitRepository) FirstCommit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) HasRemote(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockGitRepository) RemoteURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) Push(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockGitRepository) FileContentAt(ctx context.Context, ref, path string) (string, error) {
	args := m.Called(ctx, ref, path)
	return args.String(0), args.Error(1)
}

type mockGenerateService struct {
	mock.Mock
}

func (m *mockGenerateService) Generate(ctx context.Context, purpose service.Purpose, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, purpose, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func (m *mockGenerateService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishRelease(ctx context.Context, tag, name, body string) (string, error) {
	args := m.Called(ctx, tag, name, body)
	return args.String(0), args.Error(1)
}

// fakePrompter replays scripted answers and records every rendered
// message. Exhausted answer queues fall back to the question's default.
type fakePrompter struct {
	confirms []bool
	inputs   []string
	selects  []int

	infos     []string
	warns     []string
	successes []string
	prints    []string
}

func (p *fakePrompter) Confirm(_ context.Context, _ string, def bool) (bool, error) {
	if len(p.confirms) == 0 {
		return def, nil
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func (p *fakePrompter) Input(_ context.Context, _ string) (string, error) {
	if len(p.inputs) == 0 {
		return "", nil
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	return answer, nil
}

func (p *fakePrompter) Select(_ context.Context, _ string, _ []string) (int, error) {
	if len(p.selects) == 0 {
		return 0, nil
	}
	answer := p.selects[0]
	p.selects = p.selects[1:]
	return answer, nil
}

func (p *fakePrompter) Info(format string, args ...any)    { p.infos = append(p.infos, render(format, args)) }
func (p *fakePrompter) Warn(format string, args ...any)    { p.warns = append(p.warns, render(format, args)) }
func (p *fakePrompter) Success(format string, args ...any) { p.successes = append(p.successes, render(format, args)) }
func (p *fakePrompter) Print(text string)                  { p.prints = append(p.prints, text) }
func (p *fakePrompter) Busy(string) (stop func())          { return func() {} }

func render(format string, args []any) string {
	return fmt.Sprintf(format, args...)
}

// fixture wires an Orchestrator over mocks and an in-memory filesystem.
type fixture struct {
	gitRepo     *mockGitRepository
	generateSvc *mockGenerateService
	prompter    *fakePrompter
	fs          afero.Fs
	history     *repository.JSONHistoryStore
	publisher   *mockPublisher
	orch        *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	cfgManager := config.NewManager(fs, ".gitmuse")
	f := &fixture{
		gitRepo:     &mockGitRepository{},
		generateSvc: &mockGenerateService{},
		prompter:    &fakePrompter{},
		fs:          fs,
		history:     repository.NewJSONHistoryStore(fs, cfgManager.HistoryPath()),
	}
	f.orch = NewOrchestrator(
		f.gitRepo, fs, f.history, f.generateSvc, cfgManager, f.prompter, nil, nil)
	f.orch.retryDelay = time.Millisecond
	return f
}

// withPublisher rebuilds the orchestrator with a mocked release publisher.
func (f *fixture) withPublisher(t *testing.T) *fixture {
	t.Helper()
	f.publisher = &mockPublisher{}
	cfgManager := config.NewManager(f.fs, ".gitmuse")
	f.orch = NewOrchestrator(
		f.gitRepo, f.fs, f.history, f.generateSvc, cfgManager, f.prompter, f.publisher, nil)
	f.orch.retryDelay = time.Millisecond
	return f
}
