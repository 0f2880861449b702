package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gitmuse/gitmuse/internal/domain"
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
