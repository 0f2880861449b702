package service

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitmuse/gitmuse/internal/config"
	gmerrors "github.com/gitmuse/gitmuse/internal/errors"
)

func TestGenerateService_Generate(t *testing.T) {
	t.Run("Should reject an unknown provider", func(t *testing.T) {
		svc := NewGenerateService(&config.Config{
			CommitModel:    "unknown/model",
			ChangelogModel: "unknown/model",
		})
		_, err := svc.Generate(context.Background(), PurposeCommit, "system", "user")
		require.Error(t, err)
		assert.True(t, gmerrors.IsUser(err))
		assert.Contains(t, err.Error(), `unknown provider "unknown"`)
	})
	t.Run("Should require an API key for hosted providers", func(t *testing.T) {
		svc := NewGenerateService(&config.Config{
			CommitModel:    "openai/gpt-4o-mini",
			ChangelogModel: "openai/gpt-4o-mini",
		})
		_, err := svc.Generate(context.Background(), PurposeCommit, "system", "user")
		require.Error(t, err)
		assert.True(t, gmerrors.IsUser(err))
		assert.Contains(t, err.Error(), "no API key configured")
	})
	t.Run("Should reject a malformed model selection", func(t *testing.T) {
		svc := NewGenerateService(&config.Config{
			CommitModel:    "not-a-selection",
			ChangelogModel: "openai/gpt-4o-mini",
		})
		_, err := svc.Generate(context.Background(), PurposeCommit, "system", "user")
		require.Error(t, err)
		assert.True(t, gmerrors.IsUser(err))
	})
}

func TestGenerateService_ModelFor(t *testing.T) {
	t.Run("Should select the model per purpose", func(t *testing.T) {
		svc := &generateService{cfg: &config.Config{
			CommitModel:    "openai/gpt-4o-mini",
			ChangelogModel: "groq/llama-3.3-70b-versatile",
		}}
		provider, model, err := svc.modelFor(PurposeCommit)
		require.NoError(t, err)
		assert.Equal(t, "openai", provider)
		assert.Equal(t, "gpt-4o-mini", model)
		provider, model, err = svc.modelFor(PurposeChangelog)
		require.NoError(t, err)
		assert.Equal(t, "groq", provider)
		assert.Equal(t, "llama-3.3-70b-versatile", model)
	})
}

func TestGenerateService_Close(t *testing.T) {
	t.Run("Should be safe to call more than once", func(t *testing.T) {
		svc := NewGenerateService(config.DefaultConfig())
		require.NoError(t, svc.Close())
		require.NoError(t, svc.Close())
	})
}

func TestKnownProviders(t *testing.T) {
	providers := KnownProviders()
	assert.Contains(t, providers, "openai")
	assert.Contains(t, providers, "ollama")
	assert.True(t, sortedStrings(providers))
	for _, p := range providers {
		assert.NotEmpty(t, KnownModels(p), p)
	}
}

func TestCutAtRuneBoundary(t *testing.T) {
	t.Run("Should leave short strings alone", func(t *testing.T) {
		assert.Equal(t, "héllo", cutAtRuneBoundary("héllo", 100))
	})
	t.Run("Should never split a multi-byte rune", func(t *testing.T) {
		s := "日本語テキスト"
		for n := 0; n <= len(s); n++ {
			cut := cutAtRuneBoundary(s, n)
			assert.True(t, utf8.ValidString(cut), "n=%d", n)
			assert.LessOrEqual(t, len(cut), n)
		}
	})
	t.Run("Should cut at an exact boundary when possible", func(t *testing.T) {
		assert.Equal(t, "ab", cutAtRuneBoundary("abc", 2))
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	cut := truncate("日本語テキスト", 4)
	assert.True(t, utf8.ValidString(cut))
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
