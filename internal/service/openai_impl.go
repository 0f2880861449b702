package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sethvargo/go-retry"

	"github.com/gitmuse/gitmuse/internal/config"
	gmerrors "github.com/gitmuse/gitmuse/internal/errors"
)

// providerEndpoints maps a provider name to its chat-completions URL.
// Every listed provider speaks the OpenAI wire format.
var providerEndpoints = map[string]string{
	"openai":     "https://api.openai.com/v1/chat/completions",
	"openrouter": "https://openrouter.ai/api/v1/chat/completions",
	"groq":       "https://api.groq.com/openai/v1/chat/completions",
	"ollama":     "http://localhost:11434/v1/chat/completions",
}

// generateService is the HTTP implementation of GenerateService. The
// underlying client is created lazily on first use and released by Close.
type generateService struct {
	cfg *config.Config

	once   sync.Once
	client *http.Client

	closeOnce sync.Once
}

// NewGenerateService creates a GenerateService selecting models per
// purpose from cfg.
func NewGenerateService(cfg *config.Config) GenerateService {
	return &generateService{cfg: cfg}
}

// httpClient returns the shared client, creating it on first use.
func (s *generateService) httpClient() *http.Client {
	s.once.Do(func() {
		s.client = &http.Client{Timeout: DefaultRequestTimeout}
	})
	return s.client
}

// Close releases the backend session. Safe to call more than once.
func (s *generateService) Close() error {
	s.closeOnce.Do(func() {
		if s.client != nil {
			s.client.CloseIdleConnections()
		}
	})
	return nil
}

// modelFor resolves the provider/model pair configured for a purpose.
func (s *generateService) modelFor(purpose Purpose) (provider, model string, err error) {
	selection := s.cfg.CommitModel
	if purpose == PurposeChangelog {
		selection = s.cfg.ChangelogModel
	}
	return config.ParseModel(selection)
}

// Generate sends the prompts to the configured backend and returns the
// text content. Transient failures are retried with exponential backoff.
func (s *generateService) Generate(ctx context.Context, purpose Purpose, systemPrompt, userPrompt string) (string, error) {
	provider, model, err := s.modelFor(purpose)
	if err != nil {
		return "", err
	}
	endpoint, ok := providerEndpoints[provider]
	if !ok {
		return "", gmerrors.NewUserError(
			fmt.Sprintf("unknown provider %q", provider),
			fmt.Sprintf("known providers: %s", strings.Join(KnownProviders(), ", ")),
		)
	}
	if provider != "ollama" && s.cfg.APIKey == "" {
		return "", gmerrors.NewUserError(
			"no API key configured",
			"set GITMUSE_API_KEY or OPENAI_API_KEY",
		)
	}
	userPrompt = cutAtRuneBoundary(userPrompt, MaxPromptBytes)
	var text string
	err = retry.Do(
		ctx,
		retry.WithMaxRetries(DefaultRetryCount, retry.NewExponential(DefaultRetryDelay)),
		func(ctx context.Context) error {
			var reqErr error
			text, reqErr = s.request(ctx, endpoint, model, systemPrompt, userPrompt)
			return reqErr
		},
	)
	if err != nil {
		return "", gmerrors.WrapUser(err, "generation backend request failed",
			"check network connectivity and the configured model")
	}
	return text, nil
}

// request performs one chat-completions call.
func (s *generateService) request(ctx context.Context, endpoint, model, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}
	resp, err := s.httpClient().Do(req)
	if err != nil {
		// Network failures are worth retrying.
		return "", retry.RetryableError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", retry.RetryableError(fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return "", retry.RetryableError(fmt.Errorf("backend returned %s", resp.Status))
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("backend returned %s: %s", resp.Status, truncate(string(data), 200))
	}
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("backend returned empty text")
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return cutAtRuneBoundary(s, n) + "..."
}

// cutAtRuneBoundary shortens s to at most n bytes without splitting a
// multi-byte rune.
func cutAtRuneBoundary(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
