// Package quote fetches sentences for the daily puzzle from an external provider.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/crackthecode/internal/model"
)

// DefaultZenQuotesURL is the public random-quote endpoint
const DefaultZenQuotesURL = "https://zenquotes.io/api/random"

const providerName = "zenquotes"

// Quote is a sentence and who said it
type Quote struct {
	Text   string
	Author string
}

// Provider supplies quotes
type Provider interface {
	Random(ctx context.Context) (Quote, error)
}

// ZenQuotes fetches quotes from the ZenQuotes API
type ZenQuotes struct {
	url    string
	client *http.Client
}

// NewZenQuotes creates a client for url. An empty url uses DefaultZenQuotesURL.
func NewZenQuotes(url string, timeout time.Duration) *ZenQuotes {
	if url == "" {
		url = DefaultZenQuotesURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &ZenQuotes{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type zenQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Random returns one quote. Failures are wrapped in *model.UpstreamError.
func (z *ZenQuotes) Random(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, z.url, nil)
	if err != nil {
		return Quote{}, upstream(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return Quote{}, upstream(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Quote{}, upstream(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var quotes []zenQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return Quote{}, upstream(fmt.Errorf("decode response: %w", err))
	}
	if len(quotes) == 0 || strings.TrimSpace(quotes[0].Q) == "" {
		return Quote{}, upstream(errors.New("empty response"))
	}

	return Quote{Text: quotes[0].Q, Author: quotes[0].A}, nil
}

func upstream(err error) error {
	return &model.UpstreamError{Provider: providerName, Err: err}
}

// Static always returns the same quote. Used for tests and offline runs.
type Static struct {
	Quote Quote
	Err   error
}

// Random returns the configured quote or error
func (s *Static) Random(ctx context.Context) (Quote, error) {
	if s.Err != nil {
		return Quote{}, s.Err
	}
	return s.Quote, nil
}
