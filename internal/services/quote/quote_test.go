package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/crackthecode/internal/model"
)

func serve(t *testing.T, status int, body string) *ZenQuotes {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewZenQuotes(srv.URL, time.Second)
}

func TestZenQuotesRandom(t *testing.T) {
	z := serve(t, http.StatusOK, `[{"q":"Stay hungry","a":"Steve Jobs","h":"<blockquote/>"}]`)

	q, err := z.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Quote{Text: "Stay hungry", Author: "Steve Jobs"}, q)
}

func TestZenQuotesFailuresAreUpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"rate limited", http.StatusTooManyRequests, "slow down"},
		{"bad json", http.StatusOK, "{not json"},
		{"empty list", http.StatusOK, "[]"},
		{"blank quote", http.StatusOK, `[{"q":"  ","a":"x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(t, tt.status, tt.body).Random(context.Background())
			var upErr *model.UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, "zenquotes", upErr.Provider)
		})
	}
}

func TestZenQuotesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewZenQuotes(url, time.Second).Random(context.Background())
	var upErr *model.UpstreamError
	require.ErrorAs(t, err, &upErr)
}

func TestStatic(t *testing.T) {
	s := &Static{Quote: Quote{Text: "hi", Author: "me"}}
	q, err := s.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hi", q.Text)

	s.Err = assert.AnError
	_, err = s.Random(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
