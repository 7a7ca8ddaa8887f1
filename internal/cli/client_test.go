package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/crackthecode/internal/api/response"
	"github.com/mcoot/crackthecode/internal/testutil"
)

func TestClientSendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"about":"hi"}`, string(body))
		_, _ = io.WriteString(w, `{"message":"Profile updated"}`)
	}))
	defer srv.Close()

	var result response.Message
	c := NewClient(srv.URL+"/", "tok", testutil.NopLogger())
	require.NoError(t, c.Post(context.Background(), "/update-profile", map[string]string{"about": "hi"}, &result))
	assert.Equal(t, "Profile updated", result.Message)
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/enveloped":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":"PLAYER_NOT_FOUND","message":"Player not found"}}`)
		default:
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "", testutil.NopLogger())

	err := c.Get(context.Background(), "/enveloped", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "PLAYER_NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Player not found (PLAYER_NOT_FOUND)", err.Error())

	err = c.Get(context.Background(), "/plain", nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "HTTP 502: bad gateway", err.Error())
}

func TestClientUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("picture")
		if !assert.NoError(t, err) {
			return
		}
		data, _ := io.ReadAll(file)
		assert.Equal(t, "me.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))
		_, _ = io.WriteString(w, `{"picture":"/uploads/x.png"}`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	var result response.Picture
	c := NewClient(srv.URL, "tok", testutil.NopLogger())
	require.NoError(t, c.Upload(context.Background(), "/upload-picture", "picture", path, &result))
	assert.Equal(t, "/uploads/x.png", result.Picture)

	assert.Error(t, c.Upload(context.Background(), "/upload-picture", "picture", path+".missing", &result))
}

func TestPathfEscapesSegments(t *testing.T) {
	assert.Equal(t, "/chat/group/a%2Fb%20c", pathf("/chat/%s/%s", "group", "a/b c"))
}
