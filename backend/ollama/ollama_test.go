package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meetinglens/backend"
)

// Interface compliance (compile-time assertion)
var _ backend.Backend = (*Backend)(nil)

func TestComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: `{"ok": true}`},
			Done:    true,
		})
	}))
	defer srv.Close()

	b := New(func(o *Options) {
		o.Host = srv.URL
		o.Model = "llama3.1"
	})

	resp, err := b.Complete(context.Background(), backend.Request{
		System:          "sys",
		User:            "usr",
		Temperature:     0.2,
		MaxOutputTokens: 256,
		JSONResponse:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, resp.Content)

	assert.Equal(t, "llama3.1", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, 0.2, got.Options.Temperature)
	assert.Equal(t, int64(256), got.Options.NumPredict)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "usr", got.Messages[1].Content)
}

func TestComplete_ErrorStatusClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	b := New(func(o *Options) { o.Host = srv.URL })

	_, err := b.Complete(context.Background(), backend.Request{User: "u"})
	require.Error(t, err)

	ce := backend.AsCallError(err)
	assert.Equal(t, backend.ErrClient4xx, ce.Kind)
	assert.Equal(t, http.StatusNotFound, ce.Status)
}

func TestComplete_ServerDown(t *testing.T) {
	b := New(func(o *Options) { o.Host = "http://127.0.0.1:1" })

	_, err := b.Complete(context.Background(), backend.Request{User: "u"})
	require.Error(t, err)
	assert.Equal(t, backend.ErrTransport, backend.AsCallError(err).Kind)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	b := New(func(o *Options) { o.Host = "http://example.com/" })
	assert.Equal(t, "http://example.com", b.opts.Host)
}
