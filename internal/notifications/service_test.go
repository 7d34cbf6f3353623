package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/models"
)

var testAlert = models.Alert{
	Title:      "OpenAI launches new model",
	URL:        "https://lab.test/launch",
	SourceName: "Lab Blog",
	At:         time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC),
}

func TestRenderMessage(t *testing.T) {
	msg := RenderMessage(testAlert)
	assert.Contains(t, msg, "🚨 *Breaking:*")
	assert.Contains(t, msg, "[OpenAI launches new model](https://lab.test/launch)")
	assert.Contains(t, msg, "Source: Lab Blog • 14:05 UTC")

	plain := testAlert
	plain.URL = ""
	assert.NotContains(t, RenderMessage(plain), "](")
}

func TestSendWebhook(t *testing.T) {
	var got models.Alert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewService(&config.Config{AlertWebhookURL: srv.URL})
	require.NoError(t, svc.Send(testAlert))
	assert.Equal(t, "OpenAI launches new model", got.Title)
	assert.Equal(t, "Lab Blog", got.SourceName)
}

func TestSendWebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no thanks", http.StatusForbidden)
	}))
	defer srv.Close()

	svc := NewService(&config.Config{AlertWebhookURL: srv.URL})
	err := svc.Send(testAlert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestSendNoChannelsConfigured(t *testing.T) {
	svc := NewService(&config.Config{})
	assert.NoError(t, svc.Send(testAlert), "nothing configured means nothing to fail")
}
