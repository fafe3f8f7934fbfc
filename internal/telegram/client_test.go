package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123:abcde"

func TestGetMe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testToken+"/getMe", r.URL.Path)
		io.WriteString(w, `{"ok":true,"result":{"id":1,"first_name":"AshedBot"}}`)
	}))
	defer server.Close()

	c := NewClient(testToken, WithBaseURL(server.URL))
	me, err := c.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), me.ID)
	assert.Equal(t, "AshedBot", me.FirstName)
}

func TestGetMeInvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"description":"Unauthorized"}`)
	}))
	defer server.Close()

	c := NewClient(testToken, WithBaseURL(server.URL))
	_, err := c.GetMe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestGetUpdates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot"+testToken+"/getUpdates", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "8", q.Get("offset"))
		assert.Equal(t, "30", q.Get("timeout"))
		assert.Equal(t, `["message"]`, q.Get("allowed_updates"))
		io.WriteString(w, `{"ok":true,"result":[
			{"update_id":8,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42},"text":"/start"}},
			{"update_id":9,"message":{"message_id":2,"from":{"id":43},"chat":{"id":43},"text":"/help"}}
		]}`)
	}))
	defer server.Close()

	c := NewClient(testToken, WithBaseURL(server.URL))
	updates, err := c.GetUpdates(context.Background(), 8, 30*time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, int64(8), updates[0].UpdateID)
	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Equal(t, int64(43), updates[1].Message.Chat.ID)
}

func TestGetUpdatesEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"result":[]}`)
	}))
	defer server.Close()

	c := NewClient(testToken, WithBaseURL(server.URL))
	updates, err := c.GetUpdates(context.Background(), 1, time.Second)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestSendMessage(t *testing.T) {
	var mu sync.Mutex
	var payloads []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		mu.Lock()
		payloads = append(payloads, payload)
		mu.Unlock()
		io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer server.Close()

	c := NewClient(testToken, WithBaseURL(server.URL))
	err := c.SendMessage(context.Background(), 42, "*hello*")
	require.NoError(t, err)

	require.Len(t, payloads, 1)
	assert.Equal(t, float64(42), payloads[0]["chat_id"])
	assert.Equal(t, "*hello*", payloads[0]["text"])
	assert.Equal(t, "MarkdownV2", payloads[0]["parse_mode"])
	assert.Equal(t, true, payloads[0]["disable_web_page_preview"])
}

func TestSendMessageFallsBackToPlainText(t *testing.T) {
	var mu sync.Mutex
	var payloads []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		mu.Lock()
		payloads = append(payloads, payload)
		n := len(payloads)
		mu.Unlock()
		if n == 1 {
			io.WriteString(w, `{"ok":false,"description":"can't parse entities"}`)
			return
		}
		io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer server.Close()

	c := NewClient(testToken, WithBaseURL(server.URL))
	err := c.SendMessage(context.Background(), 42, `Balance: *1\.000* ASHED`)
	require.NoError(t, err)

	require.Len(t, payloads, 2)
	// The retry drops the parse mode and strips the escapes.
	_, hasParseMode := payloads[1]["parse_mode"]
	assert.False(t, hasParseMode)
	assert.Equal(t, "Balance: *1.000* ASHED", payloads[1]["text"])
}

func TestSourceTag(t *testing.T) {
	assert.Equal(t, "abcde", NewClient("123:abcde").SourceTag())
	assert.Equal(t, "xy", NewClient("xy").SourceTag())
}
