package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger-chat-stats/internal/domain"
)

func TestServerClient(t *testing.T) {
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/chats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chats": []domain.ChatSummary{{ID: "friends", Title: "Friends", MessageCount: 5}},
		})
	})
	mux.HandleFunc("POST /api/v1/chats/{chatID}/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("chatID") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error_kind": "not_found", "error_message": "chat export not found"})
			return
		}
		assert.Equal(t, "7", r.URL.Query().Get("top"))
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"task_id": "task-" + r.PathValue("chatID")})
	})
	mux.HandleFunc("GET /api/v1/tasks/{taskID}", func(w http.ResponseWriter, r *http.Request) {
		status := "processing"
		if polls.Add(1) >= 3 {
			status = "completed"
		}
		json.NewEncoder(w).Encode(TaskStatusResponse{TaskID: r.PathValue("taskID"), Status: status})
	})
	mux.HandleFunc("GET /api/v1/tasks/{taskID}/result", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.AggregateResult{ChatID: "friends", TotalMessages: 5})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewServerClient(srv.URL + "/")
	ctx := context.Background()

	t.Run("ListChats", func(t *testing.T) {
		chats, err := c.ListChats(ctx)
		require.NoError(t, err)
		require.Len(t, chats, 1)
		assert.Equal(t, "friends", chats[0].ID)
		assert.Equal(t, 5, chats[0].MessageCount)
	})

	t.Run("StartStats и ожидание результата", func(t *testing.T) {
		started, err := c.StartStats(ctx, "friends", 7)
		require.NoError(t, err)
		assert.Equal(t, "task-friends", started.TaskID)

		status, err := c.WaitForTask(ctx, started.TaskID, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "completed", status.Status)
		assert.GreaterOrEqual(t, polls.Load(), int32(3))

		result, err := c.GetTaskResult(ctx, started.TaskID)
		require.NoError(t, err)
		assert.Equal(t, 5, result.TotalMessages)
	})

	t.Run("Ошибка API содержит вид ошибки", func(t *testing.T) {
		_, err := c.StartStats(ctx, "missing", 0)
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "not_found", apiErr.Kind)
	})

	t.Run("Отмена ожидания", func(t *testing.T) {
		polls.Store(-1000)
		cancelled, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := c.WaitForTask(cancelled, "task-slow", 5*time.Millisecond)
		assert.Error(t, err)
	})
}
