// Package client содержит HTTP-клиент для API сервера статистики.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"messenger-chat-stats/internal/domain"
)

// ServerClient - клиент для взаимодействия с API бэкенд-сервера.
type ServerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewServerClient создает новый экземпляр ServerClient.
func NewServerClient(baseURL string) *ServerClient {
	return &ServerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // Общий таймаут для запросов
		},
	}
}

// API-ответы
type StartTaskResponse struct {
	TaskID string `json:"task_id"`
}

type TaskStatusResponse struct {
	TaskID       string `json:"task_id"`
	ChatID       string `json:"chat_id"`
	Status       string `json:"status"`
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Done сообщает, завершена ли задача успешно или с ошибкой.
func (s *TaskStatusResponse) Done() bool {
	return s.Status == "completed" || s.Status == "failed"
}

type ChatListResponse struct {
	Chats []domain.ChatSummary `json:"chats"`
}

// APIError - ответ сервера с неожиданным кодом.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("unexpected status code: %d (%s: %s)", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// ListChats запрашивает каталог чатов.
func (c *ServerClient) ListChats(ctx context.Context) ([]domain.ChatSummary, error) {
	var result ChatListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/chats", http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.Chats, nil
}

// StartStats запускает вычисление статистики чата. topWords <= 0 - значение сервера по умолчанию.
func (c *ServerClient) StartStats(ctx context.Context, chatID string, topWords int) (*StartTaskResponse, error) {
	path := "/api/v1/chats/" + url.PathEscape(chatID) + "/stats"
	if topWords > 0 {
		path += "?top=" + strconv.Itoa(topWords)
	}

	var result StartTaskResponse
	if err := c.do(ctx, http.MethodPost, path, http.StatusAccepted, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTaskStatus запрашивает статус задачи.
func (c *ServerClient) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatusResponse, error) {
	var result TaskStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(taskID), http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTaskResult запрашивает результат выполненной задачи.
func (c *ServerClient) GetTaskResult(ctx context.Context, taskID string) (*domain.AggregateResult, error) {
	var result domain.AggregateResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(taskID)+"/result", http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WaitForTask опрашивает статус задачи с интервалом interval, пока она не завершится.
func (c *ServerClient) WaitForTask(ctx context.Context, taskID string, interval time.Duration) (*TaskStatusResponse, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.GetTaskStatus(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if status.Done() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *ServerClient) do(ctx context.Context, method, path string, wantStatus int, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var payload struct {
			Kind    string `json:"error_kind"`
			Message string `json:"error_message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Kind, apiErr.Message = payload.Kind, payload.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
