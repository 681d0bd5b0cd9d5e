package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"messenger-chat-stats/internal/cache"
	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/pkg/config"
	"messenger-chat-stats/internal/ports"
	"messenger-chat-stats/internal/server/usecase"
)

// taskTTL - время хранения записи о задаче
const taskTTL = 24 * time.Hour

// StatsComputer определяет интерфейс для варианта использования, который вычисляет статистику чата.
type StatsComputer interface {
	ComputeStats(ctx context.Context, chatID string, opts usecase.StatsOptions) (*domain.AggregateResult, error)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	catalog    ports.ChatCatalog
	computer   StatsComputer
	taskStore  *TaskStore
	cacheStore *cache.CacheStore
	log        *slog.Logger
	stop       context.CancelFunc
}

// New создает новый экземпляр Server
func New(
	cfg *config.Config,
	catalog ports.ChatCatalog,
	computer StatsComputer,
	taskStore *TaskStore,
	cacheStore *cache.CacheStore,
	logger *slog.Logger,
) (*Server, error) {
	if cfg == nil || catalog == nil || computer == nil || taskStore == nil {
		return nil, errors.New("не заданы обязательные зависимости сервера")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:        cfg,
		catalog:    catalog,
		computer:   computer,
		taskStore:  taskStore,
		cacheStore: cacheStore,
		log:        logger,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	// Конечная точка для проверки работоспособности
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		r.Get("/chats", s.handleListChats)
		r.Post("/chats/{chatID}/stats", s.handleStartStats)
		r.Get("/tasks/{taskID}", s.handleTaskStatus)
		r.Get("/tasks/{taskID}/result", s.handleTaskResult)
	})

	s.HTTPServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  orDefault(cfg.Server.ReadTimeout, config.DefaultReadTimeout),
		WriteTimeout: orDefault(cfg.Server.WriteTimeout, config.DefaultWriteTimeout),
		IdleTimeout:  orDefault(cfg.Server.IdleTimeout, config.DefaultIdleTimeout),
	}

	// Тикеры очистки останавливаются в Shutdown
	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	interval := orDefault(cfg.Server.CleanupInterval, config.DefaultCleanupInterval)
	s.taskStore.StartCleanupTicker(ctx, interval)
	if s.cacheStore != nil {
		s.cacheStore.StartCleanupTicker(ctx, interval)
	}

	return s, nil
}

// handleListChats возвращает каталог чатов
func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.catalog.ListChats(r.Context())
	if err != nil {
		s.log.Error("Не удалось построить каталог чатов", "error", err)
		writeError(w, err)
		return
	}
	if chats == nil {
		chats = []domain.ChatSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// handleStartStats запускает вычисление статистики в фоне и возвращает идентификатор задачи
func (s *Server) handleStartStats(w http.ResponseWriter, r *http.Request) {
	chatID, err := url.PathUnescape(chi.URLParam(r, "chatID"))
	if err != nil || chatID == "" {
		http.Error(w, "Некорректный идентификатор чата", http.StatusBadRequest)
		return
	}

	var opts usecase.StatsOptions
	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n <= 0 {
			http.Error(w, "Параметр top должен быть положительным целым числом", http.StatusBadRequest)
			return
		}
		opts.TopWords = n
	}

	// Генерация уникального идентификатора задачи
	taskID := uuid.NewString()
	s.taskStore.CreateTask(taskID, chatID, taskTTL)

	go s.runTask(taskID, chatID, opts)

	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

// runTask выполняет вычисление с таймаутом из конфигурации
func (s *Server) runTask(taskID, chatID string, opts usecase.StatsOptions) {
	s.taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

	taskCtx := context.Background()
	if s.cfg.Processing.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, s.cfg.Processing.TaskTimeout)
		defer cancel()
	}

	result, err := s.computer.ComputeStats(taskCtx, chatID, opts)
	if err != nil {
		s.log.Warn("Задача завершилась ошибкой", "task_id", taskID, "chat_id", chatID, "error_kind", domain.ErrorKind(err), "error", err)
		s.taskStore.UpdateTaskError(taskID, err)
		return
	}

	s.taskStore.UpdateTaskResult(taskID, result)
	s.log.Info("Задача выполнена", "task_id", taskID, "chat_id", chatID)
}

// handleTaskStatus возвращает статус задачи
func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, err := s.taskStore.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id":       task.ID,
		"chat_id":       task.ChatID,
		"status":        task.Status,
		"error_kind":    task.ErrorKind,
		"error_message": task.ErrorMessage,
	})
}

// handleTaskResult возвращает итоговую статистику завершенной задачи
func (s *Server) handleTaskResult(w http.ResponseWriter, r *http.Request) {
	task, err := s.taskStore.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	if task.Status != TaskStatusCompleted {
		http.Error(w, "Задача не завершена", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, task.Result)
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Shutdown корректно завершает работу HTTP-сервера и останавливает тикеры очистки
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Завершение работы HTTP-сервера")
	s.stop()
	return s.HTTPServer.Shutdown(ctx)
}

// writeError отвечает JSON-ошибкой со статусом, соответствующим виду ошибки
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := domain.ErrorKind(err)
	switch kind {
	case "not_found":
		status = http.StatusNotFound
	case "malformed_export", "empty_chat", "insufficient_data":
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{
		"error_kind":    kind,
		"error_message": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
