package services

import (
	"context"
	"log/slog"
	"strings"

	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/pkg/mojibake"
	"messenger-chat-stats/internal/ports"
)

// LoaderService собирает все части экспорта одного чата в одну последовательность.
type LoaderService struct {
	source ports.ChatSource
	parser ports.Parser
	log    *slog.Logger
}

// NewLoaderService создает новый экземпляр LoaderService.
func NewLoaderService(source ports.ChatSource, parser ports.Parser, logger *slog.Logger) *LoaderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoaderService{source: source, parser: parser, log: logger}
}

var _ ports.Loader = (*LoaderService)(nil)

// Load читает файлы чата в порядке частей и объединяет их сообщения.
// Любой файл, который не разбирается как JSON, прерывает загрузку с MalformedExportError.
func (s *LoaderService) Load(ctx context.Context, chatID string) (*domain.LoadedChat, error) {
	files, err := s.source.Fetch(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &domain.NotFoundError{Path: chatID, Reason: "no export files"}
	}

	chat := &domain.LoadedChat{ChatID: chatID}
	seenParticipants := make(map[string]bool)

	for _, file := range files {
		export, err := s.parser.Parse(file.Data)
		if err != nil {
			return nil, &domain.MalformedExportError{ChatID: chatID, File: file.Name, Err: err}
		}
		s.log.Debug("Разобрана часть экспорта", "chat_id", chatID, "file", file.Name, "message_count", len(export.Messages))

		if chat.Title == "" {
			chat.Title = strings.TrimSpace(mojibake.Fix(export.Title))
		}
		for _, p := range export.Participants {
			name := strings.TrimSpace(mojibake.Fix(p.Name))
			if name == "" || seenParticipants[name] {
				continue
			}
			seenParticipants[name] = true
			chat.Participants = append(chat.Participants, name)
		}

		chat.Files = append(chat.Files, file.Name)
		chat.Messages = append(chat.Messages, export.Messages...)
	}

	if chat.Title == "" {
		chat.Title = chatID
	}

	s.log.Info("Чат загружен", "chat_id", chatID, "files", len(chat.Files), "message_count", len(chat.Messages))
	return chat, nil
}
