package source

import (
	"context"
	"fmt"
	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// MemorySource реализует интерфейс ChatSource для данных, переданных хостом в памяти.
type MemorySource struct {
	chats map[string][]domain.ExportFile
}

// NewMemorySource создает новый экземпляр MemorySource.
func NewMemorySource(chats map[string][]domain.ExportFile) ports.ChatSource {
	return &MemorySource{chats: chats}
}

// Fetch возвращает копии файлов чата, упорядоченные по номеру части.
func (s *MemorySource) Fetch(ctx context.Context, chatID string) ([]domain.ExportFile, error) {
	if s.chats == nil {
		return nil, fmt.Errorf("данные не установлены")
	}

	files, ok := s.chats[chatID]
	if !ok || len(files) == 0 {
		return nil, &domain.NotFoundError{Path: chatID}
	}

	names := make([]string, len(files))
	byName := make(map[string]domain.ExportFile, len(files))
	for i, f := range files {
		names[i] = f.Name
		byName[f.Name] = f
	}
	SortParts(names)

	result := make([]domain.ExportFile, 0, len(files))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Возвращаем копию данных, чтобы избежать изменений оригинальных данных
		f := byName[name]
		dataCopy := make([]byte, len(f.Data))
		copy(dataCopy, f.Data)
		result = append(result, domain.ExportFile{Name: f.Name, Data: dataCopy})
	}

	return result, nil
}

