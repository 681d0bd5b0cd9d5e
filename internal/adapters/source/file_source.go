package source

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/xerrors"

	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// FileSource реализует интерфейс DataSource для чтения одного файла экспорта.
type FileSource struct {
	filePath string
}

// NewFileSource создает новый экземпляр FileSource.
func NewFileSource(filePath string) ports.DataSource {
	return &FileSource{filePath: filePath}
}

// Fetch читает файл по указанному пути и возвращает его содержимое.
func (s *FileSource) Fetch() ([]byte, error) {
	if s.filePath == "" {
		return nil, xerrors.New("не указан путь к файлу")
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Path: s.filePath}
		}
		return nil, xerrors.Errorf("failed to read file %s: %w", s.filePath, err)
	}

	return data, nil
}
