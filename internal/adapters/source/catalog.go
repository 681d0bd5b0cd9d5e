package source

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/xerrors"

	"messenger-chat-stats/internal/adapters/parser"
	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/pkg/mojibake"
)

// Catalog перечисляет чаты в корне экспорта.
// Сообщения не нормализуются: для сортировки достаточно быстрого подсчета элементов массива.
type Catalog struct {
	root string
	log  *slog.Logger
}

// NewCatalog создает новый каталог для корневой директории.
func NewCatalog(root string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{root: root, log: logger}
}

// ListChats возвращает чаты, отсортированные по количеству сообщений по убыванию,
// при равенстве - по названию. Папки без файлов экспорта или с битыми файлами пропускаются.
func (c *Catalog) ListChats(ctx context.Context) ([]domain.ChatSummary, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Path: c.root}
		}
		return nil, xerrors.Errorf("failed to read export root %s: %w", c.root, err)
	}

	var chats []domain.ChatSummary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, err := c.summarize(entry.Name())
		if err != nil {
			c.log.Debug("Папка пропущена при построении каталога", "chat_id", entry.Name(), "error", err)
			continue
		}
		chats = append(chats, *summary)
	}

	sort.SliceStable(chats, func(i, j int) bool {
		if chats[i].MessageCount != chats[j].MessageCount {
			return chats[i].MessageCount > chats[j].MessageCount
		}
		if chats[i].Title != chats[j].Title {
			return chats[i].Title < chats[j].Title
		}
		return chats[i].ID < chats[j].ID
	})

	c.log.Info("Каталог чатов построен", "root", c.root, "chat_count", len(chats))
	return chats, nil
}

func (c *Catalog) summarize(chatID string) (*domain.ChatSummary, error) {
	paths, err := ListExportFiles(filepath.Join(c.root, chatID))
	if err != nil {
		return nil, err
	}

	summary := &domain.ChatSummary{ID: chatID}
	for _, path := range paths {
		data, err := NewFileSource(path).Fetch()
		if err != nil {
			return nil, err
		}
		title, count, err := parser.CountMessages(data)
		if err != nil {
			return nil, xerrors.Errorf("%s: %w", filepath.Base(path), err)
		}
		if summary.Title == "" && title != "" {
			summary.Title = mojibake.Fix(title)
		}
		summary.MessageCount += count
		summary.Files = append(summary.Files, filepath.Base(path))
	}

	if summary.Title == "" {
		summary.Title = chatID
	}
	return summary, nil
}
