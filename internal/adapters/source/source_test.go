package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger-chat-stats/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestFileSource(t *testing.T) {
	t.Run("Fetch возвращает ошибку для пустого пути к файлу", func(t *testing.T) {
		data, err := NewFileSource("").Fetch()
		require.Error(t, err)
		assert.Nil(t, data)
		assert.Equal(t, "не указан путь к файлу", err.Error())
	})

	t.Run("Fetch возвращает NotFoundError для несуществующего файла", func(t *testing.T) {
		data, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Fetch()
		assert.Nil(t, data)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Fetch возвращает данные для существующего файла", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "message_1.json", `{"messages": []}`)

		data, err := NewFileSource(filepath.Join(dir, "message_1.json")).Fetch()
		require.NoError(t, err)
		assert.Equal(t, `{"messages": []}`, string(data))
	})
}

func TestSortParts(t *testing.T) {
	names := []string{"message_10.json", "message_2.json", "extra.json", "message_1.json", "message_11.json", "message_3.json"}
	SortParts(names)
	assert.Equal(t, []string{
		"message_1.json", "message_2.json", "message_3.json",
		"message_10.json", "message_11.json", "extra.json",
	}, names)
}

func TestDirSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Одиннадцать частей читаются в числовом порядке", func(t *testing.T) {
		root := t.TempDir()
		chatDir := filepath.Join(root, "friends_123")
		for i := 11; i >= 1; i-- {
			writeFile(t, chatDir, fmt.Sprintf("message_%d.json", i), fmt.Sprintf(`{"part": %d}`, i))
		}
		writeFile(t, chatDir, "notes.txt", "ignored")

		files, err := NewDirSource(root).Fetch(ctx, "friends_123")
		require.NoError(t, err)
		require.Len(t, files, 11)
		for i, f := range files {
			assert.Equal(t, fmt.Sprintf("message_%d.json", i+1), f.Name)
			assert.Equal(t, fmt.Sprintf(`{"part": %d}`, i+1), string(f.Data))
		}
	})

	t.Run("Несуществующий чат", func(t *testing.T) {
		_, err := NewDirSource(t.TempDir()).Fetch(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Папка без JSON-файлов", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "empty"), "readme.txt", "nothing here")

		_, err := NewDirSource(root).Fetch(ctx, "empty")
		var notFound *domain.NotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "no export files", notFound.Reason)
	})

	t.Run("Идентификатор с выходом за корень отклоняется", func(t *testing.T) {
		_, err := NewDirSource(t.TempDir()).Fetch(ctx, "../etc")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Путь указывает на файл, а не директорию", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "chat", "{}")

		_, err := NewDirSource(root).Fetch(ctx, "chat")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Отмененный контекст прерывает чтение", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "chat"), "message_1.json", "{}")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewDirSource(root).Fetch(cancelled, "chat")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemorySource(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetch возвращает части по порядку", func(t *testing.T) {
		src := NewMemorySource(map[string][]domain.ExportFile{
			"chat": {
				{Name: "message_10.json", Data: []byte("10")},
				{Name: "message_9.json", Data: []byte("9")},
			},
		})

		files, err := src.Fetch(ctx, "chat")
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "message_9.json", files[0].Name)
		assert.Equal(t, "message_10.json", files[1].Name)
	})

	t.Run("Fetch возвращает ошибку для nil данных", func(t *testing.T) {
		_, err := NewMemorySource(nil).Fetch(ctx, "chat")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "данные не установлены")
	})

	t.Run("Неизвестный чат", func(t *testing.T) {
		_, err := NewMemorySource(map[string][]domain.ExportFile{}).Fetch(ctx, "chat")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Fetch возвращает копию данных", func(t *testing.T) {
		original := []byte("test data")
		src := NewMemorySource(map[string][]domain.ExportFile{"chat": {{Name: "message_1.json", Data: original}}})

		files, err := src.Fetch(ctx, "chat")
		require.NoError(t, err)
		files[0].Data[0] = 'X'

		assert.Equal(t, []byte("test data"), original)
	})
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("Чаты сортируются по количеству сообщений", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "small"), "message_1.json",
			`{"title": "Small", "messages": [{"sender_name": "A"}]}`)
		writeFile(t, filepath.Join(root, "big"), "message_1.json",
			`{"title": "CafÃ©", "messages": [{"sender_name": "A"}, {"sender_name": "B"}]}`)
		writeFile(t, filepath.Join(root, "big"), "message_2.json",
			`{"title": "CafÃ©", "messages": [{"sender_name": "C"}]}`)
		writeFile(t, filepath.Join(root, "broken"), "message_1.json", `{"messages": [`)
		writeFile(t, filepath.Join(root, "nothing"), "readme.txt", "")
		writeFile(t, root, "stray.json", "{}")

		chats, err := NewCatalog(root, nil).ListChats(ctx)
		require.NoError(t, err)
		require.Len(t, chats, 2)

		assert.Equal(t, "big", chats[0].ID)
		assert.Equal(t, "Café", chats[0].Title)
		assert.Equal(t, 3, chats[0].MessageCount)
		assert.Equal(t, []string{"message_1.json", "message_2.json"}, chats[0].Files)

		assert.Equal(t, "small", chats[1].ID)
		assert.Equal(t, 1, chats[1].MessageCount)
	})

	t.Run("Чат без названия получает идентификатор папки", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "untitled"), "message_1.json", `{"messages": []}`)

		chats, err := NewCatalog(root, nil).ListChats(ctx)
		require.NoError(t, err)
		require.Len(t, chats, 1)
		assert.Equal(t, "untitled", chats[0].Title)
	})

	t.Run("Несуществующий корень", func(t *testing.T) {
		_, err := NewCatalog(filepath.Join(t.TempDir(), "missing"), nil).ListChats(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
