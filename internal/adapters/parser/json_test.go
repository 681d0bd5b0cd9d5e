package parser

import (
	"testing"
)

func TestJsonParser(t *testing.T) {
	t.Run("NewJsonParser создает корректный экземпляр", func(t *testing.T) {
		parser := NewJsonParser()
		if parser == nil {
			t.Error("Ожидался экземпляр JsonParser, получен nil")
		}
	})

	t.Run("Разбор корректного JSON", func(t *testing.T) {
		parser := &JsonParser{}
		testData := `{
			"title": "Test Chat",
			"thread_path": "inbox/testchat_123",
			"participants": [{"name": "Alice"}, {"name": "Bob"}],
			"messages": [
				{
					"sender_name": "Alice",
					"timestamp_ms": 1704067200000,
					"content": "Hello, World!",
					"type": "Generic"
				}
			]
		}`

		chat, err := parser.Parse([]byte(testData))
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		if chat.Title != "Test Chat" {
			t.Errorf("Ожидалось название 'Test Chat', получено '%s'", chat.Title)
		}

		if chat.ThreadPath != "inbox/testchat_123" {
			t.Errorf("Ожидался путь 'inbox/testchat_123', получено '%s'", chat.ThreadPath)
		}

		if len(chat.Participants) != 2 {
			t.Errorf("Ожидалось 2 участника, получено %d", len(chat.Participants))
		}

		if len(chat.Messages) != 1 {
			t.Fatalf("Ожидалось 1 сообщение, получено %d", len(chat.Messages))
		}

		if chat.Messages[0].TypeTag() != "Generic" {
			t.Errorf("Ожидался тип 'Generic', получено '%s'", chat.Messages[0].TypeTag())
		}
	})

	t.Run("Неверный тип поля сообщения не ломает разбор файла", func(t *testing.T) {
		parser := &JsonParser{}
		testData := `{"messages": [{"sender_name": 42, "timestamp_ms": "soon", "content": ["a"]}]}`

		chat, err := parser.Parse([]byte(testData))
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		if string(chat.Messages[0].TimestampMS) != `"soon"` {
			t.Errorf("Ожидалась сырая метка времени '\"soon\"', получено '%s'", chat.Messages[0].TimestampMS)
		}
	})

	t.Run("Запись с полями неверного типа или не объект не ломает разбор файла", func(t *testing.T) {
		parser := &JsonParser{}
		testData := `{"messages": [
			{"sender_name": "Alice", "timestamp_ms": 1704067200000, "content": "hi"},
			{"sender_name": "Bob", "timestamp_ms": 1704067300000, "type": 5, "photos": {}, "files": "x"},
			5,
			null
		]}`

		chat, err := parser.Parse([]byte(testData))
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}
		if len(chat.Messages) != 4 {
			t.Fatalf("Ожидалось 4 записи, получено %d", len(chat.Messages))
		}
		if chat.Messages[1].NotObject || chat.Messages[1].TypeTag() != "" || chat.Messages[1].HasMedia() {
			t.Errorf("Ожидалась запись-объект без тега типа и без медиа, получено %+v", chat.Messages[1])
		}
		if !chat.Messages[2].NotObject || !chat.Messages[3].NotObject {
			t.Error("Ожидалось, что число и null помечены как не объект")
		}
	})

	t.Run("Разбор некорректного JSON возвращает ошибку", func(t *testing.T) {
		parser := &JsonParser{}
		invalidData := `{"title": "Test Chat", "invalid_json":}`

		chat, err := parser.Parse([]byte(invalidData))
		if err == nil {
			t.Error("Ожидалась ошибка для некорректного JSON, получено nil")
		}

		if chat != nil {
			t.Error("Ожидался nil чат для некорректного JSON, получен чат")
		}
	})

	t.Run("Разбор пустого JSON возвращает ошибку", func(t *testing.T) {
		parser := &JsonParser{}

		for _, data := range []string{``, `   `, `null`} {
			chat, err := parser.Parse([]byte(data))
			if err == nil {
				t.Errorf("Ожидалась ошибка для '%s', получено nil", data)
			}

			if chat != nil {
				t.Errorf("Ожидался nil чат для '%s', получен чат", data)
			}
		}
	})

	t.Run("Массив на верхнем уровне возвращает ошибку", func(t *testing.T) {
		parser := &JsonParser{}

		if _, err := parser.Parse([]byte(`[1, 2, 3]`)); err == nil {
			t.Error("Ожидалась ошибка для массива на верхнем уровне, получено nil")
		}
	})
}

func TestCountMessages(t *testing.T) {
	t.Run("Подсчет сообщений без полного разбора", func(t *testing.T) {
		data := `{
			"participants": [{"name": "Alice"}],
			"messages": [
				{"sender_name": "Alice", "timestamp_ms": 1, "content": "a", "reactions": [{"reaction": "x", "actor": "Bob"}]},
				{"sender_name": "Bob", "timestamp_ms": 2},
				{"anything": {"nested": [1, 2, {"deep": true}]}}
			],
			"title": "Friends"
		}`

		title, count, err := CountMessages([]byte(data))
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		if title != "Friends" {
			t.Errorf("Ожидалось название 'Friends', получено '%s'", title)
		}

		if count != 3 {
			t.Errorf("Ожидалось 3 сообщения, получено %d", count)
		}
	})

	t.Run("Файл без сообщений", func(t *testing.T) {
		_, count, err := CountMessages([]byte(`{"title": "Empty"}`))
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		if count != 0 {
			t.Errorf("Ожидалось 0 сообщений, получено %d", count)
		}
	})

	t.Run("Некорректный JSON возвращает ошибку", func(t *testing.T) {
		if _, _, err := CountMessages([]byte(`{"messages": [1, 2`)); err == nil {
			t.Error("Ожидалась ошибка для некорректного JSON, получено nil")
		}
	})
}
