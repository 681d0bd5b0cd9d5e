package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// ExportFile представляет один файл экспорта чата (например, message_3.json).
type ExportFile struct {
	Name string
	Data []byte
}

// RawExport представляет корневую структуру файла экспорта.
type RawExport struct {
	Title        string           `json:"title"`
	ThreadPath   string           `json:"thread_path"`
	Participants []RawParticipant `json:"participants"`
	Messages     []RawMessage     `json:"messages"`
}

// RawParticipant представляет участника из списка participants файла экспорта.
type RawParticipant struct {
	Name string `json:"name"`
}

// RawMessage представляет одно сообщение в том виде, в котором оно лежит в файле.
// Все поля хранятся как json.RawMessage: ошибка типа в одной записи не должна ломать
// разбор всего файла, она проверяется нормализатором.
type RawMessage struct {
	SenderName  json.RawMessage `json:"sender_name"`
	TimestampMS json.RawMessage `json:"timestamp_ms"`
	Content     json.RawMessage `json:"content"`
	Type        json.RawMessage `json:"type"`
	Reactions   json.RawMessage `json:"reactions"`
	Photos      json.RawMessage `json:"photos"`
	Videos      json.RawMessage `json:"videos"`
	Gifs        json.RawMessage `json:"gifs"`
	AudioFiles  json.RawMessage `json:"audio_files"`
	Files       json.RawMessage `json:"files"`
	Sticker     json.RawMessage `json:"sticker"`
	Share       json.RawMessage `json:"share"`

	// NotObject - элемент массива messages не является объектом.
	NotObject bool `json:"-"`
}

// rawMessageFields повторяет RawMessage без метода UnmarshalJSON.
type rawMessageFields RawMessage

// UnmarshalJSON не возвращает ошибку для синтаксически корректного элемента:
// элемент, не являющийся объектом, помечается NotObject.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	*m = RawMessage{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		m.NotObject = true
		return nil
	}
	return json.Unmarshal(trimmed, (*rawMessageFields)(m))
}

// TypeTag возвращает тег типа записи или пустую строку, если тег не строка.
func (m RawMessage) TypeTag() string {
	var tag string
	if err := json.Unmarshal(m.Type, &tag); err != nil {
		return ""
	}
	return tag
}

// HasMedia сообщает, прикреплены ли к сообщению медиафайлы.
// Вложение учитывается, только если поле - непустой массив или объект.
func (m RawMessage) HasMedia() bool {
	for _, field := range []json.RawMessage{m.Photos, m.Videos, m.Gifs, m.AudioFiles, m.Files, m.Sticker} {
		if hasItems(field) {
			return true
		}
	}
	return false
}

func hasItems(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		return json.Unmarshal(trimmed, &items) == nil && len(items) > 0
	case '{':
		var fields map[string]json.RawMessage
		return json.Unmarshal(trimmed, &fields) == nil && len(fields) > 0
	default:
		return false
	}
}

// RawReaction представляет одну реакцию в файле экспорта.
type RawReaction struct {
	Reaction string `json:"reaction"`
	Actor    string `json:"actor"`
}

// LoadedChat - результат загрузки всех частей одного чата.
// Сообщения идут в порядке частей, то есть так, как они лежат в файлах.
type LoadedChat struct {
	ChatID       string
	Title        string
	Files        []string
	Participants []string
	Messages     []RawMessage
}

// MessageKind - вид сообщения после нормализации.
type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindMedia MessageKind = "media"
	MessageKindOther MessageKind = "other"
)

// Reaction - реакция участника на сообщение.
type Reaction struct {
	Reactor string `json:"reactor"`
	Symbol  string `json:"symbol"`
}

// Message - каноническое сообщение.
// Это наша внутренняя модель, а не структура из JSON.
type Message struct {
	Sender    string      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Body      string      `json:"body,omitempty"`
	Reactions []Reaction  `json:"reactions,omitempty"`
	Kind      MessageKind `json:"kind"`
}

// ChatSummary описывает чат в каталоге без полной нормализации.
type ChatSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	MessageCount int      `json:"message_count"`
	Files        []string `json:"files"`
}
