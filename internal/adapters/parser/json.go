package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// errEmptyDocument возвращается для пустого файла или литерала null.
var errEmptyDocument = errors.New("empty export document")

// JsonParser реализует интерфейс Parser для разбора JSON данных.
type JsonParser struct{}

// NewJsonParser создает новый экземпляр JsonParser.
func NewJsonParser() ports.Parser {
	return &JsonParser{}
}

// Parse преобразует срез байт с JSON в структуру RawExport.
// Поля отдельных сообщений не проверяются: это задача нормализатора.
func (p *JsonParser) Parse(data []byte) (*domain.RawExport, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errEmptyDocument
	}

	var export domain.RawExport
	if err := json.Unmarshal(trimmed, &export); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json: %w", err)
	}
	return &export, nil
}
