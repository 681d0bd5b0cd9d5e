package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// JSONExporter выводит статистику как JSON с отступами.
// Порядок полей и элементов фиксирован, поэтому вывод пригоден для снимочных тестов.
type JSONExporter struct {
	out io.Writer
}

// NewJSONExporter создает новый экземпляр JSONExporter.
func NewJSONExporter(out io.Writer) ports.Exporter {
	if out == nil {
		out = os.Stdout
	}
	return &JSONExporter{out: out}
}

// Export сериализует результат.
func (e *JSONExporter) Export(result *domain.AggregateResult) error {
	if result == nil {
		return fmt.Errorf("нет данных для вывода")
	}
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
