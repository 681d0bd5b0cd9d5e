package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// PathMaskerHandler - обертка для slog.Handler, которая заменяет домашний каталог
// пользователя на "~" в сообщениях и атрибутах. Экспорты чатов обычно лежат
// в личных папках, и имя пользователя не должно попадать в логи.
type PathMaskerHandler struct {
	handler slog.Handler
	home    string
}

// NewPathMaskerHandler создает новый обработчик с маскировкой домашнего каталога.
// Если home пустой, используется os.UserHomeDir.
func NewPathMaskerHandler(handler slog.Handler, home string) *PathMaskerHandler {
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	home = strings.TrimRight(filepath.Clean(home), string(filepath.Separator))
	if home == "." {
		home = ""
	}
	return &PathMaskerHandler{
		handler: handler,
		home:    home,
	}
}

// maskPaths заменяет домашний каталог на "~"
func (h *PathMaskerHandler) maskPaths(text string) string {
	if h.home == "" {
		return text
	}
	return strings.ReplaceAll(text, h.home, "~")
}

// Enabled реализует интерфейс slog.Handler
func (h *PathMaskerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle реализует интерфейс slog.Handler
func (h *PathMaskerHandler) Handle(ctx context.Context, record slog.Record) error {
	// Новая запись вместо Clone(): атрибуты добавляются заново уже маскированными.
	r := slog.NewRecord(record.Time, record.Level, h.maskPaths(record.Message), record.PC)

	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(slog.Attr{
			Key:   a.Key,
			Value: h.maskAttributeValue(a.Value),
		})
		return true
	})

	return h.handler.Handle(ctx, r)
}

// WithAttrs реализует интерфейс slog.Handler
func (h *PathMaskerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		maskedAttrs[i] = slog.Attr{
			Key:   attr.Key,
			Value: h.maskAttributeValue(attr.Value),
		}
	}
	return &PathMaskerHandler{
		handler: h.handler.WithAttrs(maskedAttrs),
		home:    h.home,
	}
}

// WithGroup реализует интерфейс slog.Handler
func (h *PathMaskerHandler) WithGroup(name string) slog.Handler {
	return &PathMaskerHandler{
		handler: h.handler.WithGroup(name),
		home:    h.home,
	}
}

// maskAttributeValue рекурсивно маскирует значения атрибутов
func (h *PathMaskerHandler) maskAttributeValue(value slog.Value) slog.Value {
	switch value.Kind() {
	case slog.KindString:
		return slog.StringValue(h.maskPaths(value.String()))
	case slog.KindAny:
		// Ошибки файловой системы содержат полный путь
		if err, ok := value.Any().(error); ok {
			return slog.StringValue(h.maskPaths(err.Error()))
		}
		return value
	case slog.KindGroup:
		group := value.Group()
		maskedGroup := make([]slog.Attr, len(group))
		for i, attr := range group {
			maskedGroup[i] = slog.Attr{
				Key:   attr.Key,
				Value: h.maskAttributeValue(attr.Value),
			}
		}
		return slog.GroupValue(maskedGroup...)
	default:
		return value
	}
}

// ParseLevel преобразует строковый уровень из конфигурации в slog.Level.
// Неизвестные значения дают уровень info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger создает текстовый логгер с маскировкой домашнего каталога
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(NewPathMaskerHandler(handler, ""))
}
