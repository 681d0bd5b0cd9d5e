package ports

import (
	"context"
	"messenger-chat-stats/internal/domain"
)

// ChatSource определяет интерфейс для получения файлов экспорта одного чата.
type ChatSource interface {
	// Fetch возвращает файлы чата в порядке частей экспорта.
	Fetch(ctx context.Context, chatID string) ([]domain.ExportFile, error)
}

// Parser определяет интерфейс для парсинга данных чата.
type Parser interface {
	// Parse преобразует сырые данные в структуру файла экспорта.
	Parse(data []byte) (*domain.RawExport, error)
}

// ChatCatalog перечисляет доступные чаты с быстрым подсчетом сообщений.
type ChatCatalog interface {
	ListChats(ctx context.Context) ([]domain.ChatSummary, error)
}

// Loader загружает все части чата в одну последовательность сырых сообщений.
type Loader interface {
	Load(ctx context.Context, chatID string) (*domain.LoadedChat, error)
}

// Normalizer проверяет сырые записи и приводит их к канонической схеме.
type Normalizer interface {
	Normalize(chat *domain.LoadedChat) ([]domain.Message, domain.NormalizationReport, error)
}

// Aggregator вычисляет статистику по нормализованной последовательности.
type Aggregator interface {
	Aggregate(ctx context.Context, messages []domain.Message) (*domain.Statistics, error)
}

// Assembler упаковывает результаты агрегации в итоговую структуру.
type Assembler interface {
	Assemble(chat *domain.LoadedChat, report domain.NormalizationReport, stats *domain.Statistics) *domain.AggregateResult
}

// Exporter определяет интерфейс для вывода результата.
type Exporter interface {
	// Export принимает итоговую статистику и выводит ее.
	Export(result *domain.AggregateResult) error
}

// DataSource определяет интерфейс для получения содержимого одного файла.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}
