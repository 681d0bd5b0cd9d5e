package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"messenger-chat-stats/internal/cache"
	"messenger-chat-stats/internal/core/services"
	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// ChatFiles перечисляет файлы чата на диске для вычисления подписи кэша.
type ChatFiles interface {
	Root() string
	Files(chatID string) ([]string, error)
}

// StatsOptions - параметры одного запроса статистики.
type StatsOptions struct {
	// TopWords переопределяет размер списка слов; 0 - значение из конфигурации.
	TopWords int
}

// ComputeStatsUseCase инкапсулирует полный прогон конвейера для одного чата:
// загрузка, нормализация, агрегация и сборка результата. Результат пересчитывается
// при каждом запросе, кэш хоста отдает готовый ответ, только если файлы чата не менялись.
type ComputeStatsUseCase struct {
	files      ChatFiles
	loader     ports.Loader
	normalizer ports.Normalizer
	aggregator *services.AggregationService
	assembler  ports.Assembler
	cacheStore *cache.CacheStore
	cacheTTL   time.Duration
	log        *slog.Logger
}

// NewComputeStatsUseCase создает новый экземпляр ComputeStatsUseCase.
// Если files или cacheStore равны nil, кэширование отключено.
func NewComputeStatsUseCase(
	files ChatFiles,
	loader ports.Loader,
	normalizer ports.Normalizer,
	aggregator *services.AggregationService,
	assembler ports.Assembler,
	cacheStore *cache.CacheStore,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *ComputeStatsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComputeStatsUseCase{
		files:      files,
		loader:     loader,
		normalizer: normalizer,
		aggregator: aggregator,
		assembler:  assembler,
		cacheStore: cacheStore,
		cacheTTL:   cacheTTL,
		log:        logger,
	}
}

// ComputeStats возвращает статистику чата. Ошибки относятся к таксономии domain
// и не оборачиваются, чтобы хост мог определить их вид.
// Каждый вызов получает собственную копию результата, кэш остается неизменным.
func (uc *ComputeStatsUseCase) ComputeStats(ctx context.Context, chatID string, opts StatsOptions) (*domain.AggregateResult, error) {
	aggregator := uc.aggregator.WithTopWords(opts.TopWords)

	cacheKey := uc.cacheKey(chatID, aggregator.Options())
	if cacheKey != "" {
		if cachedItem, found := uc.cacheStore.Get(cacheKey); found {
			uc.log.Info("Попадание в кеш для чата", "chat_id", chatID, "hash", cacheKey)
			return cachedItem.Data.Clone(), nil
		}
	}

	chat, err := uc.loader.Load(ctx, chatID)
	if err != nil {
		return nil, err
	}

	messages, report, err := uc.normalizer.Normalize(chat)
	if err != nil {
		return nil, err
	}
	if report.Skipped > 0 || report.Filtered > 0 {
		uc.log.Info("Часть записей не вошла в статистику",
			"chat_id", chatID,
			"skipped", report.Skipped,
			"filtered", report.Filtered,
		)
	}

	st, err := aggregator.Aggregate(ctx, messages)
	if err != nil {
		return nil, err
	}

	result := uc.assembler.Assemble(chat, report, st)

	if cacheKey != "" {
		uc.cacheStore.Put(cacheKey, result.Clone(), uc.cacheTTL)
		uc.log.Info("Результат кеширован для чата", "chat_id", chatID, "hash", cacheKey, "ttl", uc.cacheTTL.String())
	}

	uc.log.Info("Статистика успешно вычислена", "chat_id", chatID, "message_count", result.TotalMessages)
	return result, nil
}

// cacheKey строит ключ из подписи файлов и параметров, влияющих на результат.
// Пустая строка означает, что результат не кэшируется.
func (uc *ComputeStatsUseCase) cacheKey(chatID string, opts services.AggregationOptions) string {
	if uc.files == nil || uc.cacheStore == nil || uc.cacheTTL <= 0 {
		return ""
	}
	files, err := uc.files.Files(chatID)
	if err != nil {
		// Ошибку вернет загрузчик
		return ""
	}
	sig, err := cache.Signature(uc.files.Root(), chatID, files)
	if err != nil {
		uc.log.Debug("Не удалось вычислить подпись чата", "chat_id", chatID, "error", err)
		return ""
	}
	return cache.CalculateHashFromString(fmt.Sprintf("%s|%d|%d|%d|%s",
		sig, opts.TopWords, opts.MinWordLength, opts.TopReactions, opts.Location))
}
