package usecase

import (
	"fmt"
	"log/slog"

	"messenger-chat-stats/internal/adapters/parser"
	"messenger-chat-stats/internal/adapters/source"
	"messenger-chat-stats/internal/cache"
	"messenger-chat-stats/internal/core/services"
	"messenger-chat-stats/internal/core/stats"
	"messenger-chat-stats/internal/pkg/config"
)

// AggregationOptionsFromConfig переводит секцию stats конфигурации в параметры агрегации.
func AggregationOptionsFromConfig(cfg *config.Config) (services.AggregationOptions, error) {
	loc, err := cfg.Location()
	if err != nil {
		return services.AggregationOptions{}, err
	}
	extra, err := cfg.StopWordList()
	if err != nil {
		return services.AggregationOptions{}, err
	}

	return services.AggregationOptions{
		TopWords:      cfg.Stats.TopWords,
		MinWordLength: cfg.Stats.MinWordLength,
		TopReactions:  cfg.Stats.TopReactions,
		StopWords:     stats.DefaultStopWords().With(extra...),
		Location:      loc,
		Parallel:      cfg.Stats.Parallel,
	}, nil
}

// NewFromConfig собирает конвейер для чатов из каталога cfg.Data.RootDir.
// cacheStore может быть nil, тогда результаты не кэшируются.
func NewFromConfig(cfg *config.Config, cacheStore *cache.CacheStore, logger *slog.Logger) (*ComputeStatsUseCase, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := AggregationOptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("не удалось подготовить параметры агрегации: %w", err)
	}

	dirSource := source.NewDirSource(cfg.Data.RootDir)
	loader := services.NewLoaderService(dirSource, parser.NewJsonParser(), logger)
	normalizer := services.NewNormalizationService(logger)
	aggregator := services.NewAggregationService(opts, logger)
	assembler := services.NewAssemblerService(cfg.Stats.AveragePrecision)

	return NewComputeStatsUseCase(
		dirSource,
		loader,
		normalizer,
		aggregator,
		assembler,
		cacheStore,
		cfg.Processing.CacheTTL,
		logger,
	), nil
}
