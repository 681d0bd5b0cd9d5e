package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"messenger-chat-stats/internal/core/stats"
	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// DefaultTopReactions - размер списка популярных символов реакций.
const DefaultTopReactions = 10

// AggregationOptions задает параметры движка агрегации.
type AggregationOptions struct {
	TopWords      int
	MinWordLength int
	TopReactions  int
	StopWords     stats.StopWords
	Location      *time.Location
	// Parallel включает вычисление статистик в отдельных горутинах.
	Parallel bool
}

// AggregationService вычисляет все статистики по нормализованной последовательности.
type AggregationService struct {
	opts AggregationOptions
	log  *slog.Logger
}

// NewAggregationService создает новый экземпляр AggregationService.
// Незаданные параметры заменяются значениями по умолчанию.
func NewAggregationService(opts AggregationOptions, logger *slog.Logger) *AggregationService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopWords <= 0 {
		opts.TopWords = stats.DefaultTopWords
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = stats.DefaultMinWordLength
	}
	if opts.TopReactions <= 0 {
		opts.TopReactions = DefaultTopReactions
	}
	if opts.StopWords == nil {
		opts.StopWords = stats.DefaultStopWords()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &AggregationService{opts: opts, log: logger}
}

var _ ports.Aggregator = (*AggregationService)(nil)

// WithTopWords возвращает копию сервиса с другим размером списка слов.
func (s *AggregationService) WithTopWords(n int) *AggregationService {
	if n <= 0 || n == s.opts.TopWords {
		return s
	}
	opts := s.opts
	opts.TopWords = n
	return &AggregationService{opts: opts, log: s.log}
}

// Options возвращает действующие параметры.
func (s *AggregationService) Options() AggregationOptions {
	return s.opts
}

// Aggregate запускает каждую статистику как независимую задачу и ждет завершения всех.
// Ошибка любой задачи отменяет остальные, частичный результат не возвращается.
func (s *AggregationService) Aggregate(ctx context.Context, messages []domain.Message) (*domain.Statistics, error) {
	loc := s.opts.Location
	result := &domain.Statistics{Timezone: loc.String()}

	// Каждая задача пишет только в свои поля result.
	tasks := []func() error{
		func() error {
			totals, err := stats.Totals(messages, loc)
			if err != nil {
				return err
			}
			result.TotalMessages = totals.Messages
			result.TotalWords = totals.Words
			result.TotalReactions = totals.Reactions
			result.SpanDays = totals.SpanDays
			result.FirstMessageAt = totals.First.In(loc).Format(time.RFC3339)
			result.LastMessageAt = totals.Last.In(loc).Format(time.RFC3339)
			result.KindCounts = totals.KindCounts
			return nil
		},
		func() (err error) {
			result.Participants, err = stats.ParticipantCounts(messages)
			return err
		},
		func() (err error) {
			result.TopWords, err = stats.WordFrequencies(messages, stats.WordOptions{
				TopN:      s.opts.TopWords,
				MinLength: s.opts.MinWordLength,
				StopWords: s.opts.StopWords,
			})
			return err
		},
		func() error {
			received, err := stats.ReactionsReceived(messages)
			if err != nil {
				return err
			}
			given, err := stats.ReactionsGiven(messages)
			if err != nil {
				return err
			}
			symbols, err := stats.TopReactionSymbols(messages, s.opts.TopReactions)
			if err != nil {
				return err
			}
			bySymbol, err := stats.ReactionsBySymbol(messages, s.opts.TopReactions)
			if err != nil {
				return err
			}
			result.ReactionsReceived, result.ReactionsGiven = received, given
			result.TopReactions, result.ReactionsBySymbol = symbols, bySymbol
			return nil
		},
		func() error {
			daily, err := stats.DailyActivity(messages, loc)
			if err != nil {
				return err
			}
			hourly, err := stats.HourlyActivity(messages, loc)
			if err != nil {
				return err
			}
			streak, err := stats.LongestStreak(messages, loc)
			if err != nil {
				return err
			}
			result.Daily, result.Hourly, result.Streak = daily, hourly, streak
			return nil
		},
		func() (err error) {
			result.Profiles, err = stats.ParticipantProfiles(messages)
			return err
		},
	}

	start := time.Now()
	if s.opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, task := range tasks {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return task()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := task(); err != nil {
				return nil, err
			}
		}
	}

	s.log.Debug("Статистика вычислена",
		"message_count", result.TotalMessages,
		"parallel", s.opts.Parallel,
		"duration", time.Since(start),
	)
	return result, nil
}
