// Package stats содержит чистые функции статистики над нормализованными сообщениями.
// Каждая функция зависит только от входной последовательности и может выполняться
// параллельно с остальными.
package stats

import (
	"sort"

	"messenger-chat-stats/internal/domain"
)

// tally считает вхождения ключей и запоминает порядок их первого появления.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string, n int) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key] += n
}

func (t *tally) total() int {
	sum := 0
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// ranked возвращает ключи по убыванию счетчика; при равенстве сохраняется
// порядок первого появления.
func (t *tally) ranked() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.counts[keys[i]] > t.counts[keys[j]]
	})
	return keys
}

func (t *tally) participantCounts() []domain.ParticipantCount {
	keys := t.ranked()
	result := make([]domain.ParticipantCount, len(keys))
	for i, k := range keys {
		result[i] = domain.ParticipantCount{Name: k, Count: t.counts[k]}
	}
	return result
}

func requireMessages(statistic string, messages []domain.Message) error {
	if len(messages) == 0 {
		return &domain.InsufficientDataError{Statistic: statistic}
	}
	return nil
}
