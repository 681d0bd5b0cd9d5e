package stats

import "messenger-chat-stats/internal/domain"

// ReactionsReceived считает реакции по автору сообщения, на которое отреагировали.
func ReactionsReceived(messages []domain.Message) ([]domain.ParticipantCount, error) {
	if err := requireMessages("reactions received", messages); err != nil {
		return nil, err
	}

	t := newTally()
	for _, msg := range messages {
		if len(msg.Reactions) > 0 {
			t.add(msg.Sender, len(msg.Reactions))
		}
	}
	return t.participantCounts(), nil
}

// ReactionsGiven считает реакции по их автору.
func ReactionsGiven(messages []domain.Message) ([]domain.ParticipantCount, error) {
	if err := requireMessages("reactions given", messages); err != nil {
		return nil, err
	}

	t := newTally()
	for _, msg := range messages {
		for _, r := range msg.Reactions {
			t.add(r.Reactor, 1)
		}
	}
	return t.participantCounts(), nil
}

// TopReactionSymbols возвращает самые частые символы реакций;
// при равенстве сохраняется порядок первого появления.
func TopReactionSymbols(messages []domain.Message, limit int) ([]domain.SymbolCount, error) {
	if err := requireMessages("reaction symbols", messages); err != nil {
		return nil, err
	}

	t := newTally()
	for _, msg := range messages {
		for _, r := range msg.Reactions {
			t.add(r.Symbol, 1)
		}
	}

	keys := t.ranked()
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	result := make([]domain.SymbolCount, len(keys))
	for i, k := range keys {
		result[i] = domain.SymbolCount{Symbol: k, Count: t.counts[k]}
	}
	return result, nil
}

// ReactionsBySymbol раскладывает каждый символ реакции по получателям и авторам.
// Символы идут по убыванию частоты, участники внутри символа - по убыванию счетчика;
// при равенстве сохраняется порядок первого появления. limit <= 0 - без ограничения.
func ReactionsBySymbol(messages []domain.Message, limit int) ([]domain.SymbolBreakdown, error) {
	if err := requireMessages("reactions by symbol", messages); err != nil {
		return nil, err
	}

	symbols := newTally()
	received := make(map[string]*tally)
	given := make(map[string]*tally)
	for _, msg := range messages {
		for _, r := range msg.Reactions {
			if received[r.Symbol] == nil {
				received[r.Symbol] = newTally()
				given[r.Symbol] = newTally()
			}
			symbols.add(r.Symbol, 1)
			received[r.Symbol].add(msg.Sender, 1)
			given[r.Symbol].add(r.Reactor, 1)
		}
	}

	keys := symbols.ranked()
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	result := make([]domain.SymbolBreakdown, len(keys))
	for i, k := range keys {
		result[i] = domain.SymbolBreakdown{
			Symbol:     k,
			Count:      symbols.counts[k],
			ReceivedBy: received[k].participantCounts(),
			GivenBy:    given[k].participantCounts(),
		}
	}
	return result, nil
}
