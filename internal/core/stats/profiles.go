package stats

import (
	"strings"
	"unicode"

	"messenger-chat-stats/internal/domain"
)

// ParticipantProfiles строит сводку по каждому участнику: сначала отправители
// в порядке рейтинга сообщений, затем участники, которые только реагировали.
// Проценты и доли не округляются: это делает сборщик результата.
func ParticipantProfiles(messages []domain.Message) ([]domain.ParticipantProfile, error) {
	if err := requireMessages("participant profiles", messages); err != nil {
		return nil, err
	}

	ranking, err := ParticipantCounts(messages)
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]*domain.ParticipantProfile)
	var order []string
	ensure := func(name string) *domain.ParticipantProfile {
		if p, ok := profiles[name]; ok {
			return p
		}
		p := &domain.ParticipantProfile{Name: name}
		profiles[name] = p
		order = append(order, name)
		return p
	}

	for _, p := range ranking {
		ensure(p.Name).MessagesSent = p.Count
	}

	for _, msg := range messages {
		sender := ensure(msg.Sender)
		for _, word := range strings.Fields(msg.Body) {
			sender.WordsSent++
			if IsShouted(word) {
				sender.WordsShouted++
			}
		}
		sender.ReactionsReceived += len(msg.Reactions)
		for _, r := range msg.Reactions {
			ensure(r.Reactor).ReactionsSent++
		}
	}

	result := make([]domain.ParticipantProfile, 0, len(order))
	for _, name := range order {
		p := profiles[name]
		if p.WordsSent > 0 {
			p.ShoutingPercentage = float64(p.WordsShouted) / float64(p.WordsSent) * 100
		}
		if total := p.ReactionsSent + p.ReactionsReceived; total > 0 {
			p.ReceivedShare = float64(p.ReactionsReceived) / float64(total)
		}
		result = append(result, *p)
	}
	return result, nil
}

// IsShouted сообщает, написано ли слово капслоком: не короче двух символов,
// есть хотя бы одна буква и нет строчных.
func IsShouted(word string) bool {
	if len([]rune(word)) < 2 {
		return false
	}
	hasUpper := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
