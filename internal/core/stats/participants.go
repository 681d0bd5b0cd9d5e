package stats

import "messenger-chat-stats/internal/domain"

// ParticipantCounts возвращает количество сообщений по отправителям.
func ParticipantCounts(messages []domain.Message) ([]domain.ParticipantCount, error) {
	if err := requireMessages("participant counts", messages); err != nil {
		return nil, err
	}

	t := newTally()
	for _, msg := range messages {
		t.add(msg.Sender, 1)
	}
	return t.participantCounts(), nil
}
