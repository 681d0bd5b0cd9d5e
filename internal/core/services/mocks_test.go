package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messenger-chat-stats/internal/domain"
)

// mockChatSource - мок-реализация ports.ChatSource для тестирования
type mockChatSource struct{ mock.Mock }

func (m *mockChatSource) Fetch(ctx context.Context, chatID string) ([]domain.ExportFile, error) {
	args := m.Called(ctx, chatID)
	if res := args.Get(0); res != nil {
		return res.([]domain.ExportFile), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockParser - мок-реализация ports.Parser для тестирования
type mockParser struct{ mock.Mock }

func (m *mockParser) Parse(data []byte) (*domain.RawExport, error) {
	args := m.Called(data)
	if res := args.Get(0); res != nil {
		return res.(*domain.RawExport), args.Error(1)
	}
	return nil, args.Error(1)
}
