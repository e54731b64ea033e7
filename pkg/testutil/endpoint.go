package testutil

import (
	"context"
	"errors"

	"github.com/chore-quest/backend/pkg/api/gemini"
)

type MockGeminiEndpoint struct {
	GenerateBossFunc func(ctx context.Context, description string) (gemini.Boss, string, error)
}

func (m *MockGeminiEndpoint) GenerateBoss(
	ctx context.Context, description string,
) (gemini.Boss, string, error) {
	if m.GenerateBossFunc != nil {
		return m.GenerateBossFunc(ctx, description)
	}

	return gemini.Boss{}, "", errors.New("no generator configured")
}
