package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trip-impact-service/internal/domain"
	apperrors "github.com/trip-impact-service/internal/pkg/errors"
	"github.com/trip-impact-service/internal/usecase"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *domain.TripIntent
		wantErr  bool
	}{
		{
			name: "plain json",
			raw:  `{"origin": "Cairo Festival City", "destination": "AUC", "mode": "Drive", "purpose": "Work"}`,
			expected: &domain.TripIntent{
				Origin: "Cairo Festival City", Destination: "AUC",
				Mode: domain.TravelModeDrive, Purpose: domain.TripPurposeWork,
			},
		},
		{
			name: "fenced with prose and lower case values",
			raw:  "Sure!\n```json\n{\"origin\": \" Home \", \"destination\": \"Gym\", \"mode\": \"bike\", \"purpose\": \"recreation\"}\n```",
			expected: &domain.TripIntent{
				Origin: "Home", Destination: "Gym",
				Mode: domain.TravelModeBike, Purpose: domain.TripPurposeRecreation,
			},
		},
		{
			name: "missing mode and purpose fall back to defaults",
			raw:  `The answer is {"origin": "A", "destination": "B"} hope it helps`,
			expected: &domain.TripIntent{
				Origin: "A", Destination: "B",
				Mode: domain.TravelModeDrive, Purpose: domain.TripPurposeWork,
			},
		},
		{name: "no json", raw: "I cannot help with that", wantErr: true},
		{name: "unknown mode", raw: `{"origin": "A", "destination": "B", "mode": "Teleport"}`, wantErr: true},
		{name: "empty destination", raw: `{"origin": "A", "destination": "", "mode": "Walk"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := usecase.ParseIntent(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, intent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, intent)
		})
	}
}

func TestIntentUseCase_Extract(t *testing.T) {
	ctx := context.Background()

	t.Run("prompt embeds the sentence", func(t *testing.T) {
		oracle := &MockLanguageModel{}
		oracle.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
			return assert.Contains(t, prompt, `"walk from home to the park"`)
		})).Return(`{"origin":"home","destination":"the park","mode":"Walk","purpose":"Recreation"}`, nil)

		uc := usecase.NewIntentUseCase(oracle, zap.NewNop())
		intent, err := uc.Extract(ctx, "  walk from home to the park ")

		require.NoError(t, err)
		assert.Equal(t, domain.TravelModeWalk, intent.Mode)
		oracle.AssertExpectations(t)
	})

	t.Run("empty input never reaches the oracle", func(t *testing.T) {
		oracle := &MockLanguageModel{}
		uc := usecase.NewIntentUseCase(oracle, zap.NewNop())

		_, err := uc.Extract(ctx, "   ")

		assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))
		oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("oracle failure is an extraction error", func(t *testing.T) {
		oracle := &MockLanguageModel{}
		oracle.On("Complete", ctx, mock.Anything).Return("", errors.New("quota exceeded"))
		uc := usecase.NewIntentUseCase(oracle, zap.NewNop())

		_, err := uc.Extract(ctx, "drive to work")

		assert.True(t, errors.Is(err, apperrors.ErrExtraction))
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("unparseable answer is an extraction error", func(t *testing.T) {
		oracle := &MockLanguageModel{}
		oracle.On("Complete", ctx, mock.Anything).Return("origin: home", nil)
		uc := usecase.NewIntentUseCase(oracle, zap.NewNop())

		_, err := uc.Extract(ctx, "drive to work")

		assert.True(t, errors.Is(err, apperrors.ErrExtraction))
	})
}
