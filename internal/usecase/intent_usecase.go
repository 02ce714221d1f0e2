package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"github.com/trip-impact-service/internal/pkg/jsonx"
	"github.com/trip-impact-service/internal/pkg/validator"
	"go.uber.org/zap"
)

const intentPromptTemplate = `
Extract the structured trip intent from this sentence:

"%s"

Return ONLY a valid JSON object with this format:
{
  "origin": "string",
  "destination": "string",
  "mode": "Drive" | "Walk" | "Bike",
  "purpose": "Work" | "Meal" | "Recreation"
}

No extra text.
`

// rawIntent - ответ модели до нормализации
type rawIntent struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
	Purpose     string `json:"purpose"`
}

// IntentUseCase превращает свободный текст в TripIntent через языковую модель
type IntentUseCase struct {
	oracle repository.LanguageModelRepository
	logger *zap.Logger
}

func NewIntentUseCase(oracle repository.LanguageModelRepository, logger *zap.Logger) *IntentUseCase {
	return &IntentUseCase{
		oracle: oracle,
		logger: logger,
	}
}

// Extract вызывает модель один раз, без повторов
func (uc *IntentUseCase) Extract(ctx context.Context, userInput string) (*domain.TripIntent, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"field": "user_input",
		})
	}

	raw, err := uc.oracle.Complete(ctx, fmt.Sprintf(intentPromptTemplate, userInput))
	if err != nil {
		uc.logger.Error("Language oracle call failed", zap.Error(err))
		return nil, errors.ErrExtraction.WithCause(err)
	}

	intent, err := ParseIntent(raw)
	if err != nil {
		uc.logger.Warn("Failed to parse oracle response",
			zap.String("raw_output", raw),
			zap.Error(err))
		return nil, errors.ErrExtraction.WithCause(err)
	}

	uc.logger.Info("Trip intent extracted",
		zap.String("origin", intent.Origin),
		zap.String("destination", intent.Destination),
		zap.String("mode", string(intent.Mode)),
		zap.String("purpose", string(intent.Purpose)))

	return intent, nil
}

// ParseIntent извлекает первый JSON-объект из ответа модели и нормализует его
func ParseIntent(raw string) (*domain.TripIntent, error) {
	var parsed rawIntent
	if err := jsonx.DecodeObject(raw, &parsed); err != nil {
		return nil, err
	}

	mode, err := domain.ParseTravelMode(parsed.Mode)
	if err != nil {
		return nil, err
	}
	purpose, err := domain.ParseTripPurpose(parsed.Purpose)
	if err != nil {
		return nil, err
	}

	intent := &domain.TripIntent{
		Origin:      strings.TrimSpace(parsed.Origin),
		Destination: strings.TrimSpace(parsed.Destination),
		Mode:        mode,
		Purpose:     purpose,
	}
	if err := validator.Validate(intent); err != nil {
		return nil, fmt.Errorf("invalid trip intent: %w", err)
	}

	return intent, nil
}
