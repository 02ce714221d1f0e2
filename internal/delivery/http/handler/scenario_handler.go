package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/pkg/errors"
	"github.com/trip-impact-service/internal/pkg/utils"
	"github.com/trip-impact-service/internal/pkg/validator"
	"github.com/trip-impact-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// Pipeline - прогоны generate и simulate-with-blocks
type Pipeline interface {
	Generate(ctx context.Context, userInput string) (*domain.GenerateResult, error)
	SimulateWithBlocks(ctx context.Context, req domain.ImpactRequest) (*domain.ImpactResult, error)
	Session(ctx context.Context, id uuid.UUID) (*domain.Session, error)
}

// ScenarioHandler - обработчик генерации сценариев и прогонов с перекрытиями
type ScenarioHandler struct {
	pipeline       Pipeline
	simulationWait time.Duration
	logger         *zap.Logger
}

// NewScenarioHandler - создание нового ScenarioHandler.
// simulationWait ограничивает ожидание занятого сервера симуляции, <= 0 - до отключения клиента
func NewScenarioHandler(pipeline Pipeline, simulationWait time.Duration, logger *zap.Logger) *ScenarioHandler {
	return &ScenarioHandler{
		pipeline:       pipeline,
		simulationWait: simulationWait,
		logger:         logger,
	}
}

// runContext - контекст ожидания сервера симуляции. Начатые стадии прогона он не отменяет
func (h *ScenarioHandler) runContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.simulationWait <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.simulationWait)
}

// Generate godoc
// @Summary Сгенерировать сценарий из описания поездки
// @Description Извлекает поездку из текста, геокодирует точки, компилирует сценарий, прогоняет симуляцию и возвращает использованные дороги
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param request body dto.GenerateScenarioRequest true "Описание поездки"
// @Success 200 {object} utils.SuccessResponse{data=dto.GenerateScenarioResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/scenarios/generate [post]
func (h *ScenarioHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateScenarioRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithCause(err))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	ctx, cancel := h.runContext(c)
	defer cancel()
	result, err := h.pipeline.Generate(ctx, req.UserInput)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewGenerateScenarioResponse(result), &utils.Meta{
		Total: len(result.Roads),
	})
}

// Simulate godoc
// @Summary Прогнать сценарий сессии с перекрытыми дорогами
// @Description Закрывает выбранные дороги, перезапускает симуляцию и возвращает метрики. Пустой список дорог - базовый прогон
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param request body dto.SimulateRequest true "Сессия и дороги"
// @Success 200 {object} utils.SuccessResponse{data=dto.SimulateResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/scenarios/simulate [post]
func (h *ScenarioHandler) Simulate(c *fiber.Ctx) error {
	var req dto.SimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithCause(err))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	sessionID := uuid.Nil
	if req.SessionID != "" {
		sessionID = uuid.MustParse(req.SessionID)
	}

	ctx, cancel := h.runContext(c)
	defer cancel()
	result, err := h.pipeline.SimulateWithBlocks(ctx, domain.ImpactRequest{
		SessionID:      sessionID,
		BlockedRoadIDs: req.BlockedRoadIDs,
		UserInput:      req.UserInput,
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewSimulateResponse(result), nil)
}

// GetSession godoc
// @Summary Сессия generate-прогона
// @Tags Scenarios
// @Produce json
// @Param id path string true "ID сессии или latest"
// @Success 200 {object} utils.SuccessResponse{data=domain.Session}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/scenarios/sessions/{id} [get]
func (h *ScenarioHandler) GetSession(c *fiber.Ctx) error {
	id := uuid.Nil
	if raw := c.Params("id"); raw != "latest" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"id": raw,
			}))
		}
		id = parsed
	}

	session, err := h.pipeline.Session(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, session, nil)
}

// LegacyGenerate godoc
// @Summary Генерация сценария (совместимый формат)
// @Tags Legacy
// @Accept json
// @Produce json
// @Param request body dto.GenerateScenarioRequest true "Описание поездки"
// @Success 200 {object} dto.LegacyGenerateResponse
// @Router /generate-scenario [post]
func (h *ScenarioHandler) LegacyGenerate(c *fiber.Ctx) error {
	var req dto.GenerateScenarioRequest
	if err := c.BodyParser(&req); err != nil {
		return c.JSON(dto.LegacyGenerateResponse{Message: errors.ErrInvalidRequest.Message})
	}

	ctx, cancel := h.runContext(c)
	defer cancel()
	result, err := h.pipeline.Generate(ctx, req.UserInput)
	if err != nil {
		return c.JSON(dto.LegacyGenerateResponse{Message: legacyMessage(err)})
	}

	return c.JSON(dto.LegacyGenerateResponse{
		Success:         true,
		ScenarioBinPath: result.ScenarioBinPath,
		Message:         "Scenario generated. Choose roads to block.",
		Roads:           result.Roads,
	})
}

// LegacySimulate godoc
// @Summary Прогон с перекрытыми дорогами по последней сессии (совместимый формат)
// @Tags Legacy
// @Accept json
// @Produce json
// @Param request body dto.LegacySimulateRequest true "Дороги"
// @Success 200 {object} dto.LegacySimulateResponse
// @Router /simulate-with-blocked-roads [post]
func (h *ScenarioHandler) LegacySimulate(c *fiber.Ctx) error {
	var req dto.LegacySimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.JSON(dto.LegacySimulateResponse{Message: errors.ErrInvalidRequest.Message})
	}
	if err := validator.Validate(&req); err != nil {
		return c.JSON(dto.LegacySimulateResponse{Message: errors.ErrInvalidRequest.Message})
	}

	impact := domain.ImpactRequest{
		BlockedRoadIDs:  req.BlockedRoadIDs,
		ScenarioBinPath: req.ScenarioBinPath,
	}
	if req.UserInput != nil {
		impact.UserInput = *req.UserInput
	}

	ctx, cancel := h.runContext(c)
	defer cancel()
	result, err := h.pipeline.SimulateWithBlocks(ctx, impact)
	if err != nil {
		return c.JSON(dto.LegacySimulateResponse{Message: legacyMessage(err)})
	}

	return c.JSON(dto.LegacySimulateResponse{
		Success: true,
		Metrics: &result.Metrics,
	})
}

func invalidRequest(err error) error {
	return errors.ErrInvalidRequest.
		WithDetails(map[string]interface{}{"validation": err.Error()}).
		WithCause(err)
}

func legacyMessage(err error) string {
	if appErr, ok := errors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
