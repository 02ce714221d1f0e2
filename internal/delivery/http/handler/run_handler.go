package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/pkg/utils"
	"github.com/trip-impact-service/internal/pkg/validator"
	"github.com/trip-impact-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// RunHistory - журнал прогонов
type RunHistory interface {
	ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// RunHandler - обработчик истории прогонов
type RunHandler struct {
	runs   RunHistory
	logger *zap.Logger
}

// NewRunHandler - создание нового RunHandler
func NewRunHandler(runs RunHistory, logger *zap.Logger) *RunHandler {
	return &RunHandler{
		runs:   runs,
		logger: logger,
	}
}

// ListRuns godoc
// @Summary История прогонов
// @Description Последние сохранённые метрики прогонов, новые первыми
// @Tags Runs
// @Produce json
// @Param limit query int false "Количество записей" default(20)
// @Success 200 {object} utils.SuccessResponse{data=dto.RunsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/runs [get]
func (h *RunHandler) ListRuns(c *fiber.Ctx) error {
	req := dto.RunsRequest{Limit: c.QueryInt("limit", 20)}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	records, err := h.runs.ListRecent(c.Context(), req.Limit)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		return utils.SendError(c, err)
	}

	resp := dto.NewRunsResponse(records)
	return utils.SendSuccess(c, resp, &utils.Meta{
		Total: resp.Total,
		Limit: req.Limit,
	})
}
