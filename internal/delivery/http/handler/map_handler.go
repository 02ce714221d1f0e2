package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/pkg/utils"
	"github.com/trip-impact-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// MapInspector - сведения о загруженной в симулятор карте
type MapInspector interface {
	MapSummary(ctx context.Context) (*domain.MapSummary, error)
}

// MapHandler обрабатывает запросы о карте симулятора
type MapHandler struct {
	maps   MapInspector
	logger *zap.Logger
}

// NewMapHandler создает новый экземпляр MapHandler
func NewMapHandler(maps MapInspector, logger *zap.Logger) *MapHandler {
	return &MapHandler{
		maps:   maps,
		logger: logger,
	}
}

// GetSummary godoc
// @Summary Map geometry summary
// @Description Количество дорог и перекрёстков карты, загруженной в сервер симуляции
// @Tags Map
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.MapSummaryResponse}
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/map/summary [get]
func (h *MapHandler) GetSummary(c *fiber.Ctx) error {
	h.logger.Debug("Handling map summary request")

	summary, err := h.maps.MapSummary(c.Context())
	if err != nil {
		h.logger.Error("Failed to get map geometry", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.MapSummaryResponse{
		Roads:         summary.Roads,
		Intersections: summary.Intersections,
	}, nil)
}
