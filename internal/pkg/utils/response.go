package utils

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/trip-impact-service/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	RunID    string  `json:"run_id,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.As(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Ошибки самого fiber: 404 маршрута, 405, слишком большое тело
	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error: fromFiberError(fiberErr),
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}

func fromFiberError(e *fiber.Error) *errors.AppError {
	if e.Code >= fiber.StatusInternalServerError {
		return errors.ErrInternalServer
	}
	code := "HTTP_ERROR"
	switch e.Code {
	case fiber.StatusNotFound:
		code = "ROUTE_NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": e.Message})
	}
	return errors.New(code, e.Message, e.Code)
}
