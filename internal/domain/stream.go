package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamSimulationRequest = "stream:simulation:request"
	StreamSimulationDone    = "stream:simulation:done"
)

const (
	RequestKindGenerate = "generate"
	RequestKindSimulate = "simulate"
)

// SimulationRequestEvent - входящий запрос на прогон
type SimulationRequestEvent struct {
	RequestID      uuid.UUID  `json:"request_id"`
	Kind           string     `json:"kind"`
	UserInput      string     `json:"user_input,omitempty"`
	SessionID      *uuid.UUID `json:"session_id,omitempty"`
	BlockedRoadIDs []int64    `json:"blocked_road_ids,omitempty"`
}

// Validate проверяет, что запрос можно выполнить
func (e *SimulationRequestEvent) Validate() error {
	switch e.Kind {
	case RequestKindGenerate:
		if e.UserInput == "" {
			return errEmptyUserInput
		}
	case RequestKindSimulate:
		if e.SessionID == nil || *e.SessionID == uuid.Nil {
			return errMissingSession
		}
	default:
		return errUnknownKind
	}
	return nil
}

// SimulationDoneEvent - результат прогона
type SimulationDoneEvent struct {
	RequestID uuid.UUID       `json:"request_id"`
	Kind      string          `json:"kind"`
	Generate  *GenerateResult `json:"generate,omitempty"`
	Impact    *ImpactResult   `json:"impact,omitempty"`
	ErrorCode string          `json:"error_code,omitempty"`
	Error     string          `json:"error,omitempty"`
	Fatal     bool            `json:"fatal,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
