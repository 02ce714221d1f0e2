package dto

// GenerateScenarioRequest - запрос на генерацию сценария из описания поездки
type GenerateScenarioRequest struct {
	UserInput string `json:"user_input" validate:"required,min=3,max=2000"`
}

// SimulateRequest - запрос прогона сценария сессии с перекрытыми дорогами.
// Пустой blocked_road_ids - базовый прогон, пустой session_id - последняя сессия
type SimulateRequest struct {
	SessionID      string  `json:"session_id" validate:"omitempty,uuid"`
	BlockedRoadIDs []int64 `json:"blocked_road_ids" validate:"road_ids,max=500"`
	UserInput      string  `json:"user_input,omitempty" validate:"max=2000"`
}

// LegacySimulateRequest - тело /simulate-with-blocked-roads
type LegacySimulateRequest struct {
	BlockedRoadIDs  []int64 `json:"blocked_road_ids" validate:"road_ids,max=500"`
	ScenarioBinPath string  `json:"scenario_bin_path"`
	UserInput       *string `json:"user_input,omitempty"`
}

// RunsRequest - параметры выборки истории прогонов
type RunsRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=200"`
}
