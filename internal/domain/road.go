package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	ClosureEditsName = "blocked_roads_batch"
	EditsVersion     = 1
	UnknownRoadName  = "Unknown"
)

// Lane - полоса дороги в терминах редактора карты, ширина в миллиметрах
type Lane struct {
	LaneType string  `json:"lt"`
	Dir      string  `json:"dir"`
	Width    float64 `json:"width"`
}

// Describe - "Driving (Fwd, 3.5 m)"
func (l Lane) Describe() string {
	return fmt.Sprintf("%s (%s, %.1f m)", l.LaneType, l.Dir, l.Width/1000)
}

// DescribeLanes объединяет описания полос, "None" для пустого списка
func DescribeLanes(lanes []Lane) string {
	if len(lanes) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(lanes))
	for _, l := range lanes {
		parts = append(parts, l.Describe())
	}
	return strings.Join(parts, ", ")
}

// RoadDetail - дорога, использованная в прогоне, для выбора перекрытий
type RoadDetail struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Lanes []Lane `json:"lanes"`
}

// ChangeRoad - тело команды ChangeRoad. Неизвестные поля сохраняются как есть,
// чтобы команда вернулась на сервер без потерь
type ChangeRoad map[string]json.RawMessage

// Lanes возвращает new.lanes_ltr, пустой список если полей нет
func (c ChangeRoad) Lanes() ([]Lane, error) {
	rawNew, ok := c["new"]
	if !ok {
		return []Lane{}, nil
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(rawNew, &state); err != nil {
		return nil, fmt.Errorf("decode new road state: %w", err)
	}
	rawLanes, ok := state["lanes_ltr"]
	if !ok || string(rawLanes) == "null" {
		return []Lane{}, nil
	}
	lanes := []Lane{}
	if err := json.Unmarshal(rawLanes, &lanes); err != nil {
		return nil, fmt.Errorf("decode lanes_ltr: %w", err)
	}
	return lanes, nil
}

// Closed возвращает копию команды, в которой у дороги не осталось полос
func (c ChangeRoad) Closed() (ChangeRoad, error) {
	rawNew, ok := c["new"]
	if !ok {
		return nil, fmt.Errorf("ChangeRoad has no new road state")
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(rawNew, &state); err != nil {
		return nil, fmt.Errorf("decode new road state: %w", err)
	}
	if state == nil {
		return nil, fmt.Errorf("ChangeRoad new road state is null")
	}
	state["lanes_ltr"] = json.RawMessage("[]")

	encoded, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode new road state: %w", err)
	}

	out := make(ChangeRoad, len(c))
	for k, v := range c {
		out[k] = v
	}
	out["new"] = encoded
	return out, nil
}

// EditRoadCommand - ответ /map/get-edit-road-command
type EditRoadCommand struct {
	ChangeRoad ChangeRoad `json:"ChangeRoad"`
	RoadName   string     `json:"road_name"`
}

// Detail превращает ответ сервера в RoadDetail
func (e *EditRoadCommand) Detail(id int64) (RoadDetail, error) {
	lanes, err := e.ChangeRoad.Lanes()
	if err != nil {
		return RoadDetail{}, err
	}
	name := e.RoadName
	if name == "" {
		name = UnknownRoadName
	}
	return RoadDetail{ID: id, Name: name, Lanes: lanes}, nil
}

// RoadEditCommand - одна команда пакета правок
type RoadEditCommand struct {
	RoadID     int64      `json:"-"`
	ChangeRoad ChangeRoad `json:"ChangeRoad"`
}

// NewLanes - полосы дороги после применения команды
func (c RoadEditCommand) NewLanes() ([]Lane, error) {
	return c.ChangeRoad.Lanes()
}

// RoadEdits - пакет правок карты, применяемый одним вызовом загрузки
type RoadEdits struct {
	Commands            []RoadEditCommand `json:"commands"`
	MapName             MapIdentity       `json:"map_name"`
	Version             int               `json:"version"`
	EditsName           string            `json:"edits_name"`
	ProposalDescription []string          `json:"proposal_description"`
}

// NewClosureEdits собирает пакет перекрытий для карты
func NewClosureEdits(mapID MapIdentity, commands []RoadEditCommand) *RoadEdits {
	if commands == nil {
		commands = []RoadEditCommand{}
	}
	return &RoadEdits{
		Commands:            commands,
		MapName:             mapID,
		Version:             EditsVersion,
		EditsName:           ClosureEditsName,
		ProposalDescription: []string{},
	}
}

// RoadIDs - идентификаторы дорог в порядке команд
func (e *RoadEdits) RoadIDs() []int64 {
	ids := make([]int64, 0, len(e.Commands))
	for _, c := range e.Commands {
		ids = append(ids, c.RoadID)
	}
	return ids
}

// MapSummary - сводка геометрии загруженной карты
type MapSummary struct {
	Roads         int `json:"roads"`
	Intersections int `json:"intersections"`
}
