package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/trip-impact-service/internal/domain"
)

const (
	tripPrompt  = "Describe your trip (e.g., from Central Park to Times Square by bike for recreation):\n> "
	blockPrompt = "Do you want to block road(s)? Enter comma-separated Road IDs or press Enter to skip: "
)

// pipeline - то, что нужно циклу interactive
type pipeline interface {
	Generate(ctx context.Context, userInput string) (*domain.GenerateResult, error)
	SimulateWithBlocks(ctx context.Context, req domain.ImpactRequest) (*domain.ImpactResult, error)
}

// interactiveLoop: описание поездки -> дороги -> выбор перекрытий -> метрики.
// Работает до EOF, "quit" или отмены контекста
func interactiveLoop(ctx context.Context, p pipeline, in io.Reader, out io.Writer) error {
	reader := newLineReader(ctx, in)

	for {
		fmt.Fprint(out, tripPrompt)
		line, ok, err := reader.next()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "\nExiting.")
			return nil
		}
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			fmt.Fprintln(out, "Exiting.")
			return nil
		}

		generated, err := p.Generate(ctx, line)
		if err != nil {
			_ = describeFailure(out, err)
			continue
		}
		printGenerateResult(out, generated)

		blocked, ok, err := askBlockedRoads(reader, out, generated.Roads)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "\nExiting.")
			return nil
		}

		impact, err := p.SimulateWithBlocks(ctx, domain.ImpactRequest{
			SessionID:      generated.SessionID,
			BlockedRoadIDs: blocked,
			UserInput:      line,
		})
		if err != nil {
			_ = describeFailure(out, err)
			continue
		}
		printImpactResult(out, impact)
	}
}

// askBlockedRoads повторяет вопрос, пока ввод не станет списком обнаруженных дорог.
// ok == false - ввод закончился
func askBlockedRoads(r *lineReader, out io.Writer, roads []domain.RoadDetail) ([]int64, bool, error) {
	detected := make(map[int64]struct{}, len(roads))
	for _, road := range roads {
		detected[road.ID] = struct{}{}
	}

	for {
		fmt.Fprint(out, blockPrompt)
		answer, ok, err := r.next()
		if err != nil || !ok {
			return nil, ok, err
		}

		ids, err := parseRoadIDs(answer)
		if err != nil {
			fmt.Fprintln(out, "Invalid input: Only comma-separated integers are allowed.")
			continue
		}

		var invalid []int64
		for _, id := range ids {
			if _, found := detected[id]; !found {
				invalid = append(invalid, id)
			}
		}
		if len(invalid) > 0 {
			fmt.Fprintf(out, "Invalid Road IDs (not in detected roads): %s\n", joinIDs(invalid))
			continue
		}
		return ids, true, nil
	}
}

// lineReader читает stdin в отдельной горутине, чтобы Ctrl+C прерывал ожидание ввода
type lineReader struct {
	ctx   context.Context
	lines chan string
	errc  chan error
}

func newLineReader(ctx context.Context, in io.Reader) *lineReader {
	r := &lineReader{
		ctx:   ctx,
		lines: make(chan string),
		errc:  make(chan error, 1),
	}
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case r.lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		r.errc <- scanner.Err()
		close(r.lines)
	}()
	return r
}

// next - строка без пробелов по краям. ok == false на EOF или отмене контекста
func (r *lineReader) next() (string, bool, error) {
	select {
	case <-r.ctx.Done():
		return "", false, nil
	case line, open := <-r.lines:
		if !open {
			return "", false, <-r.errc
		}
		return strings.TrimSpace(line), true, nil
	}
}

// sortedRoadIDs - id дорог по возрастанию
func sortedRoadIDs(roads []domain.RoadDetail) []int64 {
	ids := make([]int64, 0, len(roads))
	for _, road := range roads {
		ids = append(ids, road.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
