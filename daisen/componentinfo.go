package daisen

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sarchlab/blockingcache/mem/trace"
)

// Info types served by the component info API.
const (
	InfoReqIn          = "req_in"
	InfoReqComplete    = "req_complete"
	InfoAvgLatency     = "avg_latency"
	InfoConcurrentTask = "concurrent_task"
)

// A TimeValue is one dot of a component info curve.
type TimeValue struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// ComponentInfo is a curve that describes a component over a time range.
type ComponentInfo struct {
	Name      string      `json:"name"`
	InfoType  string      `json:"info_type"`
	StartTime float64     `json:"start_time"`
	EndTime   float64     `json:"end_time"`
	Data      []TimeValue `json:"data"`
}

type timeBin struct {
	start, end float64
}

func (b timeBin) duration() float64 {
	return b.end - b.start
}

func (b timeBin) middle() float64 {
	return b.start + 0.5*b.duration()
}

func (b timeBin) contains(t float64) bool {
	return t >= b.start && t < b.end
}

// overlap returns how long [start, end] overlaps with the bin.
func (b timeBin) overlap(start, end float64) float64 {
	lo := max(start, b.start)
	hi := min(end, b.end)

	if hi <= lo {
		return 0
	}

	return hi - lo
}

func makeBins(startTime, endTime float64, numDots int) []timeBin {
	binDuration := (endTime - startTime) / float64(numDots)
	bins := make([]timeBin, numDots)

	for i := range bins {
		bins[i] = timeBin{
			start: startTime + float64(i)*binDuration,
			end:   startTime + float64(i+1)*binDuration,
		}
	}

	return bins
}

// CalculateComponentInfo computes the curve of the info type over the
// transactions of one component.
func CalculateComponentInfo(
	name, infoType string,
	tasks []trace.TransactionEntry,
	startTime, endTime float64,
	numDots int,
) (*ComponentInfo, error) {
	if numDots <= 0 {
		return nil, errors.New("num_dots must be positive")
	}

	if endTime <= startTime {
		return nil, errors.New("end_time must be after start_time")
	}

	var value func(b timeBin) float64

	switch infoType {
	case InfoReqIn:
		value = func(b timeBin) float64 {
			return countIn(tasks, b, startOf) / b.duration()
		}
	case InfoReqComplete:
		value = func(b timeBin) float64 {
			return countIn(tasks, b, endOf) / b.duration()
		}
	case InfoAvgLatency:
		value = func(b timeBin) float64 {
			return avgLatency(tasks, b)
		}
	case InfoConcurrentTask:
		value = func(b timeBin) float64 {
			return timeWeightedCount(tasks, b)
		}
	default:
		return nil, fmt.Errorf("unknown info_type %s", infoType)
	}

	info := &ComponentInfo{
		Name:      name,
		InfoType:  infoType,
		StartTime: startTime,
		EndTime:   endTime,
	}

	for _, b := range makeBins(startTime, endTime, numDots) {
		info.Data = append(info.Data, TimeValue{
			Time:  b.middle(),
			Value: value(b),
		})
	}

	return info, nil
}

func startOf(t trace.TransactionEntry) float64 { return t.StartTime }

func endOf(t trace.TransactionEntry) float64 { return t.EndTime }

func countIn(
	tasks []trace.TransactionEntry,
	b timeBin,
	timeOf func(trace.TransactionEntry) float64,
) float64 {
	count := 0

	for _, t := range tasks {
		if b.contains(timeOf(t)) {
			count++
		}
	}

	return float64(count)
}

// avgLatency averages the duration of the transactions that end in the bin.
func avgLatency(tasks []trace.TransactionEntry, b timeBin) float64 {
	sum := 0.0
	count := 0

	for _, t := range tasks {
		if b.contains(t.EndTime) {
			sum += t.EndTime - t.StartTime
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return sum / float64(count)
}

// timeWeightedCount is the average number of transactions in flight during
// the bin.
func timeWeightedCount(tasks []trace.TransactionEntry, b timeBin) float64 {
	busy := 0.0

	for _, t := range tasks {
		busy += b.overlap(t.StartTime, t.EndTime)
	}

	return busy / b.duration()
}

func (s *Server) httpComponentInfo(w http.ResponseWriter, r *http.Request) {
	compName := r.FormValue("where")
	infoType := r.FormValue("info_type")

	startTime, err := strconv.ParseFloat(r.FormValue("start_time"), 64)
	if err != nil {
		badRequest(w, fmt.Errorf("parsing start_time: %w", err))
		return
	}

	endTime, err := strconv.ParseFloat(r.FormValue("end_time"), 64)
	if err != nil {
		badRequest(w, fmt.Errorf("parsing end_time: %w", err))
		return
	}

	numDots, err := strconv.Atoi(r.FormValue("num_dots"))
	if err != nil {
		badRequest(w, fmt.Errorf("parsing num_dots: %w", err))
		return
	}

	tasks, _, err := s.ListTasks(r.Context(), TaskQuery{
		Where:           compName,
		Kind:            "req_in",
		EnableTimeRange: true,
		StartTime:       startTime,
		EndTime:         endTime,
	})
	dieOnErr(err)

	info, err := CalculateComponentInfo(
		compName, infoType, tasks, startTime, endTime, numDots)
	if err != nil {
		badRequest(w, err)
		return
	}

	sendJSONResponse(w, info)
}
