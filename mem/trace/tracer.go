// Package trace provides tracers that record the requests served by memory
// components.
package trace

import (
	"log"

	"github.com/sarchlab/blockingcache/datarecording"
	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/sim"
	"github.com/sarchlab/blockingcache/tracing"
)

// Table names written by the database tracer.
const (
	TransactionTable = "memory_transactions"
	TagTable         = "memory_tags"
)

// TransactionEntry is a row of the memory_transactions table.
type TransactionEntry struct {
	ID        string  `json:"id"`
	ParentID  string  `json:"parent_id"`
	Location  string  `json:"location"`
	Kind      string  `json:"kind"`
	What      string  `json:"what"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Address   uint32  `json:"address"`
	Opaque    uint8   `json:"opaque"`
	Len       uint8   `json:"len"`
}

// TagEntry is a row of the memory_tags table. It records one step of a
// transaction.
type TagEntry struct {
	ID     string  `json:"id"`
	TaskID string  `json:"task_id"`
	Time   float64 `json:"time"`
	What   string  `json:"what"`
}

// A tracer is a hook that can record the actions of a memory model into
// traces.
type tracer struct {
	timeTeller sim.TimeTeller
	logger     *log.Logger
}

// NewTracer creates a tracer that prints one line per start, step and end of
// a memory transaction.
func NewTracer(logger *log.Logger, timeTeller sim.TimeTeller) tracing.Tracer {
	return &tracer{
		logger:     logger,
		timeTeller: timeTeller,
	}
}

// StartTask marks the start of a memory transaction
func (t *tracer) StartTask(task tracing.Task) {
	req, ok := task.Detail.(*mem.ReqMsg)
	if !ok {
		return
	}

	t.logger.Printf("start, %.12f, %s, %s, %s, %s, 0x%x",
		t.timeTeller.CurrentTime(),
		task.Where,
		task.ID,
		task.Kind,
		req.Type,
		req.Addr,
	)
}

// StepTask marks that the memory transaction reaches a step
func (t *tracer) StepTask(task tracing.Task) {
	t.logger.Printf("step, %.12f, %s, %s",
		t.timeTeller.CurrentTime(),
		task.ID,
		task.Steps[0].What)
}

// EndTask marks the end of a memory transaction
func (t *tracer) EndTask(task tracing.Task) {
	t.logger.Printf("end, %.12f, %s", t.timeTeller.CurrentTime(), task.ID)
}

// A dbTracer is a hook that can record the actions of a memory model into
// a database using the data recorder.
type dbTracer struct {
	timeTeller          sim.TimeTeller
	dataRecorder        datarecording.DataRecorder
	pendingTransactions map[string]*TransactionEntry
}

// NewDBTracer creates a tracer that writes every completed memory transaction
// into the memory_transactions table and every step into the memory_tags
// table.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	timeTeller sim.TimeTeller,
) tracing.Tracer {
	t := &dbTracer{
		timeTeller:          timeTeller,
		dataRecorder:        dataRecorder,
		pendingTransactions: make(map[string]*TransactionEntry),
	}

	t.dataRecorder.CreateTable(TransactionTable, TransactionEntry{})
	t.dataRecorder.CreateTable(TagTable, TagEntry{})

	return t
}

// StartTask marks the start of a memory transaction
func (t *dbTracer) StartTask(task tracing.Task) {
	req, ok := task.Detail.(*mem.ReqMsg)
	if !ok {
		return
	}

	t.pendingTransactions[task.ID] = &TransactionEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Location:  task.Where,
		Kind:      task.Kind,
		What:      req.Type.String(),
		StartTime: float64(t.timeTeller.CurrentTime()),
		Address:   req.Addr,
		Opaque:    req.Opaque,
		Len:       req.Len,
	}
}

// StepTask records a step of a pending memory transaction
func (t *dbTracer) StepTask(task tracing.Task) {
	if len(task.Steps) == 0 {
		return
	}

	if _, pending := t.pendingTransactions[task.ID]; !pending {
		return
	}

	what := task.Steps[0].What

	t.dataRecorder.InsertData(TagTable, TagEntry{
		ID:     task.ID + "_tag_" + what,
		TaskID: task.ID,
		Time:   float64(t.timeTeller.CurrentTime()),
		What:   what,
	})
}

// EndTask marks the end of a memory transaction
func (t *dbTracer) EndTask(task tracing.Task) {
	entry, exists := t.pendingTransactions[task.ID]
	if !exists {
		return
	}

	entry.EndTime = float64(t.timeTeller.CurrentTime())
	t.dataRecorder.InsertData(TransactionTable, *entry)

	delete(t.pendingTransactions, task.ID)
}
