package daisen

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sarchlab/blockingcache/datarecording"
	"github.com/sarchlab/blockingcache/mem/trace"
)

// A TaskQuery selects recorded transactions. Empty strings match anything.
type TaskQuery struct {
	Where string
	Kind  string
	What  string

	// EnableTimeRange keeps only the transactions that overlap with
	// [StartTime, EndTime].
	EnableTimeRange bool
	StartTime       float64
	EndTime         float64

	Limit  int
	Offset int
}

func (q TaskQuery) params() datarecording.QueryParams {
	var (
		conds []string
		args  []any
	)

	addCond := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}

	if q.Where != "" {
		addCond("Location = ?", q.Where)
	}

	if q.Kind != "" {
		addCond("Kind = ?", q.Kind)
	}

	if q.What != "" {
		addCond("What = ?", q.What)
	}

	if q.EnableTimeRange {
		addCond("EndTime >= ?", q.StartTime)
		addCond("StartTime <= ?", q.EndTime)
	}

	return datarecording.QueryParams{
		Where:   strings.Join(conds, " AND "),
		Args:    args,
		OrderBy: "StartTime, ID",
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
}

// ListTasks returns the transactions that match the query and the number of
// matches without the limit.
func (s *Server) ListTasks(
	ctx context.Context,
	query TaskQuery,
) ([]trace.TransactionEntry, int, error) {
	rows, total, err := s.reader.Query(ctx, trace.TransactionTable, query.params())
	if err != nil {
		return nil, 0, err
	}

	tasks := make([]trace.TransactionEntry, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, *row.(*trace.TransactionEntry))
	}

	return tasks, total, nil
}

// ListComponents returns the sorted names of the components that served at
// least one transaction.
func (s *Server) ListComponents(ctx context.Context) ([]string, error) {
	tasks, _, err := s.ListTasks(ctx, TaskQuery{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	names := []string{}

	for _, t := range tasks {
		if !seen[t.Location] {
			seen[t.Location] = true
			names = append(names, t.Location)
		}
	}

	sort.Strings(names)

	return names, nil
}

// ListTags returns the steps recorded for a transaction in time order.
func (s *Server) ListTags(
	ctx context.Context,
	taskID string,
) ([]trace.TagEntry, error) {
	rows, _, err := s.reader.Query(ctx, trace.TagTable,
		datarecording.QueryParams{
			Where:   "TaskID = ?",
			Args:    []any{taskID},
			OrderBy: "Time, ID",
		})
	if err != nil {
		return nil, err
	}

	tags := make([]trace.TagEntry, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, *row.(*trace.TagEntry))
	}

	return tags, nil
}

type traceRsp struct {
	Total        int                      `json:"total"`
	Transactions []trace.TransactionEntry `json:"transactions"`
}

func (s *Server) httpComponentNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.ListComponents(r.Context())
	dieOnErr(err)

	sendJSONResponse(w, names)
}

func (s *Server) httpTrace(w http.ResponseWriter, r *http.Request) {
	query, err := parseTaskQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	tasks, total, err := s.ListTasks(r.Context(), query)
	dieOnErr(err)

	sendJSONResponse(w, traceRsp{Total: total, Transactions: tasks})
}

func (s *Server) httpTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.ListTags(r.Context(), mux.Vars(r)["id"])
	dieOnErr(err)

	sendJSONResponse(w, tags)
}

func parseTaskQuery(r *http.Request) (TaskQuery, error) {
	q := TaskQuery{
		Where: r.FormValue("where"),
		Kind:  r.FormValue("kind"),
		What:  r.FormValue("what"),
	}

	startStr, endStr := r.FormValue("starttime"), r.FormValue("endtime")
	if startStr != "" || endStr != "" {
		var err error

		q.EnableTimeRange = true

		if q.StartTime, err = parseFloatOr(startStr, 0); err != nil {
			return q, fmt.Errorf("parsing starttime: %w", err)
		}

		if q.EndTime, err = parseFloatOr(endStr, 1e300); err != nil {
			return q, fmt.Errorf("parsing endtime: %w", err)
		}
	}

	var err error

	if q.Limit, err = parseIntOr(r.FormValue("limit"), 0); err != nil {
		return q, fmt.Errorf("parsing limit: %w", err)
	}

	if q.Offset, err = parseIntOr(r.FormValue("offset"), 0); err != nil {
		return q, fmt.Errorf("parsing offset: %w", err)
	}

	return q, nil
}

func parseFloatOr(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}

	return strconv.ParseFloat(s, 64)
}

func parseIntOr(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}

	return strconv.Atoi(s)
}
