// Package daisen serves the memory transactions recorded by the database
// tracer so that a run can be inspected after it finishes.
package daisen

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/sarchlab/blockingcache/datarecording"
	"github.com/sarchlab/blockingcache/mem/trace"
)

// A Server answers queries about a recorded trace over HTTP.
type Server struct {
	reader datarecording.DataReader
}

// NewServer creates a server that reads from the reader. The transaction and
// tag tables are mapped on the reader.
func NewServer(reader datarecording.DataReader) *Server {
	reader.MapTable(trace.TransactionTable, trace.TransactionEntry{})
	reader.MapTable(trace.TagTable, trace.TagEntry{})

	return &Server{reader: reader}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.listAPIs)
	r.HandleFunc("/api/compnames", s.httpComponentNames)
	r.HandleFunc("/api/trace", s.httpTrace)
	r.HandleFunc("/api/tags/{id}", s.httpTags)
	r.HandleFunc("/api/compinfo", s.httpComponentInfo)

	return r
}

// ListenAndServe serves the trace on the address until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	fmt.Fprintf(os.Stderr, "Listening %s\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) listAPIs(w http.ResponseWriter, _ *http.Request) {
	sendJSONResponse(w, []string{
		"/api/compnames",
		"/api/trace?where=&kind=&what=&starttime=&endtime=&limit=&offset=",
		"/api/tags/{id}",
		"/api/compinfo?where=&info_type=&start_time=&end_time=&num_dots=",
	})
}

func sendJSONResponse(w http.ResponseWriter, data any) {
	rsp, err := json.Marshal(data)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(rsp)
	dieOnErr(err)
}

func badRequest(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "Error: %s", err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
