package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// sqliteWriter is the writer that writes data into SQLite database
type sqliteWriter struct {
	*sql.DB

	lock       sync.Mutex
	tables     map[string]*table
	batchSize  int
	entryCount int
}

// NewSQLiteRecorder creates a recorder that writes to path + ".sqlite3". The
// file must not exist yet. Buffered entries are flushed at exit.
func NewSQLiteRecorder(path string, batchSize int) (DataRecorder, error) {
	if path == "" {
		path = "bcache_data_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	w := newSQLiteWriter(db, batchSize)
	atexit.Register(func() { _ = w.Flush() })

	return w, nil
}

// NewSQLiteRecorderWithDB creates a recorder over an opened database.
func NewSQLiteRecorderWithDB(db *sql.DB) DataRecorder {
	return newSQLiteWriter(db, defaultBatchSize)
}

func newSQLiteWriter(db *sql.DB, batchSize int) *sqliteWriter {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &sqliteWriter{
		DB:        db,
		batchSize: batchSize,
		tables:    make(map[string]*table),
	}
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	tableNameMustBeValid(tableName)

	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if _, exists := w.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	fields := strings.Join(structs.Names(sampleEntry), ", \n\t")
	w.mustExecute(
		"CREATE TABLE " + tableName + " (\n\t" + fields + "\n);")

	w.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	if w.buffer(tableName, entry) {
		if err := w.Flush(); err != nil {
			panic(err)
		}
	}
}

// buffer keeps the entry for the next flush and reports whether the batch is
// full.
func (w *sqliteWriter) buffer(tableName string, entry any) bool {
	w.lock.Lock()
	defer w.lock.Unlock()

	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.mustAccept(tableName, entry)
	t.entries = append(t.entries, entry)
	w.entryCount++

	return w.entryCount >= w.batchSize
}

func (w *sqliteWriter) ListTables() []string {
	w.lock.Lock()
	defer w.lock.Unlock()

	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (w *sqliteWriter) Flush() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.entryCount == 0 {
		return nil
	}

	tx, err := w.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	for name, t := range w.tables {
		if err := w.flushTable(tx, name, t); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	w.entryCount = 0

	return nil
}

func (w *sqliteWriter) flushTable(tx *sql.Tx, name string, t *table) error {
	if len(t.entries) == 0 {
		return nil
	}

	placeholders := make([]string, t.structType.NumField())
	for i := range placeholders {
		placeholders[i] = "?"
	}

	stmt, err := tx.Prepare("INSERT INTO " + name +
		" VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", name, err)
	}
	defer stmt.Close()

	for _, entry := range t.entries {
		if _, err := stmt.Exec(fieldValues(entry)...); err != nil {
			return fmt.Errorf("inserting into %s: %w", name, err)
		}
	}

	t.entries = nil

	return nil
}

func (w *sqliteWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	return w.DB.Close()
}

func (w *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := w.Exec(query)
	if err != nil {
		panic(fmt.Errorf("failed to execute %q: %w", query, err))
	}

	return res
}
