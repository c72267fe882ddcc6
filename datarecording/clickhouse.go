package datarecording

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

// clickHouseWriter writes tables into a ClickHouse server with batched
// inserts over the native protocol.
type clickHouseWriter struct {
	conn clickhouse.Conn

	lock       sync.Mutex
	tables     map[string]*table
	batchSize  int
	entryCount int
}

// NewClickHouseRecorder connects to the server described by the DSN.
// Buffered entries are flushed at exit.
func NewClickHouseRecorder(dsn string, batchSize int) (DataRecorder, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing ClickHouse DSN: %w", err)
	}

	opts.DialTimeout = 30 * time.Second
	opts.ConnOpenStrategy = clickhouse.ConnOpenInOrder

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("pinging ClickHouse: %w", err)
	}

	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	w := &clickHouseWriter{
		conn:      conn,
		batchSize: batchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { _ = w.Flush() })

	return w, nil
}

func clickHouseType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "Bool"
	case reflect.Int8:
		return "Int8"
	case reflect.Int16:
		return "Int16"
	case reflect.Int32:
		return "Int32"
	case reflect.Int, reflect.Int64:
		return "Int64"
	case reflect.Uint8:
		return "UInt8"
	case reflect.Uint16:
		return "UInt16"
	case reflect.Uint32:
		return "UInt32"
	case reflect.Uint, reflect.Uint64:
		return "UInt64"
	case reflect.Float32:
		return "Float32"
	case reflect.Float64:
		return "Float64"
	case reflect.String:
		return "String"
	default:
		panic(fmt.Sprintf("kind %s cannot be recorded", kind))
	}
}

func clickHouseCreateTableSQL(tableName string, sampleEntry any) string {
	t := reflect.TypeOf(sampleEntry)
	columns := make([]string, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		columns[i] = f.Name + " " + clickHouseType(f.Type.Kind())
	}

	return "CREATE TABLE IF NOT EXISTS " + tableName + " (\n\t" +
		strings.Join(columns, ",\n\t") +
		"\n) ENGINE = MergeTree() ORDER BY tuple()"
}

func (w *clickHouseWriter) CreateTable(tableName string, sampleEntry any) {
	tableNameMustBeValid(tableName)

	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	query := clickHouseCreateTableSQL(tableName, sampleEntry)
	if err := w.conn.Exec(context.Background(), query); err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	w.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
}

func (w *clickHouseWriter) InsertData(tableName string, entry any) {
	if w.buffer(tableName, entry) {
		if err := w.Flush(); err != nil {
			panic(err)
		}
	}
}

// buffer keeps the entry for the next flush and reports whether the batch is
// full.
func (w *clickHouseWriter) buffer(tableName string, entry any) bool {
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

func (w *clickHouseWriter) ListTables() []string {
	w.lock.Lock()
	defer w.lock.Unlock()

	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (w *clickHouseWriter) Flush() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.entryCount == 0 {
		return nil
	}

	ctx := context.Background()

	for name, t := range w.tables {
		if len(t.entries) == 0 {
			continue
		}

		batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO "+name)
		if err != nil {
			return fmt.Errorf("preparing batch for %s: %w", name, err)
		}

		for _, entry := range t.entries {
			if err := batch.Append(fieldValues(entry)...); err != nil {
				return fmt.Errorf("appending to %s: %w", name, err)
			}
		}

		if err := batch.Send(); err != nil {
			return fmt.Errorf("sending batch to %s: %w", name, err)
		}

		t.entries = nil
	}

	w.entryCount = 0

	return nil
}

func (w *clickHouseWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	return w.conn.Close()
}
