// Package datarecording stores simulation records in tables. Each table holds
// one flat struct type.
package datarecording

import (
	"fmt"
	"reflect"
	"regexp"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all the tables created.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush() error

	// Close flushes and closes the connection.
	Close() error
}

// RecorderConfig selects and configures a recorder backend.
type RecorderConfig struct {
	// Type is "sqlite" (default) or "clickhouse".
	Type string

	// Path is the SQLite file name without the ".sqlite3" suffix. A random
	// name is used when empty.
	Path string

	// ConnStr is the ClickHouse DSN, such as
	// "clickhouse://localhost:9000/sim?username=default".
	ConnStr string

	// BatchSize is the number of buffered entries that triggers a flush.
	BatchSize int
}

const defaultBatchSize = 100000

// NewDataRecorderWithConfig creates the recorder that the config asks for.
func NewDataRecorderWithConfig(cfg RecorderConfig) (DataRecorder, error) {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaultBatchSize
	}

	switch cfg.Type {
	case "", "sqlite":
		return NewSQLiteRecorder(cfg.Path, cfg.BatchSize)
	case "clickhouse":
		return NewClickHouseRecorder(cfg.ConnStr, cfg.BatchSize)
	default:
		return nil, fmt.Errorf("unknown recorder type %q", cfg.Type)
	}
}

var tableNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func tableNameMustBeValid(name string) {
	if !tableNameRegexp.MatchString(name) {
		panic(fmt.Sprintf("invalid table name %q", name))
	}
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("entry of type %T is not a struct", entry)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			return fmt.Errorf("field %s is not exported", field.Name)
		}

		if !isAllowedKind(field.Type.Kind()) {
			return fmt.Errorf("field %s of kind %s cannot be recorded",
				field.Name, field.Type.Kind())
		}
	}

	return nil
}

// fieldValues returns the fields of a flat struct in declaration order.
// Platform-sized integers are widened so that every driver accepts them.
func fieldValues(entry any) []any {
	v := reflect.ValueOf(entry)
	values := make([]any, 0, v.NumField())

	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		switch f.Kind() {
		case reflect.Int:
			values = append(values, f.Int())
		case reflect.Uint:
			values = append(values, f.Uint())
		default:
			values = append(values, f.Interface())
		}
	}

	return values
}

type table struct {
	structType reflect.Type
	entries    []any
}

func (t *table) mustAccept(tableName string, entry any) {
	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("table %s holds %s, cannot insert %T",
			tableName, t.structType, entry))
	}
}
