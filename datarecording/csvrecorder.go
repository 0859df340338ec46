package datarecording

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/fatih/structs"
)

// CSVOption configures a CSVRecorder.
type CSVOption func(r *CSVRecorder)

// WithColumnPrefix prepends "<prefix>_" to every column name.
func WithColumnPrefix(prefix string) CSVOption {
	return func(r *CSVRecorder) {
		r.prefix = prefix
	}
}

// WithCSVBatchSize sets the number of buffered rows that triggers a flush.
func WithCSVBatchSize(n int) CSVOption {
	return func(r *CSVRecorder) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// CSVRecorder writes every table into <dir>/<table>.csv with a header row.
type CSVRecorder struct {
	dir        string
	prefix     string
	tables     map[string]*csvTable
	tableNames []string
	batchSize  int
	entryCount int
	closed     bool
	exit       exitFlush
}

type csvTable struct {
	table
	file   *os.File
	writer *csv.Writer
}

// NewCSVRecorder creates a recorder that writes into dir. The directory is
// created if needed.
func NewCSVRecorder(dir string, opts ...CSVOption) (*CSVRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	r := &CSVRecorder{
		dir:       dir,
		tables:    make(map[string]*csvTable),
		batchSize: defaultBatchSize,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.exit = registerExitFlush(r.Flush)

	return r, nil
}

// CreateTable creates the file of a table and writes its header. It panics if
// the file exists or the sample entry cannot be stored as a row.
func (r *CSVRecorder) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	if _, exists := r.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	filename := filepath.Join(r.dir, tableName+".csv")

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "File created for recording: %s\n", filename)

	t := &csvTable{
		table:  table{structType: reflect.TypeOf(sampleEntry)},
		file:   file,
		writer: csv.NewWriter(file),
	}

	header := structs.Names(sampleEntry)
	if r.prefix != "" {
		for i := range header {
			header[i] = r.prefix + "_" + header[i]
		}
	}

	if err := t.writer.Write(header); err != nil {
		panic(err)
	}

	r.tables[tableName] = t
	r.tableNames = append(r.tableNames, tableName)
}

// InsertData buffers a row.
func (r *CSVRecorder) InsertData(tableName string, entry any) {
	t, exists := r.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("table %s stores %s, got %s",
			tableName, t.structType, reflect.TypeOf(entry)))
	}

	t.entries = append(t.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.Flush()
	}
}

// ListTables returns the table names in creation order.
func (r *CSVRecorder) ListTables() []string {
	return append([]string(nil), r.tableNames...)
}

// Flush writes all buffered rows to their files.
func (r *CSVRecorder) Flush() {
	if r.closed {
		return
	}

	for _, name := range r.tableNames {
		t := r.tables[name]

		for _, entry := range t.entries {
			if err := t.writer.Write(formatRow(entry)); err != nil {
				panic(err)
			}
		}

		t.entries = nil

		t.writer.Flush()
		if err := t.writer.Error(); err != nil {
			panic(err)
		}
	}

	r.entryCount = 0
}

// Close flushes and closes every file.
func (r *CSVRecorder) Close() error {
	if r.closed {
		return nil
	}

	r.Flush()
	r.closed = true
	r.exit.release()

	var firstErr error

	for _, name := range r.tableNames {
		if err := r.tables[name].file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func formatRow(entry any) []string {
	values := fieldValues(entry)
	row := make([]string, len(values))

	for i, v := range values {
		row[i] = formatValue(v)
	}

	return row
}

func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
