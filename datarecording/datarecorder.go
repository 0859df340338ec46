// Package datarecording stores snapshot rows as flat tables.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes an entry into a table that already exists. The entry
	// must have the same type as the sample entry of the table.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables.
	ListTables() []string

	// Flush writes all the buffered entries.
	Flush()

	// Close flushes and releases the backend.
	Close() error
}

const defaultBatchSize = 100000

// SQLiteRecorder writes tables into a SQLite database.
type SQLiteRecorder struct {
	*sql.DB

	dbName     string
	tables     map[string]*table
	tableNames []string
	batchSize  int
	entryCount int
	closed     bool
	exit       exitFlush
}

type table struct {
	structType reflect.Type
	entries    []any
}

// NewSQLiteRecorder creates a database file at path + ".sqlite3". A random
// name is used if path is empty. Existing files are never overwritten.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if path == "" {
		path = "clutchsim_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	w := NewWithDB(db)
	w.dbName = path

	return w, nil
}

// NewWithDB creates a SQLiteRecorder with a given database.
func NewWithDB(db *sql.DB) *SQLiteRecorder {
	w := &SQLiteRecorder{
		DB:        db,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}

	w.exit = registerExitFlush(w.Flush)

	return w
}

// CreateTable creates a table. It panics if the sample entry has fields that
// cannot be stored in a column.
func (t *SQLiteRecorder) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	if _, exists := t.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	n := structs.Names(sampleEntry)
	for i := range n {
		n[i] = quote(n[i])
	}

	fields := strings.Join(n, ", \n\t")

	createTableSQL := `CREATE TABLE ` + quote(tableName) +
		` (` + "\n\t" + fields + "\n" + `);`
	t.mustExecute(createTableSQL)

	t.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
	t.tableNames = append(t.tableNames, tableName)
}

// InsertData buffers an entry. The buffer is flushed when it reaches the
// batch size.
func (t *SQLiteRecorder) InsertData(tableName string, entry any) {
	table := t.mustGetTable(tableName, entry)

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		t.Flush()
	}
}

// ListTables returns the table names in creation order.
func (t *SQLiteRecorder) ListTables() []string {
	return append([]string(nil), t.tableNames...)
}

// Flush writes all buffered entries in one transaction.
func (t *SQLiteRecorder) Flush() {
	if t.entryCount == 0 || t.closed {
		return
	}

	t.mustExecute("BEGIN TRANSACTION")
	defer t.mustExecute("COMMIT TRANSACTION")

	for _, tableName := range t.tableNames {
		table := t.tables[tableName]
		if len(table.entries) == 0 {
			continue
		}

		stmt := t.prepareStatement(tableName, table.entries[0])

		for _, entry := range table.entries {
			_, err := stmt.Exec(fieldValues(entry)...)
			if err != nil {
				panic(err)
			}
		}

		table.entries = nil

		stmt.Close()
	}

	t.entryCount = 0
}

// Close flushes the buffered entries and closes the database.
func (t *SQLiteRecorder) Close() error {
	if t.closed {
		return nil
	}

	t.Flush()
	t.closed = true
	t.exit.release()

	return t.DB.Close()
}

func (t *SQLiteRecorder) mustGetTable(tableName string, entry any) *table {
	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		panic(fmt.Sprintf("table %s stores %s, got %s",
			tableName, table.structType, reflect.TypeOf(entry)))
	}

	return table
}

func (t *SQLiteRecorder) mustExecute(query string) sql.Result {
	res, err := t.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (t *SQLiteRecorder) prepareStatement(tableName string, entry any) *sql.Stmt {
	n := structs.Names(entry)
	for i := 0; i < len(n); i++ {
		n[i] = "?"
	}

	entryToFill := "(" + strings.Join(n, ", ") + ")"
	sqlStr := "INSERT INTO " + quote(tableName) + " VALUES " + entryToFill

	stmt, err := t.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	return stmt
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
