package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Status is the outcome of importing one statement file.
type Status string

const (
	StatusOK           Status = "ok"
	StatusWithWarnings Status = "ok-with-warnings"
	StatusFailed       Status = "failed"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp    time.Time
	BatchID      string
	File         string
	AccountID    int
	Transactions int
	Warnings     int
	Status       Status
	Error        string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,batch_id,file,account_id,transactions,warnings,status,error"

const (
	numFields    = 8
	logDir       = "logs"
	logFile      = "logs/import-log.csv"
	colTimestamp = 0
	colBatchID   = 1
	colFile      = 2
	colAccountID = 3
	colTxns      = 4
	colWarnings  = 5
	colStatus    = 6
	colError     = 7
)

// StatusFor derives a status from a parse outcome.
func StatusFor(err error, warnings int) Status {
	switch {
	case err != nil:
		return StatusFailed
	case warnings > 0:
		return StatusWithWarnings
	}
	return StatusOK
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colBatchID] = e.BatchID
	row[colFile] = e.File
	row[colAccountID] = strconv.Itoa(e.AccountID)
	row[colTxns] = strconv.Itoa(e.Transactions)
	row[colWarnings] = strconv.Itoa(e.Warnings)
	row[colStatus] = string(e.Status)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	ints := make([]int, 3)
	for i, col := range []int{colAccountID, colTxns, colWarnings} {
		ints[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing column %d %q: %w", col, record[col], err)
		}
	}

	return Entry{
		Timestamp:    ts,
		BatchID:      record[colBatchID],
		File:         record[colFile],
		AccountID:    ints[0],
		Transactions: ints[1],
		Warnings:     ints[2],
		Status:       Status(record[colStatus]),
		Error:        record[colError],
	}, nil
}

// Append writes entries to <repoRoot>/logs/import-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
