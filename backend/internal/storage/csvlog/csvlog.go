// Package csvlog stores accepted contact submissions in an append-only CSV file.
package csvlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/folio-dev/folio/shared/domain"
	"github.com/folio-dev/folio/shared/logger"
)

// Header is written once, when the log is empty.
const Header = "date,name,email,subject,message\n"

// StoreError is returned for any failure to persist a submission.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("contact log %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type Log struct {
	path string
	// serializes appends inside this process; the file lock covers other processes
	mu sync.Mutex
}

// New prepares a log at path, creating its directory if needed. The file itself
// is created by the first Append.
func New(path string) (*Log, error) {
	p := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, &StoreError{Op: "init", Err: fmt.Errorf("failed to create data directory %s: %w", filepath.Dir(p), err)}
	}

	return &Log{path: p}, nil
}

// Path returns the location of the log file.
func (l *Log) Path() string {
	return l.path
}

// Append writes one record. Header check and write happen under an exclusive
// lock, and a failed write is rolled back so no partial line is left behind.
func (l *Log) Append(ctx context.Context, s domain.Submission) error {
	if err := ctx.Err(); err != nil {
		return &StoreError{Op: "append", Err: err}
	}
	line := EncodeRecord(s)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return &StoreError{Op: "open", Err: err}
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return &StoreError{Op: "lock", Err: err}
	}
	defer unlockFile(f)

	info, err := f.Stat()
	if err != nil {
		return &StoreError{Op: "stat", Err: err}
	}
	size := info.Size()

	payload := line
	if size == 0 {
		payload = Header + line
	}

	n, err := f.WriteString(payload)
	if err == nil && n < len(payload) {
		err = io.ErrShortWrite
	}
	if err == nil {
		err = f.Sync()
	}
	if err != nil {
		if terr := f.Truncate(size); terr != nil {
			logger.Component("csvlog").Error("failed to roll back partial write", "path", l.path, "error", terr)
		}
		return &StoreError{Op: "write", Err: err}
	}

	logger.Component("csvlog").Debug("submission appended", "path", l.path, "bytes", len(payload))
	return nil
}

// Ping checks that the log can be written without creating it.
func (l *Log) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(l.path)
	info, err := os.Stat(dir)
	if err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	if !info.IsDir() {
		return &StoreError{Op: "ping", Err: fmt.Errorf("%s is not a directory", dir)}
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	return f.Close()
}

// EncodeField quotes v when it contains a comma, a double quote or a newline,
// doubling inner quotes. Anything else is written as is.
func EncodeField(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

// EncodeRecord renders a submission as one newline-terminated log line.
func EncodeRecord(s domain.Submission) string {
	fields := []string{
		s.FormattedTimestamp(),
		s.Name,
		s.Email,
		s.Subject,
		s.Message,
	}
	for i, f := range fields {
		fields[i] = EncodeField(f)
	}
	return strings.Join(fields, ",") + "\n"
}

// Record is one parsed log line.
type Record struct {
	Date    string
	Name    string
	Email   string
	Subject string
	Message string
}

// ReadAll parses every record of the log at path, skipping the header.
// Fields are decoded with the same rules EncodeField writes them with, so
// values come back byte for byte, carriage returns included.
func ReadAll(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRecords(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contact log: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, Record{Date: row[0], Name: row[1], Email: row[2], Subject: row[3], Message: row[4]})
	}
	return records, nil
}

const fieldsPerRecord = 5

// decodeRecords splits data into newline-terminated records. A quoted field
// runs to the next lone double quote and "" stands for one quote; an
// unquoted field runs to the next comma or newline.
func decodeRecords(data string) ([][]string, error) {
	var (
		rows [][]string
		row  []string
		line = 1
	)

	for pos := 0; pos < len(data); {
		var field strings.Builder
		if data[pos] == '"' {
			pos++
			for {
				i := strings.IndexByte(data[pos:], '"')
				if i < 0 {
					return nil, fmt.Errorf("line %d: unterminated quoted field", line)
				}
				field.WriteString(data[pos : pos+i])
				line += strings.Count(data[pos:pos+i], "\n")
				pos += i + 1
				if pos < len(data) && data[pos] == '"' {
					field.WriteByte('"')
					pos++
					continue
				}
				break
			}
		} else {
			i := strings.IndexAny(data[pos:], ",\n")
			if i < 0 {
				i = len(data) - pos
			}
			field.WriteString(data[pos : pos+i])
			pos += i
		}
		row = append(row, field.String())

		if pos == len(data) {
			return nil, fmt.Errorf("line %d: record not terminated", line)
		}
		switch data[pos] {
		case ',':
			pos++
		case '\n':
			if len(row) != fieldsPerRecord {
				return nil, fmt.Errorf("line %d: %d fields, want %d", line, len(row), fieldsPerRecord)
			}
			rows = append(rows, row)
			row = nil
			pos++
			line++
		default:
			return nil, fmt.Errorf("line %d: unexpected %q after quoted field", line, data[pos])
		}
	}

	if row != nil {
		return nil, fmt.Errorf("line %d: record not terminated", line)
	}
	return rows, nil
}
