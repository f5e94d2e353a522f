package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrMissingColumn = errors.New("missing required column")

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(strings.TrimPrefix(name, "\ufeff")))
	return columnNameSanitizer.Replace(name)
}

// header maps normalized column names onto their positions.
type header []string

func (h header) index(names ...string) int {
	if len(names) == 0 {
		return -1
	}
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[normalizeColumnName(name)] = struct{}{}
	}
	for i, col := range h {
		if _, ok := targets[normalizeColumnName(col)]; ok {
			return i
		}
	}
	return -1
}

func (h header) require(names ...string) (int, error) {
	idx := h.index(names...)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrMissingColumn, names[0])
	}
	return idx, nil
}

// eachRecord reads the header, hands it to resolve and then calls fn for
// every non-blank record. line is the 1-based line number in the file.
func eachRecord(r io.Reader, resolve func(h header) error, fn func(record []string, line int) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("read header: empty file")
		}
		return fmt.Errorf("read header: %w", err)
	}
	if err := resolve(header(first)); err != nil {
		return err
	}

	line := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read line %d: %w", line+1, err)
		}
		line++
		if isBlank(record) {
			continue
		}
		if err := fn(record, line); err != nil {
			return err
		}
	}
	return nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func openFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
