package cripta

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed tables/des.tbl
var defaultTableFile []byte

// ParseTableRows reads one table per line of whitespace-separated integers.
// Blank lines are skipped and '#' starts a comment.
func ParseTableRows(r io.Reader) ([][]int, error) {
	var rows [][]int

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		row := make([]int, len(fields))
		for i, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q is not an integer", ErrMalformedTable, lineNum, field)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}

	return rows, nil
}

// DefaultTableRows returns the standard DES tables shipped with the package.
func DefaultTableRows() ([][]int, error) {
	return ParseTableRows(bytes.NewReader(defaultTableFile))
}

func DefaultTableSet() (*TableSet, error) {
	rows, err := DefaultTableRows()
	if err != nil {
		return nil, err
	}
	return NewTableSet(rows)
}

// LoadTableSet reads and validates a table file. An empty path selects the
// embedded standard tables.
func LoadTableSet(path string) (*TableSet, error) {
	if path == "" {
		return DefaultTableSet()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer f.Close()

	rows, err := ParseTableRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ts, err := NewTableSet(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}
