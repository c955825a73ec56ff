package loader

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/viant/ossim/model/process"
	"github.com/viant/parsly"
)

// ErrInvalidTable is returned for a process table value that is not an integer.
var ErrInvalidTable = errors.New("loader: invalid process table")

// ParseTable reads a whitespace separated process table:
//
//	PID Arrival Burst Priority [Memory]
//	1   0       5     2        120
//
// The first line is a header and is skipped, as are blank lines and lines
// with fewer than four columns. Columns past the fifth are ignored.
func ParseTable(data []byte) (process.Records, error) {
	var records process.Records
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		if i == 0 {
			continue
		}
		fields, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidTable, i+1, err)
		}
		if len(fields) < 4 {
			continue
		}
		record := process.New(fields[0], fields[1], fields[2], fields[3])
		if len(fields) >= 5 {
			record.Memory = fields[4]
		}
		records = append(records, record)
	}
	return records, nil
}

// parseRow tokenizes one table line. It returns nil for rows with fewer
// than four columns; only the first five columns must be integers.
func parseRow(line []byte) ([]int, error) {
	cursor := parsly.NewCursor("", line, 0)
	var values []int
	var invalid error
	columns := 0
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, integerToken, fieldToken)
		switch matched.Code {
		case integerToken.Code, fieldToken.Code:
			columns++
			if columns > 5 {
				continue
			}
			text := matched.Text(cursor)
			value, err := strconv.Atoi(text)
			if err != nil || matched.Code == fieldToken.Code {
				if invalid == nil {
					invalid = fmt.Errorf("column %d: %q is not an integer", columns, text)
				}
				continue
			}
			values = append(values, value)
		default:
			if columns < 4 {
				return nil, nil
			}
			return values, invalid
		}
	}
}
