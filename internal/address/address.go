// Package address converts column and row positions to spreadsheet cell references.
package address

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidArgument is returned for column indices or letter codes that do not
// name a column.
var ErrInvalidArgument = errors.New("invalid argument")

// Letters returns the column letter code for a 1-based column index,
// using bijective base-26: 1 is "A", 26 is "Z", 27 is "AA".
func Letters(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("%w: column index must be positive, got %d", ErrInvalidArgument, n)
	}

	var buf [16]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:]), nil
}

// Index is the inverse of Letters.
func Index(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("%w: empty column letters", ErrInvalidArgument)
	}

	n := 0
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("%w: %q is not a column letter code", ErrInvalidArgument, letters)
		}
		if n > (int(^uint(0)>>1)-26)/26 {
			return 0, fmt.Errorf("%w: column %q out of range", ErrInvalidArgument, letters)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n, nil
}

// Reference returns the cell reference for a column and row, e.g. (2, 0) is "B0".
// Rows are used verbatim; callers decide whether they are 0- or 1-based.
func Reference(column, row int) (string, error) {
	if row < 0 {
		return "", fmt.Errorf("%w: row index must not be negative, got %d", ErrInvalidArgument, row)
	}
	letters, err := Letters(column)
	if err != nil {
		return "", err
	}
	return letters + strconv.Itoa(row), nil
}
