package story

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidID is returned by ParseID for ids that are not positive integers.
var ErrInvalidID = errors.New("invalid story id")

// ParseID converts an identifier taken from a location or command line into
// a story id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
