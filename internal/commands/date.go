package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/taskdeck/bot/domain"
)

var errBadDate = domain.NewError(domain.ErrCodeInvalid, "Invalid date format. Please use MM/DD/YYYY.")

// ParseDueDate parses a due date in strict MM/DD/YYYY order. All three
// fields must be numeric and the result must round-trip to the same
// calendar date, which rejects overflow dates like 02/30 as well as
// out-of-range months.
func ParseDueDate(raw string) (*time.Time, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return nil, errBadDate
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, errBadDate
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, errBadDate
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, errBadDate
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return nil, errBadDate
	}
	return &date, nil
}
