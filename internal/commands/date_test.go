package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/taskdeck/bot/domain"
)

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("03/15/2024")
	if err != nil {
		t.Fatalf("ParseDueDate(03/15/2024) error = %v", err)
	}
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseDueDate(03/15/2024) = %v, want %v", got, want)
	}
}

func TestParseDueDateLeapDay(t *testing.T) {
	got, err := ParseDueDate("02/29/2024")
	if err != nil {
		t.Fatalf("ParseDueDate(02/29/2024) error = %v", err)
	}
	if got.Day() != 29 || got.Month() != time.February {
		t.Fatalf("ParseDueDate(02/29/2024) = %v, want Feb 29", got)
	}
}

func TestParseDueDateRejectsInvalid(t *testing.T) {
	cases := []string{
		"02/30/2024",  // overflow day
		"02/29/2023",  // no leap day
		"13/01/2024",  // month out of range
		"00/10/2024",  // zero month
		"2024/03/15",  // wrong field order
		"03-15-2024",  // wrong separator
		"03/15",       // missing year
		"aa/bb/cccc",  // not numeric
		"",            // empty
		"3/15/24/foo", // extra field
	}
	for _, raw := range cases {
		if _, err := ParseDueDate(raw); err == nil {
			t.Fatalf("ParseDueDate(%q) error = nil, want invalid", raw)
		} else {
			var dErr *domain.Error
			if !errors.As(err, &dErr) || dErr.Code != domain.ErrCodeInvalid {
				t.Fatalf("ParseDueDate(%q) error = %v, want INVALID domain error", raw, err)
			}
		}
	}
}
