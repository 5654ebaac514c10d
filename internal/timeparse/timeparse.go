package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Лента отдает время с токеном "GMT+3" вместо числового смещения
const gmtToken = "GMT+3"

var layouts = []string{
	"02 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

var ErrMalformedTimestamp = errors.New("malformed timestamp")

type MalformedTimestampError struct {
	Value string
	Err   error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp %q: %v", e.Value, e.Err)
}

func (e *MalformedTimestampError) Unwrap() []error {
	return []error{ErrMalformedTimestamp, e.Err}
}

// Parser разбирает время из ленты и переводит его в зону отображения
type Parser struct {
	loc *time.Location
}

// Зона с фиксированным смещением от UTC
func FixedZone(offset time.Duration) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", int(offset.Hours())), int(offset.Seconds()))
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = FixedZone(3 * time.Hour)
	}
	return &Parser{loc: loc}
}

func (p *Parser) Location() *time.Location {
	return p.loc
}

func (p *Parser) Parse(value string) (time.Time, error) {
	normalized := strings.Replace(strings.TrimSpace(value), gmtToken, "+0300", 1)

	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, normalized)
		if err == nil {
			return t.In(p.loc), nil
		}
		lastErr = err
	}

	return time.Time{}, &MalformedTimestampError{Value: value, Err: lastErr}
}

// Ключ сортировки - секунды от эпохи
func SortKey(t time.Time) int64 {
	return t.Unix()
}
