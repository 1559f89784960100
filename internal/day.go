package internal

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DayLayout is the storage and display format of a Day.
const DayLayout = "2006-01-02"

// Day is a calendar date without a time of day.
//
// Days are stored as YYYY-MM-DD text so that MAX(date) and ORDER BY date
// in SQLite follow calendar order.
type Day time.Time

// NewDay returns the Day for the given date in UTC.
func NewDay(year int, month time.Month, day int) Day {
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the Day on which t occurs in t's location.
func DayOf(t time.Time) Day {
	year, month, day := t.Date()
	return NewDay(year, month, day)
}

// Today returns the current local date.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// String returns the day formatted as YYYY-MM-DD.
func (d Day) String() string {
	return time.Time(d).Format(DayLayout)
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return time.Time(d)
}

// IsZero reports if the day is the zero value.
func (d Day) IsZero() bool {
	return time.Time(d).IsZero()
}

// Before reports whether d is an earlier day than o.
func (d Day) Before(o Day) bool {
	return time.Time(d).Before(time.Time(o))
}

// Scan reads the value from the database. Text and time values are accepted
// so rows written by other tools still load.
func (d *Day) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Day{}
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case time.Time:
		*d = DayOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Day", value)
	}
}

func (d *Day) parse(s string) error {
	// Some drivers hand back full timestamps for date-like columns
	if len(s) > len(DayLayout) {
		s = s[:len(DayLayout)]
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (d Day) Value() (driver.Value, error) {
	return d.String(), nil
}

// GormDataType defines the column type used by gorm.
func (Day) GormDataType() string {
	return "text"
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(text []byte) error {
	return d.parse(string(text))
}
