package costbasis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // permissive, allows single-digit month/day

// DateFormat is the ISO-8601 format used to write dates.
const DateFormat = "2006-01-02"

// Date represents a calendar day. The zero value is not a valid day and
// reports IsZero.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }
func (d Date) String() string    { return d.time().Format(DateFormat) }
func (d Date) IsZero() bool      { return d == Date{} }

// time returns a canonical UTC midnight time, comparable with ==.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Time returns the day at midnight UTC.
func (d Date) Time() time.Time { return d.time() }

func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }

// Add returns the date i days later (or earlier if i is negative).
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// Today returns the current day in local time.
func Today() Date { return NewDate(time.Now().Date()) }

// EndOfYear returns December 31st of the given year.
func EndOfYear(year int) Date { return NewDate(year, time.December, 31) }

var relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)

// ParseDate parses a Date from a string.
//
// Accepted forms: ISO dates, leniently ("2025-7-1"), "today" or "0d", and
// relative offsets from today with a mandatory sign ("-1d", "+2w", "-3m", "-1y").
func ParseDate(str string) (Date, error) {
	str = strings.TrimSpace(str)
	switch str {
	case "0d", "today":
		return Today(), nil
	}

	if match := relativeDateRE.FindStringSubmatch(str); match != nil {
		num, err := strconv.Atoi(match[2])
		if err != nil {
			return Date{}, fmt.Errorf("invalid number in relative date %q: %w", str, err)
		}
		if match[1] == "-" {
			num = -num
		}
		today := Today()
		switch match[3] {
		case "d":
			return today.Add(num), nil
		case "w":
			return today.Add(num * 7), nil
		case "m":
			return NewDate(today.Year(), today.Month()+time.Month(num), today.Day()), nil
		case "y":
			return NewDate(today.Year()+num, today.Month(), today.Day()), nil
		}
	}
	return parseDataDate(str)
}

// parseDataDate is the strict parser used for data files: only calendar
// dates are accepted, never relative ones.
func parseDataDate(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, strings.TrimSpace(str))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q", str, DateFormat)
	}
	return NewDate(on.Date()), nil
}

// MustParse is like ParseDate but panics on error.
func MustParse(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(str))
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalText parses a data file date. YAML decoding goes through it.
func (d *Date) UnmarshalText(text []byte) error {
	on, err := parseDataDate(string(text))
	if err != nil {
		return err
	}
	*d = on
	return nil
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
