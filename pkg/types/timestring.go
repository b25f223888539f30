package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfRange возвращается, когда время выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// TimeString время суток (wall-clock) с точностью до секунды в формате "HH:MM:SS".
// Допускается "24:00:00" как конец суток - для окон, заканчивающихся в полночь.
// Пустая строка означает "не задано".
type TimeString string

// NewTimeString создает TimeString из time.Time (используются только часы, минуты и секунды)
func NewTimeString(t time.Time) TimeString {
	return fromSeconds(t.Hour()*secondsPerHour + t.Minute()*secondsPerMinute + t.Second())
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	seconds, err := parseSeconds(s)
	if err != nil {
		return "", err
	}
	return fromSeconds(seconds), nil
}

// MustTimeString парсит строку и паникует при ошибке (для констант и тестов)
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// TimeStringFromSeconds создает TimeString из количества секунд от начала суток
func TimeStringFromSeconds(seconds int) (TimeString, error) {
	if seconds < 0 || seconds > secondsPerDay {
		return "", fmt.Errorf("%w: %d seconds", ErrTimeOutOfRange, seconds)
	}
	return fromSeconds(seconds), nil
}

func fromSeconds(seconds int) TimeString {
	h := seconds / secondsPerHour
	m := (seconds % secondsPerHour) / secondsPerMinute
	s := seconds % secondsPerMinute
	return TimeString(fmt.Sprintf("%02d:%02d:%02d", h, m, s))
}

func parseSeconds(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	values := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		values[i] = v
	}

	h, m, sec := values[0], values[1], values[2]
	if m > 59 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, fmt.Errorf("%w: %q", ErrTimeOutOfRange, s)
	}

	return h*secondsPerHour + m*secondsPerMinute + sec, nil
}

// Seconds возвращает количество секунд от начала суток
func (t TimeString) Seconds() int {
	seconds, err := parseSeconds(string(t))
	if err != nil {
		return 0
	}
	return seconds
}

// Clock возвращает часы, минуты и секунды
func (t TimeString) Clock() (hour, min, sec int) {
	seconds := t.Seconds()
	return seconds / secondsPerHour, (seconds % secondsPerHour) / secondsPerMinute, seconds % secondsPerMinute
}

// AddMinutes возвращает время, сдвинутое на minutes минут.
// Возвращает ошибку, если результат выходит за пределы суток (больше 24:00:00 или меньше 00:00:00)
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	return TimeStringFromSeconds(t.Seconds() + minutes*secondsPerMinute)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Seconds() < other.Seconds()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Seconds() > other.Seconds()
}

// Equal возвращает true, если время совпадает
func (t TimeString) Equal(other TimeString) bool {
	return t.Seconds() == other.Seconds()
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := parseSeconds(string(t))
	return err
}

// String возвращает время в формате "HH:MM:SS"
func (t TimeString) String() string {
	return string(t)
}

// Short возвращает время в формате "HH:MM"
func (t TimeString) Short() string {
	if len(t) < 5 {
		return string(t)
	}
	return string(t)[:5]
}

// Value реализует driver.Valuer для записи в колонку TIME
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения колонки TIME
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// Postgres может вернуть дробные секунды ("09:00:00.000000")
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON сериализует время как строку "HH:MM:SS"
func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON принимает "HH:MM" или "HH:MM:SS"
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeString, err)
	}
	if s == "" {
		*t = ""
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
