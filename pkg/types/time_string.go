package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeLayout формат времени HH:MM (24 часа)
const timeLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")
)

// TimeString время суток в формате "HH:MM"
// Используется для времени начала слотов и рабочих часов.
// Хранится в БД как строка (колонка TIME или VARCHAR), лексикографическое
// сравнение строк совпадает с хронологическим порядком.
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает дату и секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" в TimeString
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", ErrInvalidTimeString
	}
	return TimeString(t.Format(timeLayout)), nil
}

// Validate проверяет, что значение соответствует формату HH:MM
func (ts TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(ts)); err != nil {
		return ErrInvalidTimeString
	}
	return nil
}

// IsZero возвращает true, если значение пустое
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// IsBefore возвращает true, если ts строго раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	return string(ts) < string(other)
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return string(ts) > string(other)
}

// AddMinutes возвращает время через minutes минут
// Возвращает ошибку, если результат выходит за пределы суток
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return "", ErrInvalidTimeString
	}

	result := t.Add(time.Duration(minutes) * time.Minute)

	// Переход через полночь не поддерживается: рабочий день всегда в пределах суток
	if result.Day() != t.Day() {
		return "", fmt.Errorf("%w: result crosses midnight", ErrInvalidTimeString)
	}

	return TimeString(result.Format(timeLayout)), nil
}

// MinutesUntil возвращает количество минут от ts до other
func (ts TimeString) MinutesUntil(other TimeString) (int, error) {
	from, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return 0, ErrInvalidTimeString
	}
	to, err := time.Parse(timeLayout, string(other))
	if err != nil {
		return 0, ErrInvalidTimeString
	}
	return int(to.Sub(from).Minutes()), nil
}

// String возвращает строковое представление времени
func (ts TimeString) String() string {
	return string(ts)
}

// Value реализует driver.Valuer для записи в БД
func (ts TimeString) Value() (driver.Value, error) {
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return string(ts), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает string, []byte и time.Time (колонка TIME приходит как time.Time у lib/pq)
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := NewTimeStringFromString(trimSeconds(v))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(trimSeconds(string(v)))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	case nil:
		*ts = ""
		return nil
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}
}

// trimSeconds обрезает секунды из "HH:MM:SS"
func trimSeconds(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
