package models

import (
	"bytes"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// Date is a calendar day. It is stored through datatypes.Date and travels
// as "YYYY-MM-DD" in JSON.
type Date struct {
	datatypes.Date
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))}
}

func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" and, for older clients, a full RFC 3339
// timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return err
		}
	}

	*d = NewDate(t)
	return nil
}
