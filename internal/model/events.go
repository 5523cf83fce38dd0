package model

import "time"

// ScanEvent is one good-piece scan captured on the floor. Quantity is kept as
// the raw text the scanner produced; the engine converts it at its input edge.
type ScanEvent struct {
	ID          int64         `json:"id"`
	Date        time.Time     `json:"date"`      // calendar date, midnight
	TimeOfDay   time.Duration `json:"timeOfDay"` // offset from midnight
	Workstation string        `json:"workstation"`
	Operator    string        `json:"operator"`
	Tool        string        `json:"tool"`
	Quantity    string        `json:"quantity"` // free-form numeric text
	Shift       string        `json:"shift"`    // shift label recorded at scan time
}

// Timestamp combines the calendar date and time-of-day into one instant.
func (e ScanEvent) Timestamp() time.Time {
	return e.Date.Add(e.TimeOfDay)
}

// DefectEvent is one defective unit. There is no quantity column: one row is
// one piece.
type DefectEvent struct {
	ID          int64         `json:"id"`
	Date        time.Time     `json:"date"`
	TimeOfDay   time.Duration `json:"timeOfDay"`
	Workstation string        `json:"workstation"`
	Operator    string        `json:"operator"`
	Tool        string        `json:"tool"`
	Code        string        `json:"code"`
	Description string        `json:"description"`
	Shift       string        `json:"shift"`
}

// Timestamp combines the calendar date and time-of-day into one instant.
func (e DefectEvent) Timestamp() time.Time {
	return e.Date.Add(e.TimeOfDay)
}
