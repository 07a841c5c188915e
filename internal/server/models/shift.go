// Package models defines server-side data models read from and persisted in
// the database.
package models

import "github.com/dmitrijs2005/tippace/internal/datex"

// Shift is one worked shift as logged by the user. The pace engine only
// reads shifts; they are created and edited elsewhere.
type Shift struct {
	ID     string
	UserID string
	// Date is the accounting date of the shift, with no time of day.
	Date datex.Date

	Hours       float64
	Sales       float64
	CashTips    float64
	CardTips    float64
	TipOutTotal float64

	Location string
	Tags     []string
	// Weather is the condition label of the attached weather snapshot, if any.
	Weather string
}

// Net is cash + card tips minus what was tipped out. It may be negative.
func (s Shift) Net() float64 {
	return s.CashTips + s.CardTips - s.TipOutTotal
}
