package models

import "time"

// RegisterSession is one open/close cycle of the cash register. Exchange and
// payment workflows require an open session.
type RegisterSession struct {
	ID             int64      `db:"id" json:"id"`
	OpenedBy       string     `db:"opened_by" json:"openedBy"`
	OpeningBalance float64    `db:"opening_balance" json:"openingBalance"`
	ClosingBalance *float64   `db:"closing_balance" json:"closingBalance,omitempty"`
	Open           bool       `db:"open" json:"open"`
	OpenedAt       time.Time  `db:"opened_at" json:"openedAt"`
	ClosedAt       *time.Time `db:"closed_at" json:"closedAt,omitempty"`
}
