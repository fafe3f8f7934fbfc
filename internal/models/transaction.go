package models

import "time"

// Origin identifies where a command came from: the chat it was issued in and
// the user who issued it.
type Origin struct {
	ChatID int64
	UserID int64
}

// Transaction is one completed transfer between two accounts. Mints create
// balance without a paired debit and are not recorded here.
type Transaction struct {
	ID          int64
	FromAddress string
	ToAddress   string
	Amount      int64
	Timestamp   time.Time
	Origin      Origin
}
