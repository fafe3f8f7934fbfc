package models

import "time"

// CommandLog is one append-only audit row for an inbound command.
type CommandLog struct {
	Origin    Origin
	Command   string // first token, lowercased
	Message   string // raw command text
	Timestamp time.Time
	Source    string // short tag identifying the bot credential
}
