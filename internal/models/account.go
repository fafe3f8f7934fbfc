package models

// Account is one custodial ASHED account. The address is derived from the
// owner's Telegram identity and never changes; the balance is a non-negative
// integer quantity of points.
type Account struct {
	Address string
	Balance int64
}
