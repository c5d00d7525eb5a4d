package domain

import "time"

// OutboundEmail is the durable record of one alert notification attempt,
// written regardless of whether a real transport attempt was made or
// succeeded. Append-only.
type OutboundEmail struct {
	ID        string
	Recipient string
	Subject   string
	Body      string
	CreatedAt time.Time
}
