package domain

import "time"

type AlertSeverity string

const (
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// EventUnauthorizedOrderStatusQuery tags alerts raised when a caller without
// a privileged role asks for an order's status.
const EventUnauthorizedOrderStatusQuery = "unauthorized order status query"

// SecurityAlert records one detected unauthorized access attempt. Immutable
// after creation except for the acknowledged flag.
type SecurityAlert struct {
	ID           string
	EventType    string
	Severity     AlertSeverity
	Description  string
	UserID       string
	UserRole     string
	OrderID      string
	SourceIP     string
	DetectedAt   time.Time
	Acknowledged bool
}

// IsPrivilegedRole reports whether role may read order status.
func IsPrivilegedRole(role string) bool {
	switch role {
	case "admin", "operator":
		return true
	}
	return false
}

// ClassifySeverity applies the alert severity rule: only a privileged role
// downgrades to high; an absent or non-privileged role is critical.
func ClassifySeverity(role string) AlertSeverity {
	if IsPrivilegedRole(role) {
		return SeverityHigh
	}
	return SeverityCritical
}
