package domain

import "time"

// InstitutionalClient is an organization entity allowed to place orders
// (hospitals, clinics, etc.).
type InstitutionalClient struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
