package models

import "time"

// Tenant is the isolation boundary: every entity in the system is scoped by a
// tenant ID and no query or mutation crosses tenants.
type Tenant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
