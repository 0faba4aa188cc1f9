package entity

import "time"

// DefaultBusinessName is the name given to a lazily provisioned business.
const DefaultBusinessName = "My Shop"

// Business is the single per-user tenant scope. One row per UserID.
type Business struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

// Scope is the (user, business) pair every stock and party query is filtered by.
type Scope struct {
	UserID     string
	BusinessID string
}

// Scope returns the tenant scope rooted at this business.
func (b *Business) Scope() Scope {
	return Scope{UserID: b.UserID, BusinessID: b.ID}
}
