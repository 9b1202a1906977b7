package storage

import (
	"fmt"
	"time"
)

// Domain registration states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// Statuses lists every registration state, in lifecycle order.
var Statuses = []string{StatusPending, StatusApproved, StatusDenied}

// Domain is a name registered under one of the service's top-level domains.
type Domain struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TLD       string    `json:"tld"`
	IP        string    `json:"ip"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// FQDN returns the domain in name.tld form.
func (d *Domain) FQDN() string {
	return fmt.Sprintf("%s.%s", d.Name, d.TLD)
}

// IsValidStatus reports whether s is a known registration state.
func IsValidStatus(s string) bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// prepare fills server-side defaults before an insert.
func (d *Domain) prepare() error {
	if d.Name == "" || d.TLD == "" {
		return fmt.Errorf("domain name and tld are required")
	}
	if d.Status == "" {
		d.Status = StatusPending
	}
	if !IsValidStatus(d.Status) {
		return fmt.Errorf("invalid domain status: %q", d.Status)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return nil
}
