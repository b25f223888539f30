package domain

import "time"

// Provider is the practitioner whose calendar is scheduled, as resolved from the provider directory
type Provider struct {
	ID                   int64
	OrganizationID       int64
	FullName             string
	Location             *time.Location // provider-local wall clock
	AcceptsPublicBooking bool
}

// BelongsTo returns true if the provider is listed in the organization
func (p *Provider) BelongsTo(organizationID int64) bool {
	return p.OrganizationID == organizationID
}
