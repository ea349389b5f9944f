package domain

import "time"

// TokenPair is what login hands back to the client.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRecord is the ledger entry for an issued refresh token. A record is
// outstanding until BlacklistedAt is set.
type RefreshRecord struct {
	JTI           string
	PrincipalID   string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	BlacklistedAt *time.Time
}

func (r RefreshRecord) Blacklisted() bool { return r.BlacklistedAt != nil }
