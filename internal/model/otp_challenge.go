package model

import "time"

// OtpChallenge is the live (code, expiry) pair of an in-progress password reset.
type OtpChallenge struct {
	Code      string
	ExpiresAt time.Time
}

// NewOtpChallenge creates a challenge for code that lives for ttl from now.
func NewOtpChallenge(code string, now time.Time, ttl time.Duration) OtpChallenge {
	return OtpChallenge{Code: code, ExpiresAt: now.Add(ttl)}
}

// Matches reports whether code equals the stored code. An empty stored code
// never matches.
func (c *OtpChallenge) Matches(code string) bool {
	if c == nil || c.Code == "" {
		return false
	}
	return c.Code == code
}

// ExpiredAt reports whether the challenge is no longer usable at now.
// A challenge is live only while its expiry is strictly after now.
func (c *OtpChallenge) ExpiredAt(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
