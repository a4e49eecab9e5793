// Copyright (c) 2026 Mogger. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTTL is the duration a browser session remains valid.
	// Long-lived (30 days) to provide a good reader experience.
	SessionTTL = 30 * 24 * time.Hour

	// SessionTokenLength is the byte length of the random session token.
	SessionTokenLength = 24

	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute
)

// # Group Names

const (
	// GroupAdmin is the all-permission group assigned during initial setup.
	GroupAdmin = "admin"

	// GroupMember is the default group for self-service signups.
	GroupMember = "member"
)
