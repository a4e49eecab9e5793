// Copyright (c) 2026 Mogger. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amandag/mogger/internal/platform/sec"
)

/*
TestHashPassword verifies the salted hash round trip and that the salt
actually participates in the digest.
*/
func TestHashPassword(t *testing.T) {
	salt, err := sec.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, sec.SaltLength)

	hash, err := sec.HashPassword("correct horse", salt)
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct horse", salt, hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", salt, hash))

	// A different salt must not verify the same password.
	otherSalt, err := sec.GenerateSalt()
	require.NoError(t, err)
	assert.False(t, sec.CheckPasswordHash("correct horse", otherSalt, hash))
}

/*
TestCheckLegacyPasswordHash verifies the pre-salt scheme used by accounts
flagged for rehash.
*/
func TestCheckLegacyPasswordHash(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, sec.CheckLegacyPasswordHash("correct horse", string(raw)))
	assert.False(t, sec.CheckLegacyPasswordHash("wrong horse", string(raw)))
}

/*
TestGenerateSecureToken verifies token length and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(24)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(24)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
