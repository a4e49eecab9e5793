// Copyright (c) 2026 Mogger. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SaltLength is the byte length of per-user password salts.
const SaltLength = 16

// HashPassword hashes a plain-text password with the given salt.
//
// # Scheme
//
// The password and salt are first digested with SHA-256 (bounding bcrypt's
// 72-byte input limit and hardening long-input handling), the digest is
// base64-encoded to avoid zero bytes, and the result is hashed with bcrypt.
func HashPassword(plainTextPassword string, salt []byte) (string, error) {
	digest := passwordDigest(plainTextPassword, salt)

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(digest), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword string, salt []byte, existingHash string) bool {
	digest := passwordDigest(plainTextPassword, salt)
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(digest))
	return err == nil
}

// CheckLegacyPasswordHash compares a plain-text password with a hash
// produced by the pre-salt scheme (bcrypt over the raw password). Accounts
// carrying such hashes are flagged for rehash and upgraded on login.
func CheckLegacyPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// GenerateSalt returns [SaltLength] cryptographically random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("sec: failed to generate salt: %w", err)
	}
	return salt, nil
}

// passwordDigest combines password and salt into a base64 SHA-256 digest.
func passwordDigest(password string, salt []byte) string {
	hasher := sha256.New()
	hasher.Write([]byte(password))
	hasher.Write(salt)
	return base64.StdEncoding.EncodeToString(hasher.Sum(nil))
}
