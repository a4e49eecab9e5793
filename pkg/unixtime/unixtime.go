// Copyright (c) 2026 Mogger. All rights reserved.

// Package unixtime provides a timestamp that serializes as a Unix-seconds
// string, the format the site's templates and feed tooling have always
// consumed.
package unixtime

import (
	"strconv"
	"time"
)

// Time wraps time.Time with string-of-seconds JSON encoding.
type Time time.Time

// Now returns the current time.
func Now() Time {
	return Time(time.Now().UTC())
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(time.Time(t).Unix(), 10))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	*t = Time(time.Unix(seconds, 0).UTC())
	return nil
}

// Std returns the underlying time.Time.
func (t Time) Std() time.Time {
	return time.Time(t)
}
