// Package session keeps short-lived per-user memory of the last resolved
// chat turn. A Save overwrites every field and restarts the expiry.
package session

import (
	"encoding/base64"
	"time"
)

// DefaultTTL is how long a session survives without a new turn.
const DefaultTTL = 30 * time.Minute

// Key returns the storage key for a user. User ids are free text, so they
// are encoded to fit NATS key rules.
func Key(userID string) string {
	return "user." + base64.RawURLEncoding.EncodeToString([]byte(userID))
}
