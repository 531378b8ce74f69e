// Package auth provides a high-level API for persisting and retrieving the platform session from the system keyring.
//
// The login flow itself happens in a browser; what gets stored here is the resulting
// session cookie so that manifest requests against the platform host stay authenticated.
package auth

import (
	"encoding/json"

	"github.com/zalando/go-keyring"
)

const (
	service = "gcourse-cli"
	user    = "platform-session"
)

// Session couples a platform host with its authentication cookie.
type Session struct {
	// Host is the platform hostname the cookie is valid for (e.g. "school.example.com").
	Host string `json:"host"`
	// Cookie is the raw Cookie header value.
	Cookie string `json:"cookie"`
}

// SetSession persists the platform session to the system keyring.
func SetSession(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return keyring.Set(service, user, string(data))
}

// GetSession retrieves the platform session from the system keyring.
func GetSession() (Session, error) {
	data, err := keyring.Get(service, user)
	if err != nil {
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// DeleteSession removes the platform session from the system keyring.
func DeleteSession() error {
	return keyring.Delete(service, user)
}
