package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Session is the signed-in state kept between client runs.
type Session struct {
	URL   string `json:"url"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

// SessionFile persists a Session as JSON at Path.
type SessionFile struct {
	Path string
}

// Load reads the session. A missing file yields an empty session.
func (f SessionFile) Load() (Session, error) {
	var s Session
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse session: %w", err)
	}
	return s, nil
}

// Save writes the session readable by the owner only.
func (f SessionFile) Save(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the session file if present.
func (f SessionFile) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
