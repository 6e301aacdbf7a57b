package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/alphabot-ai/remarks/internal/client"

	"gopkg.in/yaml.v3"
)

// Session is the CLI login state persisted between invocations.
type Session struct {
	BaseURL string `yaml:"base_url"`
	Email   string `yaml:"email"`
	Token   string `yaml:"token"`
}

var errNotLoggedIn = errors.New("not logged in - run 'remarks login --email <email>'")

func sessionPath() string {
	if p := os.Getenv("REMARKS_SESSION"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".remarks", "session.yaml")
}

func loadSession() (Session, error) {
	path := sessionPath()
	if path == "" {
		return Session{}, errNotLoggedIn
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, errNotLoggedIn
		}
		return Session{}, err
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func saveSession(s Session) error {
	path := sessionPath()
	if path == "" {
		return errors.New("cannot locate home directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func clearSession() error {
	err := os.Remove(sessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// authenticatedClient returns a client carrying the saved token.
func authenticatedClient() (*client.Client, error) {
	s, err := loadSession()
	if err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, errNotLoggedIn
	}
	c := client.New(s.BaseURL)
	c.Token = s.Token
	return c, nil
}

// anonymousClient uses the saved base URL when there is one.
func anonymousClient(url string) *client.Client {
	if url == "" {
		if s, err := loadSession(); err == nil && s.BaseURL != "" {
			url = s.BaseURL
		} else {
			url = defaultURL
		}
	}
	return client.New(url)
}

const defaultURL = "http://localhost:8080"
