package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/collection"
	"github.com/erazemk/zbirka/internal/gateway"
)

const defaultServer = "http://localhost:8080"

// savedSession is the signed-in state kept between invocations.
type savedSession struct {
	Server string `json:"server"`
	auth.Session
}

// sessionPath returns where the session file lives. ZBIRKA_CONFIG overrides
// the user config directory.
func sessionPath() (string, error) {
	dir := os.Getenv("ZBIRKA_CONFIG")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locating config directory: %w", err)
		}
		dir = filepath.Join(base, "zbirka")
	}
	return filepath.Join(dir, "session.json"), nil
}

// loadSession reads the saved session. It returns nil without error when
// nobody is signed in.
func loadSession() (*savedSession, error) {
	p, err := sessionPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	var s savedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", p, err)
	}
	return &s, nil
}

func saveSession(s *savedSession) error {
	p, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func clearSession() error {
	p, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// serverFlag is the -server flag shared by every client command.
type serverFlag struct {
	server string
}

func (s *serverFlag) register(f *flag.FlagSet) {
	f.StringVar(&s.server, "server", "", "server URL (default: the signed-in server or "+defaultServer+")")
}

// resolve picks the explicit -server value, then the saved session's server.
func (s *serverFlag) resolve(saved *savedSession) string {
	switch {
	case s.server != "":
		return s.server
	case saved != nil && saved.Server != "":
		return saved.Server
	}
	return defaultServer
}

// signedIn loads the saved session and builds a collection controller on top
// of the remote gateway.
func (s *serverFlag) signedIn() (*collection.Controller, *savedSession, error) {
	saved, err := loadSession()
	if err != nil {
		return nil, nil, err
	}
	if saved == nil {
		return nil, nil, gateway.ErrNotAuthenticated
	}
	remote := gateway.NewRemote(s.resolve(saved), &saved.Session)
	return collection.New(remote), saved, nil
}

// fail prints err and maps it to an exit status. A missing or expired
// session gets a hint to sign in again.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if errors.Is(err, gateway.ErrNotAuthenticated) {
		fmt.Fprintln(os.Stderr, "run 'zbirka login' to sign in")
	}
	return subcommands.ExitFailure
}

// readPassword returns the flag value, or the first line of r when the flag
// is empty.
func readPassword(flagValue string, r io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
