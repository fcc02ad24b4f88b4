package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/erazemk/zbirka/internal/gateway"
	"github.com/erazemk/zbirka/internal/model"
)

// credentialsCmd holds what signup and login share.
type credentialsCmd struct {
	serverFlag
	email    string
	password string
}

func (c *credentialsCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.email, "email", "", "account email")
	f.StringVar(&c.password, "password", "", "account password (read from stdin when empty)")
}

func (c *credentialsCmd) read() (string, string, error) {
	email := strings.TrimSpace(c.email)
	if email == "" {
		return "", "", model.Invalid("email required")
	}
	password, err := readPassword(c.password, os.Stdin)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

type signupCmd struct{ credentialsCmd }

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "create an account and sign in" }
func (*signupCmd) Usage() string {
	return "signup -email <email> [-password <password>] [-server <url>]\n"
}

func (c *signupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	email, password, err := c.read()
	if err != nil {
		return fail(err)
	}
	if err := model.ValidatePassword(password); err != nil {
		return fail(err)
	}

	server := c.resolve(nil)
	s, err := gateway.NewAccount(server).SignUp(ctx, email, password)
	if err != nil {
		return fail(err)
	}
	if err := saveSession(&savedSession{Server: server, Session: *s}); err != nil {
		return fail(err)
	}
	fmt.Printf("Signed up as %s\n", s.Email)
	return subcommands.ExitSuccess
}

type loginCmd struct{ credentialsCmd }

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in to a server" }
func (*loginCmd) Usage() string {
	return "login -email <email> [-password <password>] [-server <url>]\n"
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	email, password, err := c.read()
	if err != nil {
		return fail(err)
	}

	server := c.resolve(nil)
	s, err := gateway.NewAccount(server).SignIn(ctx, email, password)
	if err != nil {
		return fail(err)
	}
	if err := saveSession(&savedSession{Server: server, Session: *s}); err != nil {
		return fail(err)
	}
	fmt.Printf("Signed in as %s\n", s.Email)
	return subcommands.ExitSuccess
}

type logoutCmd struct{ serverFlag }

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "sign out and forget the saved session" }
func (*logoutCmd) Usage() string    { return "logout [-server <url>]\n" }

func (c *logoutCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	saved, err := loadSession()
	if err != nil {
		return fail(err)
	}
	if saved == nil {
		fmt.Println("Not signed in")
		return subcommands.ExitSuccess
	}

	// The local session is dropped even if the server cannot be reached.
	if err := gateway.NewAccount(c.resolve(saved)).SignOut(ctx, &saved.Session); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if err := clearSession(); err != nil {
		return fail(err)
	}
	fmt.Println("Signed out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{ serverFlag }

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the signed-in account" }
func (*whoamiCmd) Usage() string    { return "whoami [-server <url>]\n" }

func (c *whoamiCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	saved, err := loadSession()
	if err != nil {
		return fail(err)
	}
	if saved == nil {
		return fail(gateway.ErrNotAuthenticated)
	}
	p, err := gateway.NewAccount(c.resolve(saved)).Profile(ctx, &saved.Session)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%s (%s)\nmember since %s\n", saved.Email, p.Username, p.CreatedAt.Format("2006-01-02"))
	return subcommands.ExitSuccess
}

type deleteAccountCmd struct {
	serverFlag
	confirm string
}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "permanently delete the signed-in account" }
func (*deleteAccountCmd) Usage() string {
	return "delete-account -confirm DELETE [-server <url>]\n"
}

func (c *deleteAccountCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.confirm, "confirm", "", "must be DELETE")
}

func (c *deleteAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.confirm != "DELETE" {
		fmt.Fprintln(os.Stderr, "pass -confirm DELETE to delete your account and collection")
		return subcommands.ExitUsageError
	}
	saved, err := loadSession()
	if err != nil {
		return fail(err)
	}
	if saved == nil {
		return fail(gateway.ErrNotAuthenticated)
	}
	if err := gateway.NewAccount(c.resolve(saved)).DeleteAccount(ctx, &saved.Session); err != nil {
		return fail(err)
	}
	if err := clearSession(); err != nil {
		return fail(err)
	}
	fmt.Println("Account deleted")
	return subcommands.ExitSuccess
}
