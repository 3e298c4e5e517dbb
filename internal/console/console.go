// Package console provides the interactive menu wrapped around the auth
// service. It owns no authentication logic; it translates menu choices into
// service calls and outcomes into messages.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dverne/gatekeeper/internal/model"
	"github.com/dverne/gatekeeper/internal/service"
)

// Console runs the interactive register/login/logout loop. The current
// session token is the only state it holds.
type Console struct {
	auth *service.Auth
	in   *bufio.Reader
	out  io.Writer

	// readPassword is a test seam; the default reads without echo when
	// stdin is a terminal and falls back to a plain line otherwise.
	readPassword func() (string, error)

	token string
}

func New(auth *service.Auth, in *bufio.Reader, out io.Writer) *Console {
	c := &Console{
		auth: auth,
		in:   in,
		out:  out,
	}
	c.readPassword = c.defaultReadPassword
	return c
}

// Run loops over the menu until the user exits, input ends, or ctx is
// cancelled. Cancellation is checked between iterations; reads themselves
// block.
func (c *Console) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var err error
		if c.token == "" {
			err = c.anonymousMenu(ctx)
		} else {
			err = c.authenticatedMenu(ctx)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errExit = errors.New("exit requested")

func (c *Console) anonymousMenu(ctx context.Context) error {
	fmt.Fprint(c.out, "1. Register\n2. Login\n3. Exit\nChoose an option: ")

	choice, err := c.readLine()
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return c.register(ctx)
	case "2":
		return c.login(ctx)
	case "3":
		return errExit
	default:
		fmt.Fprintln(c.out, "Invalid option. Please choose 1, 2, or 3.")
		return nil
	}
}

func (c *Console) authenticatedMenu(ctx context.Context) error {
	fmt.Fprint(c.out, "1. Who am I\n2. Logout\n3. Exit\nChoose an option: ")

	choice, err := c.readLine()
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return c.whoami(ctx)
	case "2":
		return c.logout(ctx)
	case "3":
		return errExit
	default:
		fmt.Fprintln(c.out, "Invalid option. Please choose 1, 2, or 3.")
		return nil
	}
}

func (c *Console) register(ctx context.Context) error {
	username, password, err := c.promptCredentials()
	if err != nil {
		return err
	}

	_, err = c.auth.Register(ctx, username, password)
	switch {
	case errors.Is(err, model.ErrInvalidUsername):
		fmt.Fprintln(c.out, "Invalid username. Username cannot be empty or contain commas.")
	case errors.Is(err, model.ErrInvalidPassword):
		fmt.Fprintln(c.out, "Invalid password. Password must be at least 8 characters long and include uppercase, lowercase, digits, and special characters.")
	case errors.Is(err, model.ErrUsernameTaken):
		fmt.Fprintln(c.out, "Username already exists.")
	case err != nil:
		fmt.Fprintln(c.out, "Registration failed: the account store is unavailable. Please try again.")
	default:
		fmt.Fprintln(c.out, "User registered successfully!")
	}
	return nil
}

func (c *Console) login(ctx context.Context) error {
	username, password, err := c.promptCredentials()
	if err != nil {
		return err
	}

	token, err := c.auth.Login(ctx, username, password)
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		fmt.Fprintln(c.out, "Login failed. Invalid username or password.")
	case err != nil:
		fmt.Fprintln(c.out, "Login failed: the account store is unavailable. Please try again.")
	default:
		c.token = token
		fmt.Fprintln(c.out, "Login successful!")
	}
	return nil
}

func (c *Console) logout(ctx context.Context) error {
	if err := c.auth.Logout(ctx, c.token); err != nil {
		return err
	}
	c.token = ""
	fmt.Fprintln(c.out, "Logged out successfully.")
	return nil
}

func (c *Console) whoami(ctx context.Context) error {
	session, err := c.auth.Authenticate(ctx, c.token)
	if errors.Is(err, model.ErrNotFound) {
		c.token = ""
		fmt.Fprintln(c.out, "Your session has expired. Please log in again.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Logged in as %s (session expires at %s).\n",
		session.Username, session.ExpiresAt.Format("15:04:05"))
	return nil
}

func (c *Console) promptCredentials() (username, password string, err error) {
	fmt.Fprint(c.out, "Enter username: ")
	username, err = c.readLine()
	if err != nil {
		return "", "", err
	}

	fmt.Fprint(c.out, "Enter password: ")
	password, err = c.readPassword()
	if err != nil {
		return "", "", err
	}

	return username, password, nil
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) defaultReadPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return c.readLine()
}
