package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/client/client"
	"github.com/dmitrijs2005/shopfront/internal/client/services"
	"github.com/dmitrijs2005/shopfront/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates the account.
// The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	created, err := a.sessions.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrConflict) {
			fmt.Fprintln(a.out, "This email is already registered, try login")
		} else {
			a.printError(err)
		}
		return err
	}

	if !created {
		fmt.Fprintln(a.out, "Account was not created")
		return nil
	}

	fmt.Fprintln(a.out, "Success! You can now login")
	return nil
}

// Login prompts for credentials, authenticates and stores the session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.sessions.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Invalid email or password")
		} else {
			a.printError(err)
		}
		return err
	}

	a.session = sess
	fmt.Fprintf(a.out, "Logged in as %s, session valid until %s\n", sess.Email, sess.ExpiresAt.Local().Format(time.DateTime))
	return nil
}

// Logout forgets the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		a.printError(err)
		return err
	}
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	sess, err := a.sessions.Current(ctx)
	if err != nil {
		a.session = nil
		if errors.Is(err, services.ErrNoSession) {
			fmt.Fprintln(a.out, "Not logged in")
			return nil
		}
		a.printError(err)
		return err
	}

	a.session = sess
	fmt.Fprintf(a.out, "email:   %s\nuser id: %s\nexpires: %s\n", sess.Email, sess.Subject, sess.ExpiresAt.Local().Format(time.DateTime))
	return nil
}
