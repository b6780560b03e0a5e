package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dropnshare/internal/client/client"
	"github.com/dmitrijs2005/dropnshare/internal/common"
)

// getSimpleText, getPassword and getLines are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getLines = GetLines

// Register prompts for name, email and password, creates the account and
// signs in with it.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.session.Register(ctx, client.RegisterPayload{Name: name, Email: email, Password: string(password)})
	if err != nil {
		a.reportAuthError("Registration", err)
		return err
	}

	a.greet()
	return nil
}

// Login prompts for credentials and signs in.
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

	if err := a.session.Login(ctx, client.LoginPayload{Email: email, Password: string(password)}); err != nil {
		a.reportAuthError("Login", err)
		return err
	}

	a.greet()
	return nil
}

// Logout ends the session locally even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.lastUpload = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	user := a.session.State().User
	if user == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
	if user.EmailVerifiedAt == "" {
		fmt.Fprintln(a.out, "Email not verified")
	}
	return nil
}

// Refresh re-reads the user from the server. A rejected token ends the
// session.
func (a *App) Refresh(ctx context.Context) error {
	wasLoggedIn := a.isLoggedIn()
	a.session.RefreshUser(ctx)
	if wasLoggedIn && !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Session expired, please log in again")
		return nil
	}
	return a.WhoAmI(ctx)
}

func (a *App) greet() {
	if user := a.session.State().User; user != nil {
		fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	}
}

func (a *App) reportAuthError(action string, err error) {
	if errors.Is(err, client.ErrUnavailable) {
		fmt.Fprintf(a.out, "%s failed: server unavailable (%v)\n", action, err)
		return
	}
	fmt.Fprintf(a.out, "%s failed: %v\n", action, err)
}
