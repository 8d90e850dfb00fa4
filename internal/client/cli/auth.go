package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/highlighter/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a user id and password and creates the account.
// The server logs the new user in, so the returned token is kept.
func (a *App) Register(ctx context.Context) error {
	userID, password, err := a.askCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Register(ctx, userID, string(password))
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Registered %s\n", u.UserID)
	return nil
}

// Login prompts for credentials and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	userID, password, err := a.askCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Login(ctx, userID, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Login successful")
	fmt.Fprintf(a.out, "Logged in as %s (%s -> %s)\n", u.UserID, u.SourceLanguage, u.TargetLanguage)
	return nil
}

func (a *App) askCredentials() (string, []byte, error) {
	userID, err := getSimpleText(a.reader, "Enter user id", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userID, password, nil
}

// WhoAmI prints the profile behind the current token.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s: %s -> %s, %d words\n", u.UserID, u.SourceLanguage, u.TargetLanguage, len(u.HighlightedWords))
	return nil
}

// Logout forgets the access token.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
