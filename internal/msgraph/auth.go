package msgraph

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/peterbourgon/diskv/v3"
	"golang.org/x/oauth2"

	"github.com/winstoncvm/jcal/internal/config"
)

const (
	loginBase = "https://login.microsoftonline.com/"
	tokenKey  = "msgraph_token"
)

// calendarScopes is read access plus a refresh token.
var calendarScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

// Account is the journal's Microsoft sign-in. Its token lives in a diskv
// store at <jcal home>/auth.
type Account struct {
	oauth  *oauth2.Config
	tokens *diskv.Diskv
	prompt io.Writer
}

// NewAccount signs in with the tenant and client from the outlook config
// section. Device code instructions are written to prompt.
func NewAccount(o config.OutlookConfig, home string, prompt io.Writer) *Account {
	dir := filepath.Join(home, "auth")
	return &Account{
		oauth: &oauth2.Config{
			ClientID: o.ClientID,
			Scopes:   calendarScopes,
			Endpoint: oauth2.Endpoint{
				DeviceAuthURL: loginBase + o.TenantID + "/oauth2/v2.0/devicecode",
				TokenURL:      loginBase + o.TenantID + "/oauth2/v2.0/token",
				AuthStyle:     oauth2.AuthStyleInParams,
			},
		},
		tokens: diskv.New(diskv.Options{
			BasePath: dir,
			TempDir:  filepath.Join(dir, ".tmp"),
			PathPerm: 0o700,
			FilePerm: 0o600,
		}),
		prompt: prompt,
	}
}

// SavedToken returns the stored token, or nil when the account never signed in.
func (a *Account) SavedToken() (*oauth2.Token, error) {
	if !a.tokens.Has(tokenKey) {
		return nil, nil
	}
	data, err := a.tokens.Read(tokenKey)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	var tok oauth2.Token
	if err := sonic.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token (delete %s to sign in again): %w", filepath.Join(a.tokens.BasePath, tokenKey), err)
	}
	return &tok, nil
}

func (a *Account) saveToken(tok *oauth2.Token) error {
	data, err := sonic.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := a.tokens.Write(tokenKey, data); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

// TokenSource returns the source Graph requests authenticate with. A saved
// token is handed to oauth2, which refreshes it as needed; if there is none,
// or the identity platform rejects it, the device code flow runs.
func (a *Account) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := a.SavedToken()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		tok = nil
	}
	if tok != nil {
		ts := a.storing(ctx, tok)
		if _, err := ts.Token(); err == nil {
			return ts, nil
		}
		fmt.Fprintf(os.Stderr, "Warning: saved sign-in no longer valid (%v), signing in again\n", err)
	}

	tok, err = a.signIn(ctx)
	if err != nil {
		return nil, err
	}
	return a.storing(ctx, tok), nil
}

func (a *Account) signIn(ctx context.Context) (*oauth2.Token, error) {
	auth, err := a.oauth.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device code request failed: %w", err)
	}
	fmt.Fprintf(a.prompt, "\nTo sign in, open %s and enter the code %s\n\n", auth.VerificationURI, auth.UserCode)

	tok, err := a.oauth.DeviceAccessToken(ctx, auth)
	if err != nil {
		return nil, fmt.Errorf("device sign-in failed: %w", err)
	}
	if err := a.saveToken(tok); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return tok, nil
}

// storing wraps oauth2's refreshing source for tok so each new access token
// is written back to the account.
func (a *Account) storing(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return &storingSource{src: a.oauth.TokenSource(ctx, tok), account: a, saved: tok.AccessToken}
}

type storingSource struct {
	src     oauth2.TokenSource
	account *Account
	saved   string
}

func (s *storingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.saved {
		if err := s.account.saveToken(tok); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		s.saved = tok.AccessToken
	}
	return tok, nil
}
