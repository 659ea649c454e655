// ABOUTME: OAuth configuration and token management for Google APIs
// ABOUTME: Handles the browser consent flow and token storage at XDG paths
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	ScopeContacts = "https://www.googleapis.com/auth/contacts.readonly"
	ScopeCalendar = "https://www.googleapis.com/auth/calendar.readonly"

	// DefaultCallbackAddr is where the consent redirect lands.
	DefaultCallbackAddr = "localhost:8085"
)

var ErrMissingCredentials = errors.New("google OAuth credentials not configured")

// NewOAuthConfig creates OAuth2 config for the People and Calendar APIs.
// Users register their own OAuth app in Google Cloud Console.
func NewOAuthConfig(clientID, clientSecret, callbackAddr string) (*oauth2.Config, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: set google.client_id and google.client_secret (or AMIL_GOOGLE_CLIENT_ID / AMIL_GOOGLE_CLIENT_SECRET)", ErrMissingCredentials)
	}
	if callbackAddr == "" {
		callbackAddr = DefaultCallbackAddr
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "http://" + callbackAddr + "/oauth/callback",
		Scopes:       []string{ScopeContacts, ScopeCalendar},
		Endpoint:     google.Endpoint,
	}, nil
}

// TokenPath returns XDG-compliant path for storing OAuth tokens.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "amil", "google-credentials.json")
}

// SaveToken writes the token with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}

func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}

// Authenticate runs the consent flow: it serves the redirect on the config's
// callback address, points the user at the consent page and exchanges the
// returned code.
func Authenticate(ctx context.Context, config *oauth2.Config, out io.Writer) (*oauth2.Token, error) {
	redirect, err := callbackAddr(config.RedirectURL)
	if err != nil {
		return nil, err
	}

	tokens := make(chan *oauth2.Token, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errs <- fmt.Errorf("no authorization code received")
			return
		}
		token, err := config.Exchange(ctx, code)
		if err != nil {
			errs <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}
		tokens <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: redirect, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errs <- err
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	authURL := config.AuthCodeURL("state", oauth2.AccessTypeOffline)
	_, _ = fmt.Fprintln(out, "Opening browser for Google OAuth...")
	_, _ = fmt.Fprintf(out, "\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
	_ = openBrowser(authURL)

	select {
	case token := <-tokens:
		return token, nil
	case err := <-errs:
		return nil, fmt.Errorf("OAuth flow failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// HTTPClient returns a client that refreshes the token as needed.
func HTTPClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*http.Client, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}
	return config.Client(ctx, token), nil
}

func callbackAddr(redirectURL string) (string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL: %w", err)
	}
	if _, _, err := net.SplitHostPort(u.Host); err != nil {
		return "", fmt.Errorf("redirect URL %q has no port: %w", redirectURL, err)
	}
	return u.Host, nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(target string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{target}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", target}
	default:
		cmd = "xdg-open"
		args = []string{target}
	}

	return exec.Command(cmd, args...).Start()
}
