package sync

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestOAuthConfigCreation(t *testing.T) {
	config, err := NewOAuthConfig("id", "secret", "")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{ScopeContacts, ScopeCalendar}, config.Scopes)
	assert.Equal(t, "http://localhost:8085/oauth/callback", config.RedirectURL)
}

func TestOAuthConfigNeedsCredentials(t *testing.T) {
	_, err := NewOAuthConfig("", "secret", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestTokenPathXDG(t *testing.T) {
	path := TokenPath()

	assert.True(t, strings.HasPrefix(path, filepath.Join(xdg.DataHome, "amil")), path)
	assert.Equal(t, "google-credentials.json", filepath.Base(path))
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		TokenType:    "Bearer",
		RefreshToken: "refresh",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, SaveToken(path, token))
	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestLoadTokenMissing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCallbackAddr(t *testing.T) {
	addr, err := callbackAddr("http://localhost:9999/oauth/callback")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9999", addr)

	_, err = callbackAddr("http://localhost/oauth/callback")
	assert.Error(t, err)
}

func TestHTTPClientNeedsToken(t *testing.T) {
	config, err := NewOAuthConfig("id", "secret", "")
	require.NoError(t, err)

	_, err = HTTPClient(t.Context(), config, nil)
	assert.Error(t, err)
}
