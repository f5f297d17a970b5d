package youtube

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := saveToken(path, token); err != nil {
		t.Fatalf("saveToken failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := loadToken(path)
	if err != nil {
		t.Fatalf("loadToken failed: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Errorf("unexpected token: %+v", loaded)
	}
	if !loaded.Expiry.Equal(token.Expiry) {
		t.Errorf("expiry = %v, want %v", loaded.Expiry, token.Expiry)
	}
}

func TestGetToken_UsesValidCachedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cached := &oauth2.Token{AccessToken: "cached", Expiry: time.Now().Add(time.Hour)}
	if err := saveToken(path, cached); err != nil {
		t.Fatalf("saveToken failed: %v", err)
	}

	auth := NewOAuthAuthenticator(OAuthConfig{TokenFile: path}, nil)
	auth.openBrowser = func(string) { t.Error("browser should not be opened for a valid token") }

	token, err := auth.getToken(context.Background(), &oauth2.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "cached" {
		t.Errorf("access token = %q, want cached", token.AccessToken)
	}
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	auth := NewOAuthAuthenticator(OAuthConfig{
		CredentialsFile: filepath.Join(t.TempDir(), "absent.json"),
	}, nil)

	if _, err := auth.Authenticate(context.Background()); err == nil {
		t.Fatal("expected error for missing client secrets")
	}
}

func TestNotifyingTokenSource(t *testing.T) {
	var saved []string
	src := newNotifyingTokenSource(
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "fresh"}),
		&oauth2.Token{AccessToken: "stale"},
		func(tok *oauth2.Token) error {
			saved = append(saved, tok.AccessToken)
			return nil
		},
	)

	for i := 0; i < 3; i++ {
		tok, err := src.Token()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.AccessToken != "fresh" {
			t.Errorf("access token = %q, want fresh", tok.AccessToken)
		}
	}

	if len(saved) != 1 || saved[0] != "fresh" {
		t.Errorf("notify calls = %v, want exactly one for the new token", saved)
	}
}

func TestCallbackCode(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{name: "valid", query: "code=abc&state=s1", want: "abc"},
		{name: "state mismatch", query: "code=abc&state=other", wantErr: true},
		{name: "missing code", query: "state=s1", wantErr: true},
		{name: "denied", query: "error=access_denied&state=s1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := callbackCode(r, "s1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetTokenFromWeb(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("code") != "auth-code" {
			http.Error(w, "bad code", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"web-access","refresh_token":"web-refresh","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenServer.Close()

	tokenPath := filepath.Join(t.TempDir(), "token.json")
	var out bytes.Buffer
	auth := NewOAuthAuthenticator(OAuthConfig{
		TokenFile:    tokenPath,
		PersistToken: false,
		RedirectPort: freePort(t),
	}, &out)

	browserErr := make(chan error, 1)
	auth.openBrowser = func(authURL string) {
		go func() { browserErr <- followConsent(authURL, "auth-code") }()
	}

	config := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: tokenServer.URL,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	token, err := auth.getTokenFromWeb(ctx, config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := <-browserErr; err != nil {
		t.Fatalf("callback request failed: %v", err)
	}

	if token.AccessToken != "web-access" {
		t.Errorf("access token = %q, want web-access", token.AccessToken)
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token must not be written when persistence is off")
	}
	if !strings.Contains(out.String(), "Authentication successful!") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestGetTokenFromWeb_Cancelled(t *testing.T) {
	auth := NewOAuthAuthenticator(OAuthConfig{RedirectPort: freePort(t)}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	auth.openBrowser = func(string) { cancel() }

	_, err := auth.getTokenFromWeb(ctx, &oauth2.Config{})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// followConsent plays the browser: it reads the redirect and state from the
// consent URL and calls back with code
func followConsent(authURL, code string) error {
	u, err := url.Parse(authURL)
	if err != nil {
		return err
	}
	q := u.Query()
	callback := q.Get("redirect_uri") + "?" + url.Values{
		"code":  {code},
		"state": {q.Get("state")},
	}.Encode()

	resp, err := http.Get(callback)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("callback returned %s", resp.Status)
	}
	return nil
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
