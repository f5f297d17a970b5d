package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"scheduled-uploader/domain/distribution"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// OAuthConfig holds the configuration for OAuth 2.0 authentication
type OAuthConfig struct {
	CredentialsFile string // Path to OAuth client secrets JSON
	TokenFile       string // Path to load (and optionally store) the token
	PersistToken    bool   // Write new and refreshed tokens back to TokenFile
	RedirectPort    int    // Local port for the consent callback
}

// OAuthAuthenticator implements distribution.Authenticator with the
// installed-app OAuth flow
type OAuthAuthenticator struct {
	cfg         OAuthConfig
	output      io.Writer
	openBrowser func(url string)
}

// NewOAuthAuthenticator creates an authenticator that reports progress to output
func NewOAuthAuthenticator(cfg OAuthConfig, output io.Writer) *OAuthAuthenticator {
	if output == nil {
		output = io.Discard
	}
	return &OAuthAuthenticator{
		cfg:         cfg,
		output:      output,
		openBrowser: openBrowser,
	}
}

// Authenticate returns a YouTube client authorized for uploads
func (a *OAuthAuthenticator) Authenticate(ctx context.Context) (distribution.VideoClient, error) {
	b, err := os.ReadFile(a.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth client secrets file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse OAuth client secrets: %w", err)
	}

	token, err := a.getToken(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to get OAuth token: %w", err)
	}

	// Refreshes must keep working for an upload that outlives a cancellation.
	src := a.tokenSource(context.WithoutCancel(ctx), config, token)

	srv, err := youtube.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, src)))
	if err != nil {
		return nil, fmt.Errorf("unable to create youtube service: %w", err)
	}

	return NewClient(&GoogleVideosService{service: srv}), nil
}

// getToken uses the cached token when it is valid or refreshable and falls
// back to the consent flow otherwise
func (a *OAuthAuthenticator) getToken(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	token, err := loadToken(a.cfg.TokenFile)
	if err == nil {
		if token.Valid() {
			return token, nil
		}
		if token.RefreshToken != "" {
			refreshed, err := config.TokenSource(ctx, token).Token()
			if err == nil {
				a.persist(refreshed)
				return refreshed, nil
			}
			fmt.Fprintf(a.output, "Cached token could not be refreshed: %v\n", err)
		}
	}

	return a.getTokenFromWeb(ctx, config)
}

// tokenSource returns the token source used for API calls. With persistence
// enabled, tokens refreshed during the run are written back to the token file.
func (a *OAuthAuthenticator) tokenSource(ctx context.Context, config *oauth2.Config, token *oauth2.Token) oauth2.TokenSource {
	src := config.TokenSource(ctx, token)
	if !a.cfg.PersistToken {
		return src
	}
	return newNotifyingTokenSource(src, token, func(t *oauth2.Token) error {
		return saveToken(a.cfg.TokenFile, t)
	})
}

// persist saves token when persistence is enabled
func (a *OAuthAuthenticator) persist(token *oauth2.Token) {
	if !a.cfg.PersistToken {
		return
	}
	if err := saveToken(a.cfg.TokenFile, token); err != nil {
		fmt.Fprintf(a.output, "Warning: couldn't save token: %v\n", err)
	}
}

// getTokenFromWeb initiates the OAuth flow via browser
func (a *OAuthAuthenticator) getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", a.cfg.RedirectPort))
	if err != nil {
		return nil, fmt.Errorf("unable to listen for OAuth callback: %w", err)
	}

	config.RedirectURL = fmt.Sprintf("http://localhost:%d/", a.cfg.RedirectPort)
	state := uuid.NewString()

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		code, err := callbackCode(r, state)
		if err != nil {
			select {
			case errChan <- err:
			default:
			}
			http.Error(w, "Error: "+err.Error(), http.StatusBadRequest)
			return
		}
		select {
		case codeChan <- code:
		default:
		}
		fmt.Fprintf(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errChan <- err:
			default:
			}
		}
	}()
	defer server.Shutdown(context.WithoutCancel(ctx))

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, "Opening browser for YouTube authorization...")
	fmt.Fprintln(a.output, "If the browser doesn't open, please visit this URL:")
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, authURL)
	fmt.Fprintln(a.output)

	a.openBrowser(authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange auth code: %w", err)
	}

	if a.cfg.PersistToken {
		a.persist(token)
	} else {
		fmt.Fprintf(a.output, "Token not saved to %s (google.persist_token is off)\n", a.cfg.TokenFile)
	}

	fmt.Fprintln(a.output, "Authentication successful!")
	return token, nil
}

// callbackCode extracts the authorization code from the consent redirect
func callbackCode(r *http.Request, state string) (string, error) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return "", fmt.Errorf("authorization denied: %s", e)
	}
	if q.Get("state") != state {
		return "", fmt.Errorf("state mismatch in OAuth callback")
	}
	code := q.Get("code")
	if code == "" {
		return "", fmt.Errorf("no code in callback")
	}
	return code, nil
}

// loadToken loads a token from a file
func loadToken(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// saveToken saves a token to a file readable only by the owner
func saveToken(file string, token *oauth2.Token) error {
	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

// notifyingTokenSource calls notify whenever the underlying source hands out
// a new access token
type notifyingTokenSource struct {
	mu     sync.Mutex
	src    oauth2.TokenSource
	curr   *oauth2.Token
	notify func(*oauth2.Token) error
}

func newNotifyingTokenSource(src oauth2.TokenSource, curr *oauth2.Token, notify func(*oauth2.Token) error) *notifyingTokenSource {
	return &notifyingTokenSource{src: src, curr: curr, notify: notify}
}

// Token implements oauth2.TokenSource. A failed notify does not fail the request.
func (s *notifyingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curr == nil || s.curr.AccessToken != tok.AccessToken {
		s.curr = tok
		if err := s.notify(tok); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't save refreshed token: %v\n", err)
		}
	}
	return tok, nil
}

// openBrowser opens a URL in the default browser
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err == nil {
			cmd = exec.Command("xdg-open", url)
		} else if _, err := exec.LookPath("wslview"); err == nil {
			// WSL
			cmd = exec.Command("wslview", url)
		}
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}

	if cmd != nil {
		cmd.Start()
	}
}

// Ensure OAuthAuthenticator implements distribution.Authenticator
var _ distribution.Authenticator = (*OAuthAuthenticator)(nil)
