package drive

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DefaultCallbackAddr is where the local server waits for the OAuth redirect
const DefaultCallbackAddr = "localhost:8085"

// OAuthConfig holds the configuration for OAuth 2.0 authentication
type OAuthConfig struct {
	CredentialsFile string    // Path to OAuth client credentials JSON
	TokenFile       string    // Path to store/load token
	CallbackAddr    string    // host:port for the redirect listener
	Output          io.Writer // Where sign-in instructions are printed
}

// newOAuthDriveService creates a Drive service using OAuth 2.0 user authentication
func newOAuthDriveService(ctx context.Context, cfg OAuthConfig) (*GoogleDriveService, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse OAuth credentials: %w", err)
	}

	token, err := getToken(ctx, config, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to get OAuth token: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// getToken retrieves a token from file, refreshing it if needed, or initiates the OAuth flow
func getToken(ctx context.Context, config *oauth2.Config, cfg OAuthConfig) (*oauth2.Token, error) {
	if token, err := loadToken(cfg.TokenFile); err == nil {
		fresh, err := config.TokenSource(ctx, token).Token()
		if err == nil {
			if fresh.AccessToken != token.AccessToken {
				if err := saveToken(cfg.TokenFile, fresh); err != nil {
					fmt.Fprintf(cfg.Output, "Warning: couldn't save refreshed token: %v\n", err)
				}
			}
			return fresh, nil
		}
		// Refresh failed; fall through to a new sign-in
	}

	return getTokenFromWeb(ctx, config, cfg)
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
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

// authCallback receives the redirect of the installed-app flow
type authCallback struct {
	state string
	codes chan string
	errs  chan error
}

func newAuthCallback() (*authCallback, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("unable to generate OAuth state: %w", err)
	}
	return &authCallback{
		state: hex.EncodeToString(b),
		codes: make(chan string, 1),
		errs:  make(chan error, 1),
	}, nil
}

// ServeHTTP accepts one authorization code carrying the expected state
func (a *authCallback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("state") != a.state {
		http.Error(w, "Sign-in failed: unexpected state. Start the upload again.", http.StatusBadRequest)
		a.report(errors.New("OAuth callback carried an unexpected state"))
		return
	}
	if reason := q.Get("error"); reason != "" {
		http.Error(w, "Sign-in failed: "+reason, http.StatusForbidden)
		a.report(fmt.Errorf("authorization denied: %s", reason))
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, "Sign-in failed: no authorization code received.", http.StatusBadRequest)
		a.report(errors.New("no code in callback"))
		return
	}

	select {
	case a.codes <- code:
	default:
	}
	fmt.Fprint(w, "Signed in to Google Drive. You can close this window and return to separate-songs-tools.")
}

func (a *authCallback) report(err error) {
	select {
	case a.errs <- err:
	default:
	}
}

// getTokenFromWeb signs the user in through the browser and stores the token
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, cfg OAuthConfig) (*oauth2.Token, error) {
	callback, err := newAuthCallback()
	if err != nil {
		return nil, err
	}
	config.RedirectURL = "http://" + cfg.CallbackAddr + "/callback"

	mux := http.NewServeMux()
	mux.Handle("/callback", callback)
	server := &http.Server{Addr: cfg.CallbackAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			callback.report(fmt.Errorf("OAuth callback listener: %w", err))
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL(callback.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(cfg.Output, "\nSign in to Google Drive in your browser. If it does not open, visit:\n\n%s\n\n", authURL)
	openBrowser(authURL)

	var code string
	select {
	case code = <-callback.codes:
	case err := <-callback.errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange auth code: %w", err)
	}

	if err := saveToken(cfg.TokenFile, token); err != nil {
		fmt.Fprintf(cfg.Output, "Warning: couldn't save token: %v\n", err)
	}

	fmt.Fprintln(cfg.Output, "Signed in.")
	return token, nil
}

// browserCommand returns the command that opens url on goos, or nil when none is known
func browserCommand(goos, url string) []string {
	switch goos {
	case "darwin":
		return []string{"open", url}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}
	default:
		for _, opener := range []string{"xdg-open", "wslview"} {
			if _, err := exec.LookPath(opener); err == nil {
				return []string{opener, url}
			}
		}
		return nil
	}
}

// openBrowser is best effort; the URL is always printed as well
func openBrowser(url string) {
	if args := browserCommand(runtime.GOOS, url); args != nil {
		_ = exec.Command(args[0], args[1:]...).Start()
	}
}

// NewClientWithOAuth creates a new Google Drive client using OAuth 2.0
func NewClientWithOAuth(ctx context.Context, cfg OAuthConfig, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	if c.driveService == nil {
		if cfg.CallbackAddr == "" {
			cfg.CallbackAddr = DefaultCallbackAddr
		}
		if cfg.Output == nil {
			cfg.Output = io.Discard
		}
		svc, err := newOAuthDriveService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}
