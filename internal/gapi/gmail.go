package gapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailAuth manages the OAuth2 authorization used for sending mail
// through the Gmail API. The exchanged token is persisted to disk
// encrypted with the application secret, so the authorization survives
// restarts without storing plaintext credentials.
type GmailAuth struct {
	config    *oauth2.Config
	tokenPath string
	secret    string

	mu sync.Mutex
}

// NewGmailAuth loads the OAuth client definition from clientFile and
// binds the token store to tokenPath. redirectURL must match one of the
// client's registered redirect URIs (BASE_URL + /oauth2/callback).
func NewGmailAuth(clientFile, tokenPath, secret, redirectURL string) (*GmailAuth, error) {
	b, err := os.ReadFile(clientFile)
	if err != nil {
		return nil, fmt.Errorf("reading oauth client file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parsing oauth client file: %w", err)
	}
	cfg.RedirectURL = redirectURL

	return &GmailAuth{
		config:    cfg,
		tokenPath: tokenPath,
		secret:    secret,
	}, nil
}

// AuthURL returns the Google consent URL for the given anti-forgery state.
// Offline access is requested so a refresh token is issued.
func (g *GmailAuth) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the authorization code for a token and persists it.
func (g *GmailAuth) Exchange(ctx context.Context, code string) error {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	return g.saveToken(tok)
}

// HasToken reports whether an authorized token is stored and readable.
func (g *GmailAuth) HasToken() bool {
	_, err := g.loadToken()
	return err == nil
}

// Service returns a Gmail client authorized with the stored token. The
// underlying http.Client refreshes the access token transparently.
func (g *GmailAuth) Service(ctx context.Context) (*gmail.Service, error) {
	tok, err := g.loadToken()
	if err != nil {
		return nil, err
	}

	client := g.config.Client(ctx, tok)
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating gmail client: %w", err)
	}
	return svc, nil
}

// saveToken serializes and encrypts the token to tokenPath.
func (g *GmailAuth) saveToken(tok *oauth2.Token) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	plaintext, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshaling token: %w", err)
	}

	ciphertext, err := encrypt(plaintext, g.secret)
	if err != nil {
		return fmt.Errorf("encrypting token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(g.tokenPath), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(g.tokenPath, ciphertext, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// loadToken reads and decrypts the stored token.
func (g *GmailAuth) loadToken() (*oauth2.Token, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ciphertext, err := os.ReadFile(g.tokenPath)
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	plaintext, err := decrypt(ciphertext, g.secret)
	if err != nil {
		return nil, fmt.Errorf("decrypting token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(plaintext, &tok); err != nil {
		return nil, fmt.Errorf("unmarshaling token: %w", err)
	}
	return &tok, nil
}
