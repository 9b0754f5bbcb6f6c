// Package bitwarden implements the vault session client: a two-step
// authentication (client-credentials grant, then master-password unlock)
// followed by read-only item operations.
package bitwarden

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/omnitool/omni/internal/session"
)

// ErrNotFound means no vault item matched the requested (type, name) pair.
var ErrNotFound = errors.New("vault item not found")

// unlockIterations is the PBKDF2-SHA256 iteration count used to derive the
// master password hash sent to the unlock endpoint.
const unlockIterations = 600_000

// Client talks to the vault's identity and API endpoints.
type Client struct {
	identityURL string
	apiURL      string
	http        *http.Client
}

// New creates a vault client. A nil httpClient gets a 30 second timeout;
// tests inject an httptest server's client and URLs.
func New(identityURL, apiURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		identityURL: identityURL,
		apiURL:      apiURL,
		http:        httpClient,
	}
}

// Authenticate performs the two-step vault login: exchange the client id and
// secret for an access token, then unlock the vault with the master password
// hash. Neither the master password nor any token is ever logged.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret, masterPassword string) (session.Session, error) {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     c.identityURL + "/connect/token",
		Scopes:       []string{"api"},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := conf.Token(ctx)
	if err != nil {
		return session.Session{}, mapTokenError(err)
	}

	return c.unlock(ctx, tok.AccessToken, clientID, masterPassword)
}

// unlock exchanges the access token plus the derived master password hash
// for the vault session.
func (c *Client) unlock(ctx context.Context, accessToken, clientID, masterPassword string) (session.Session, error) {
	payload, err := json.Marshal(unlockRequest{
		MasterPasswordHash: masterPasswordHash(masterPassword, clientID),
	})
	if err != nil {
		return session.Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/unlock", bytes.NewReader(payload))
	if err != nil {
		return session.Session{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", session.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return session.Session{}, err
	}

	var out unlockResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return session.Session{}, fmt.Errorf("decoding unlock response: %w", err)
	}

	return session.Session{
		Token:      out.SessionToken,
		ObtainedAt: time.Now(),
		TTL:        time.Duration(out.ExpiresIn) * time.Second,
	}, nil
}

// ListItems returns every item visible to the authenticated identity, in the
// order the service returns them (no order is guaranteed).
func (c *Client) ListItems(ctx context.Context, sess session.Session) ([]Item, error) {
	if !sess.Valid(time.Now()) {
		return nil, session.ErrExpired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/list/items", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out listItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding item list: %w", err)
	}

	items := make([]Item, 0, len(out.Data))
	for _, w := range out.Data {
		items = append(items, w.toItem())
	}
	return items, nil
}

// GetItem returns the item exactly matching itemType and name. When the
// vault holds duplicates, the first match in the service's own return order
// wins, which keeps repeated calls deterministic for unchanged data.
func (c *Client) GetItem(ctx context.Context, sess session.Session, itemType ItemType, name string) (Item, error) {
	items, err := c.ListItems(ctx, sess)
	if err != nil {
		return Item{}, err
	}

	for _, it := range items {
		if it.Type == itemType && it.Name == name {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s %q", ErrNotFound, itemType, name)
}

// masterPasswordHash derives the unlock hash from the master password, using
// the client id as salt. The raw password never leaves this function.
func masterPasswordHash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), unlockIterations, 32, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// mapTokenError translates clientcredentials failures into the shared auth
// taxonomy: 4xx means rejected credentials, anything transport-level means
// the service is unreachable.
func mapTokenError(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		status := rerr.Response.StatusCode
		if status >= 400 && status < 500 {
			return fmt.Errorf("%w: token endpoint returned %d", session.ErrInvalidCredentials, status)
		}
		return &session.UnexpectedStatusError{Status: status, Body: string(rerr.Body)}
	}
	return fmt.Errorf("%w: %v", session.ErrUnreachable, err)
}

// checkStatus maps a non-2xx response to the shared auth taxonomy.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("%w: vault returned %d", session.ErrInvalidCredentials, resp.StatusCode)
	}
	return &session.UnexpectedStatusError{Status: resp.StatusCode, Body: string(body)}
}

// Wire types. Payload shapes are owned by the vault service.

type unlockRequest struct {
	MasterPasswordHash string `json:"masterPasswordHash"`
}

type unlockResponse struct {
	SessionToken string `json:"sessionToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type listItemsResponse struct {
	Data []wireItem `json:"data"`
}

type wireItem struct {
	Type   int         `json:"type"`
	Name   string      `json:"name"`
	Fields []wireField `json:"fields"`
}

type wireField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (w wireItem) toItem() Item {
	fields := make(map[string]string, len(w.Fields))
	for _, f := range w.Fields {
		fields[f.Name] = f.Value
	}
	return Item{
		Type:   ItemType(w.Type),
		Name:   w.Name,
		Fields: fields,
	}
}
