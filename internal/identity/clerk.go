// internal/identity/clerk.go
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Outcome is the result of an existence check against Clerk.
type Outcome int

const (
	// OutcomeExists: the provider confirmed the user (200).
	OutcomeExists Outcome = iota
	// OutcomeNotFound: the provider confirmed the user is gone (404).
	OutcomeNotFound
	// OutcomeIndeterminate: transport error, auth problem or any other
	// status. Callers must treat this as "exists" — never delete on
	// ambiguous evidence.
	OutcomeIndeterminate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExists:
		return "exists"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "indeterminate"
	}
}

// ProviderUser is the subset of the Clerk user payload this service reads.
type ProviderUser struct {
	ID             string `json:"id"`
	LastSignInAt   *string `json:"last_sign_in_at"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// PrimaryEmail returns the first email address on the provider record.
func (u *ProviderUser) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// LastSignIn parses the provider's last sign-in timestamp, nil when absent.
func (u *ProviderUser) LastSignIn() *time.Time {
	if u.LastSignInAt == nil || *u.LastSignInAt == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *u.LastSignInAt)
	if err != nil {
		return nil
	}
	return &t
}

// Client calls the Clerk backend API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CheckUser resolves a user id to an existence outcome. 200 means exists,
// 404 means not-found, everything else (including a missing secret key) is
// indeterminate.
func (c *Client) CheckUser(ctx context.Context, userID string) Outcome {
	if c.secretKey == "" {
		log.Printf("⚠️ [CLERK] CLERK_SECRET_KEY not set, cannot verify user %s", userID)
		return OutcomeIndeterminate
	}

	resp, err := c.get(ctx, userID)
	if err != nil {
		log.Printf("⚠️ [CLERK] Check failed for user %s: %v", userID, err)
		return OutcomeIndeterminate
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return OutcomeExists
	case http.StatusNotFound:
		log.Printf("🔍 [CLERK] User %s not found", userID)
		return OutcomeNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		log.Printf("⚠️ [CLERK] Unexpected status %d for user %s: %s", resp.StatusCode, userID, string(body))
		return OutcomeIndeterminate
	}
}

// GetUser fetches the full provider record for a user id.
func (c *Client) GetUser(ctx context.Context, userID string) (*ProviderUser, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("CLERK_SECRET_KEY not set")
	}

	resp, err := c.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("clerk returned status %d: %s", resp.StatusCode, string(body))
	}

	var user ProviderUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode clerk user: %w", err)
	}
	return &user, nil
}

func (c *Client) get(ctx context.Context, userID string) (*http.Response, error) {
	url := fmt.Sprintf("%s/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to clerk failed: %w", err)
	}
	return resp, nil
}
