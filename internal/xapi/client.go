// Package xapi is a minimal X (Twitter) API v2 client covering what the
// posting and auto-reply engines need: create a tweet, reply to one, and
// page the authenticated user's mention timeline. Requests are signed with
// OAuth 1.0a user context.
package xapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sashimi-app/sashimi/internal/credentials"
)

const defaultBaseURL = "https://api.x.com/2"

// Mention is one inbound tweet that references the account. IDs are
// monotonically increasing, so the newest mention carries the largest id.
type Mention struct {
	ID           int64
	AuthorHandle string
	Text         string
}

// Client talks to the X API v2.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     *signer

	mu     sync.Mutex
	userID string // resolved lazily via /users/me
}

// New creates a client for the given account credentials.
func New(creds credentials.Credentials) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		signer:     newSigner(creds),
	}
}

// CreateTweet posts a tweet and returns its id.
func (c *Client) CreateTweet(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("tweet text is empty")
	}
	return c.postTweet(ctx, map[string]any{"text": text})
}

// Reply posts a reply in the thread of the given tweet id.
func (c *Client) Reply(ctx context.Context, text string, inReplyTo int64) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("reply text is empty")
	}
	return c.postTweet(ctx, map[string]any{
		"text": text,
		"reply": map[string]any{
			"in_reply_to_tweet_id": strconv.FormatInt(inReplyTo, 10),
		},
	})
}

// Mentions returns mentions of the authenticated user newer than sinceID,
// newest first (the feed's native order). sinceID 0 means no lower bound.
func (c *Client) Mentions(ctx context.Context, sinceID int64) ([]Mention, error) {
	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("tweet.fields", "author_id")
	q.Set("expansions", "author_id")
	q.Set("user.fields", "username")
	if sinceID > 0 {
		q.Set("since_id", strconv.FormatInt(sinceID, 10))
	}

	body, err := c.do(ctx, http.MethodGet, "/users/"+userID+"/mentions?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			ID       string `json:"id"`
			Text     string `json:"text"`
			AuthorID string `json:"author_id"`
		} `json:"data"`
		Includes struct {
			Users []struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"users"`
		} `json:"includes"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Kind: KindTransport, Detail: "parse mentions: " + err.Error()}
	}

	handles := make(map[string]string, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		handles[u.ID] = u.Username
	}

	mentions := make([]Mention, 0, len(resp.Data))
	for _, m := range resp.Data {
		id, err := strconv.ParseInt(m.ID, 10, 64)
		if err != nil {
			continue
		}
		mentions = append(mentions, Mention{
			ID:           id,
			AuthorHandle: handles[m.AuthorID],
			Text:         m.Text,
		})
	}
	return mentions, nil
}

// Me returns the authenticated user's handle. Useful as an early
// credential check before scheduling anything.
func (c *Client) Me(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &Error{Kind: KindTransport, Detail: "parse user: " + err.Error()}
	}

	c.mu.Lock()
	c.userID = resp.Data.ID
	c.mu.Unlock()
	return resp.Data.Username, nil
}

func (c *Client) resolveUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.userID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}
	if _, err := c.Me(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, nil
}

func (c *Client) postTweet(ctx context.Context, payload map[string]any) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/tweets", payload)
	if err != nil {
		return "", err
	}
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &Error{Kind: KindTransport, Detail: "parse tweet response: " + err.Error()}
	}
	return resp.Data.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", c.signer.header(method, req.URL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Detail: "read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       statusKind(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(body), 300),
		}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
