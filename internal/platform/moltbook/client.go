// Package moltbook is the REST client for the Moltbook forum API. The core
// only consumes post/comment text and author identities from it; posting
// results back is a side effect driven by already-computed resolution data.
package moltbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// Client is the authenticated Moltbook REST client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Moltbook client. baseURL is the API root, e.g.
// "https://www.moltbook.com/api/v1"; apiKey is the bearer token.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListPosts returns recent posts under the given sort ("hot", "new").
func (c *Client) ListPosts(ctx context.Context, sort string, limit int) ([]Post, error) {
	params := url.Values{}
	params.Set("sort", sort)
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, http.MethodGet, "/posts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("moltbook: list posts (%s): %w", sort, err)
	}

	var resp postsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("moltbook: decode posts: %w", err)
	}
	return resp.Posts, nil
}

// ListComments returns the comments on a post, newest first.
func (c *Client) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	path := fmt.Sprintf("/posts/%s/comments?sort=new", url.PathEscape(postID))

	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("moltbook: list comments %s: %w", postID, err)
	}

	// Some deployments return a bare array rather than a wrapper object.
	var resp commentsResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Comments == nil {
		var comments []Comment
		if arrErr := json.Unmarshal(body, &comments); arrErr == nil {
			return comments, nil
		}
		if err != nil {
			return nil, fmt.Errorf("moltbook: decode comments: %w", err)
		}
	}
	return resp.Comments, nil
}

// CreatePost publishes a new post to a submolt and returns the new post id.
func (c *Client) CreatePost(ctx context.Context, submolt, title, content string) (string, error) {
	payload := createPostRequest{Submolt: submolt, Title: title, Content: content}

	body, err := c.doRequest(ctx, http.MethodPost, "/posts", payload)
	if err != nil {
		return "", fmt.Errorf("moltbook: create post: %w", err)
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("moltbook: decode create post response: %w", err)
	}
	if resp.CreatedID() == "" {
		return "", fmt.Errorf("moltbook: create post: no post id in response")
	}
	return resp.CreatedID(), nil
}

// CreateComment posts a comment under the given post and returns the new
// comment id.
func (c *Client) CreateComment(ctx context.Context, postID, content string) (string, error) {
	path := fmt.Sprintf("/posts/%s/comments", url.PathEscape(postID))

	body, err := c.doRequest(ctx, http.MethodPost, path, createCommentRequest{Content: content})
	if err != nil {
		return "", fmt.Errorf("moltbook: create comment on %s: %w", postID, err)
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("moltbook: decode create comment response: %w", err)
	}
	return resp.CreatedID(), nil
}

// doRequest performs an authenticated request and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// checkStatus maps non-2xx HTTP status codes to appropriate errors.
func checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	detail := string(body)
	if len(detail) > 200 {
		detail = detail[:200]
	}

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, detail)
	}
}
