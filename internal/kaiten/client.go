// Package kaiten reads cards from a Kaiten board and turns them into
// unclassified board tasks.
package kaiten

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

const (
	// DefaultLimit is the page size the cards endpoint is asked for.
	DefaultLimit = 100

	// NoDescription replaces an empty card description.
	NoDescription = "No description"

	requestTimeout = 10 * time.Second
)

// Client reads cards of one board.
type Client struct {
	baseURL    string
	token      string
	boardID    string
	limit      int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimit sets the number of cards requested.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewClient returns a client for boardID on the Kaiten instance at baseURL.
func NewClient(baseURL, token, boardID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		boardID:    boardID,
		limit:      DefaultLimit,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cards fetches the board's cards.
func (c *Client) Cards(ctx context.Context) ([]Card, error) {
	q := url.Values{}
	q.Set("board_id", c.boardID)
	q.Set("limit", strconv.Itoa(c.limit))
	endpoint := c.baseURL + "/api/v1/cards?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building kaiten request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.unavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.unavailable(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var kErr apiError
		if json.Unmarshal(body, &kErr) == nil && kErr.Message != "" {
			return nil, c.unavailable(fmt.Errorf("status %d: %s", resp.StatusCode, kErr.Message))
		}
		return nil, c.unavailable(fmt.Errorf("status %d", resp.StatusCode))
	}

	var cards []Card
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, c.unavailable(fmt.Errorf("decoding cards: %w", err))
	}
	return cards, nil
}

// List fetches the cards as unclassified tasks.
func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	cards, err := c.Cards(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0, len(cards))
	for _, card := range cards {
		tasks = append(tasks, ToTask(card))
	}
	return tasks, nil
}

// ToTask converts a card into a task with no levels and no dates.
func ToTask(card Card) task.Task {
	desc := card.Description
	if strings.TrimSpace(desc) == "" {
		desc = NoDescription
	}
	t := task.Task{ID: card.ID, Title: card.Title, Description: desc}
	for _, tag := range card.Tags {
		t.Tags = append(t.Tags, tag.Title)
	}
	return t
}

func (c *Client) unavailable(err error) *clierr.Error {
	return clierr.Newf(clierr.SourceUnavailable, "kaiten board %s: %v", c.boardID, err).
		WithDetails(map[string]any{"base_url": c.baseURL, "board_id": c.boardID})
}
