// Package gridproxy implements a thin client for the grid proxy read API.
// Grid proxy indexes chain state and exposes nodes, twins and farms as json.
package gridproxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/go-resty/resty/v2"
)

// ErrNotFound returned for 404 responses
var ErrNotFound = errors.New("not found")

// ErrNotConverged returned by Wait* methods when the polled value never reached the expected one
var ErrNotConverged = errors.New("value not converged")

// APIError is a non-2xx response from grid proxy
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("grid proxy %s returned %d: %s", e.Path, e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrNotFound) work for 404
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Params for New
type Params struct {
	URL      string
	Timeout  time.Duration
	Retries  int
	PageSize int
}

// Poll defines how Wait* methods poll, fixed number of attempts with fixed delay between them
type Poll struct {
	Attempts int
	Delay    time.Duration
}

// DefaultPoll is 30 attempts 2s apart
var DefaultPoll = Poll{Attempts: 30, Delay: 2 * time.Second}

// Client for grid proxy
type Client struct {
	http     *resty.Client
	pageSize int
}

// New makes grid proxy client
func New(p Params) *Client {
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.PageSize == 0 {
		p.PageSize = 50
	}
	httpClient := resty.New().
		SetBaseURL(p.URL).
		SetTimeout(p.Timeout).
		SetRetryCount(p.Retries).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "gridwatch")
	return &Client{http: httpClient, pageSize: p.PageSize}
}

// Ping checks grid proxy is reachable
func (c *Client) Ping(ctx context.Context) error {
	var resp struct {
		Ping string `json:"ping"`
	}
	if err := c.get(ctx, "/ping", nil, &resp); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// TwinNodes returns all nodes owned by twin, walking pages until a short page
func (c *Client) TwinNodes(ctx context.Context, twinID int) ([]Node, error) {
	res := []Node{}
	for page := 1; ; page++ {
		var nodes []Node
		query := map[string]string{
			"twin_id": strconv.Itoa(twinID),
			"page":    strconv.Itoa(page),
			"size":    strconv.Itoa(c.pageSize),
		}
		if err := c.get(ctx, "/nodes", query, &nodes); err != nil {
			return nil, fmt.Errorf("can't get nodes of twin %d: %w", twinID, err)
		}
		res = append(res, nodes...)
		if len(nodes) < c.pageSize {
			break
		}
	}
	return res, nil
}

// Node returns node by id
func (c *Client) Node(ctx context.Context, nodeID int) (Node, error) {
	var node Node
	if err := c.get(ctx, "/nodes/"+strconv.Itoa(nodeID), nil, &node); err != nil {
		return Node{}, fmt.Errorf("can't get node %d: %w", nodeID, err)
	}
	return node, nil
}

// NodeIPv4 returns public config ipv4 of the node, empty if node has no public config
func (c *Client) NodeIPv4(ctx context.Context, nodeID int) (string, error) {
	node, err := c.Node(ctx, nodeID)
	if err != nil {
		return "", err
	}
	return node.PublicConfig.IPv4, nil
}

// Twin returns twin by id
func (c *Client) Twin(ctx context.Context, twinID int) (Twin, error) {
	return c.oneTwin(ctx, map[string]string{"twin_id": strconv.Itoa(twinID)})
}

// TwinByAccount returns twin by wallet address
func (c *Client) TwinByAccount(ctx context.Context, address string) (Twin, error) {
	return c.oneTwin(ctx, map[string]string{"account_id": address})
}

// TwinFarms returns farms owned by twin
func (c *Client) TwinFarms(ctx context.Context, twinID int) ([]Farm, error) {
	farms := []Farm{}
	query := map[string]string{"twin_id": strconv.Itoa(twinID), "size": strconv.Itoa(c.pageSize)}
	if err := c.get(ctx, "/farms", query, &farms); err != nil {
		return nil, fmt.Errorf("can't get farms of twin %d: %w", twinID, err)
	}
	return farms, nil
}

// WaitNodeIPv4 polls node until its public ipv4 equals want. Used to await the indexer
// catching up with a change made in the dashboard. Returns ErrNotConverged with the last seen
// value if attempts exhausted, or ctx error if canceled.
func (c *Client) WaitNodeIPv4(ctx context.Context, nodeID int, want string, poll Poll) error {
	var last string
	err := repeater.New(&strategy.FixedDelay{Repeats: poll.Attempts, Delay: poll.Delay}).Do(ctx, func() error {
		ip, err := c.NodeIPv4(ctx, nodeID)
		if err != nil {
			log.Printf("[DEBUG] node %d ipv4 check failed, %v", nodeID, err)
			return err
		}
		last = ip
		if ip != want {
			return ErrNotConverged
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("node %d ipv4 is %q, expected %q: %w", nodeID, last, want, ErrNotConverged)
}

func (c *Client) oneTwin(ctx context.Context, query map[string]string) (Twin, error) {
	var twins []Twin
	if err := c.get(ctx, "/twins", query, &twins); err != nil {
		return Twin{}, fmt.Errorf("can't get twin %v: %w", query, err)
	}
	if len(twins) == 0 {
		return Twin{}, fmt.Errorf("twin %v: %w", query, ErrNotFound)
	}
	return twins[0], nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, result any) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Path: path, Body: resp.String()}
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("can't decode %s response: %w", path, err)
	}
	return nil
}
