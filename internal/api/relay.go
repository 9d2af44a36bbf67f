package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"lobbywatch/internal/config"
	"lobbywatch/internal/constants"
	"lobbywatch/internal/domain"
	"lobbywatch/internal/matchmaking"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// RelayClient talks to a lobby relay over HTTP and exposes it with the
// callback semantics of a native matchmaking client: list requests run in the
// background and their callbacks only fire from RunCallbacks.
type RelayClient struct {
	baseURL string
	apiKey  string
	appID   uint32
	client  *fasthttp.Client
	logger  zerolog.Logger

	queueMu sync.Mutex
	queue   []func()

	lobbiesMu sync.RWMutex
	lobbies   map[domain.LobbyID]LobbyEntry

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

var _ matchmaking.Client = (*RelayClient)(nil)

type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRelayClient(cfg *config.Config, logger zerolog.Logger) (*RelayClient, error) {
	if cfg.MatchmakingURL == "" {
		return nil, fmt.Errorf("%w: relay url is empty", matchmaking.ErrClientInit)
	}
	u, err := url.Parse(cfg.MatchmakingURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid relay url %q", matchmaking.ErrClientInit, cfg.MatchmakingURL)
	}
	if cfg.AppID == 0 {
		return nil, fmt.Errorf("%w: app id is zero", matchmaking.ErrClientInit)
	}

	return &RelayClient{
		baseURL: strings.TrimRight(cfg.MatchmakingURL, "/"),
		apiKey:  cfg.MatchmakingAPIKey,
		appID:   cfg.AppID,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger:  logger.With().Str("component", "relay_client").Logger(),
		lobbies: make(map[domain.LobbyID]LobbyEntry),
	}, nil
}

type lobbyListRequest struct {
	client *RelayClient
	filter matchmaking.LobbyListFilter
}

func (c *RelayClient) SetLobbyListFilter(filter matchmaking.LobbyListFilter) matchmaking.LobbyListRequester {
	return lobbyListRequest{client: c, filter: filter}
}

func (r lobbyListRequest) RequestLobbyList(onComplete matchmaking.LobbyListCallback) {
	c := r.client
	target := c.lobbyListURL(r.filter)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.ExternalAPITimeout)
		defer cancel()

		start := time.Now()
		resp, err := doRequest[LobbyListResponse](ctx, c, target)
		if err != nil {
			c.logger.Debug().Err(err).Msg("lobby list request failed")
			c.enqueue(func() { onComplete(nil, err) })
			return
		}

		ids := c.storeLobbies(resp.Data)
		c.logger.Debug().
			Int("lobbies", len(ids)).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("lobby list fetched")
		c.enqueue(func() { onComplete(ids, nil) })
	}()
}

func (c *RelayClient) lobbyListURL(filter matchmaking.LobbyListFilter) string {
	q := url.Values{}
	q.Set("app_id", strconv.FormatUint(uint64(c.appID), 10))
	for _, f := range filter.String {
		q.Add("filter", fmt.Sprintf("%s:%s:%s", f.Key, f.Kind, f.Value))
	}
	return c.baseURL + "/v1/lobbies?" + q.Encode()
}

func (c *RelayClient) enqueue(fn func()) {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	c.queue = append(c.queue, fn)
}

// RunCallbacks invokes every completion queued since the last call, on the
// caller's goroutine.
func (c *RelayClient) RunCallbacks() {
	c.queueMu.Lock()
	queued := c.queue
	c.queue = nil
	c.queueMu.Unlock()

	for _, fn := range queued {
		fn()
	}
}

func (c *RelayClient) storeLobbies(entries []LobbyEntry) []domain.LobbyID {
	ids := make([]domain.LobbyID, len(entries))

	c.lobbiesMu.Lock()
	defer c.lobbiesMu.Unlock()
	for i, e := range entries {
		ids[i] = domain.LobbyID(e.ID)
		c.lobbies[domain.LobbyID(e.ID)] = e
	}
	return ids
}

func (c *RelayClient) lobby(id domain.LobbyID) (LobbyEntry, bool) {
	c.lobbiesMu.RLock()
	defer c.lobbiesMu.RUnlock()
	e, ok := c.lobbies[id]
	return e, ok
}

func (c *RelayClient) LobbyData(id domain.LobbyID, key string) (string, bool) {
	e, ok := c.lobby(id)
	if !ok {
		return "", false
	}
	v, ok := e.Data[key]
	return v, ok
}

func (c *RelayClient) LobbyMemberLimit(id domain.LobbyID) (uint, bool) {
	e, ok := c.lobby(id)
	if !ok || e.MemberLimit == nil {
		return 0, false
	}
	return *e.MemberLimit, true
}

func (c *RelayClient) LobbyMemberCount(id domain.LobbyID) uint {
	e, _ := c.lobby(id)
	return e.MemberCount
}

func (c *RelayClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RelayClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-Ratelimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Ratelimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-Ratelimit-Reset")); reset != "" {
		if val, err := strconv.Atoi(reset); err == nil {
			c.rateLimit.Reset = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func doRequest[T any](ctx context.Context, client *RelayClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if client.apiKey != "" {
		req.Header.Set("Authorization", client.apiKey)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	client.updateRateLimit(resp)

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("relay error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode relay response: %w", err)
	}
	return &result, nil
}

type LobbyListResponse struct {
	Status int          `json:"status"`
	Data   []LobbyEntry `json:"data"`
}

type LobbyEntry struct {
	ID          uint64            `json:"id"`
	MemberLimit *uint             `json:"member_limit"`
	MemberCount uint              `json:"member_count"`
	Data        map[string]string `json:"data"`
}
