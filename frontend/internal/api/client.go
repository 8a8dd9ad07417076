package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const defaultTimeout = 15 * time.Second

// Client is the typed client of the stations API.
type Client struct {
	base    *BaseClient
	baseURL string
	token   string
	dialer  *websocket.Dialer
}

// NewClient returns a client for baseURL, e.g. http://localhost:3001/api.
// A nil httpClient selects a default with a timeout.
func NewClient(baseURL string, httpClient HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient(defaultTimeout)
	}
	return &Client{
		base:    NewBaseClient(baseURL, httpClient),
		baseURL: strings.TrimRight(baseURL, "/"),
		dialer:  websocket.DefaultDialer,
	}
}

// SetToken attaches token to every subsequent request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.call(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.call(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListStations returns stations matching filter.
func (c *Client) ListStations(ctx context.Context, filter Filter) ([]Station, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.ConnectorType != "" {
		q.Set("connectorType", filter.ConnectorType)
	}
	if filter.MinPower != nil {
		q.Set("minPower", strconv.FormatFloat(*filter.MinPower, 'f', -1, 64))
	}
	if filter.MaxPower != nil {
		q.Set("maxPower", strconv.FormatFloat(*filter.MaxPower, 'f', -1, 64))
	}

	path := "/stations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	stations := make([]Station, 0)
	if err := c.call(ctx, http.MethodGet, path, nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// GetStation fetches a single station.
func (c *Client) GetStation(ctx context.Context, id int64) (*Station, error) {
	var out Station
	if err := c.call(ctx, http.MethodGet, stationPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStation requires a token.
func (c *Client) CreateStation(ctx context.Context, in StationInput) (*Station, error) {
	var out Station
	if err := c.call(ctx, http.MethodPost, "/stations", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStation replaces every editable field of station id.
func (c *Client) UpdateStation(ctx context.Context, id int64, in StationInput) (*Station, error) {
	var out Station
	if err := c.call(ctx, http.MethodPut, stationPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStation removes station id and returns the server message.
func (c *Client) DeleteStation(ctx context.Context, id int64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.call(ctx, http.MethodDelete, stationPath(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// SubscribeEvents streams the station change feed into handle until ctx
// ends or the connection drops.
func (c *Client) SubscribeEvents(ctx context.Context, handle func(Event)) error {
	wsURL, err := toWebsocketURL(c.baseURL + "/stations/events")
	if err != nil {
		return err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("api: subscribe: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ctx.Err()
			}
			return fmt.Errorf("api: event feed: %w", err)
		}
		handle(ev)
	}
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = data
	}

	resp, err := c.base.Do(ctx, method, path, body, c.token)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		apiErr := &Error{Status: resp.Status}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(resp.Body, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func stationPath(id int64) string {
	return "/stations/" + strconv.FormatInt(id, 10)
}

func toWebsocketURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("api: parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String(), nil
}

func statusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
