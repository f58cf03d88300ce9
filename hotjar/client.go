package hotjar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// Endpoint paths relative to the base URL
const (
	loginPath           = "/v2/users"
	currentUserPath     = "/v2/users/me"
	siteFeedPath        = "/v1/sites/%d/feed"
	siteStatisticsPath  = "/v1/sites/%d/statistics"
	userResourcesPath   = "/v1/users/%d/resources"
	feedbackWidgetsPath = "/v1/sites/%d/feedback"
	feedbackRespPath    = "/v1/sites/%d/feedback/%d/responses"
	sentimentPath       = "/v1/sites/%d/feedback/%d/responses/sentiment"
)

// Client represents an authenticated hotjar API client
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	session    Session
	logger     zerolog.Logger
}

// NewClient creates a new hotjar client and logs in with the given
// credentials. The client is only returned if login succeeds.
func NewClient(ctx context.Context, creds Credentials, logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}
	if httpClient.Jar == nil {
		withJar := *httpClient
		withJar.Jar = jar
		httpClient = &withJar
	}

	client := &Client{
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}

	session, err := client.login(ctx, creds)
	if err != nil {
		return nil, err
	}
	client.session = *session

	logger.Debug().Int64("user_id", session.UserID).Msg("Logged in to hotjar")

	return client, nil
}

// Session returns the session established at login
func (c *Client) Session() Session {
	return c.session
}

// UserID returns the authenticated user's id
func (c *Client) UserID() int64 {
	return c.session.UserID
}

// login performs the credential handshake
func (c *Client) login(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	payload := loginRequest{
		Action:   "login",
		Email:    creds.Email,
		Password: creds.Password,
		Remember: true,
	}

	c.logger.Debug().Str("email", creds.Email).Msg("Logging in to hotjar")

	status, body, err := c.send(ctx, http.MethodPost, loginPath, nil, payload)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	if status != http.StatusOK {
		return nil, &AuthorizationError{StatusCode: status, Body: string(body)}
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, &AuthorizationError{StatusCode: status, Body: string(body), Err: err}
	}

	accessKey, ok := raw["access_key"]
	if !ok {
		return nil, &AuthorizationError{StatusCode: status, Body: string(body)}
	}

	userID, err := parseUserID(raw["user_id"])
	if err != nil {
		return nil, &AuthorizationError{StatusCode: status, Body: string(body), Err: err}
	}

	return &Session{
		UserID:    userID,
		AccessKey: fmt.Sprint(accessKey),
		Raw:       raw,
	}, nil
}

// parseUserID accepts the numeric or string forms the API has used
func parseUserID(v any) (int64, error) {
	switch id := v.(type) {
	case json.Number:
		return id.Int64()
	case string:
		return strconv.ParseInt(id, 10, 64)
	case nil:
		return 0, fmt.Errorf("%w: missing user_id", ErrInvalidResponse)
	default:
		return 0, fmt.Errorf("%w: unexpected user_id type %T", ErrInvalidResponse, v)
	}
}

// send performs an HTTP request and returns the status code and raw body.
// It never interprets the status.
func (c *Client) send(ctx context.Context, method, endpoint string, params url.Values, payload any) (int, []byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making hotjar API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// getJSON issues an authenticated GET and decodes the body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	status, body, err := c.send(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return err
	}

	if status < 200 || status > 299 {
		return &APIError{
			StatusCode: status,
			Method:     http.MethodGet,
			Path:       endpoint,
			Body:       string(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
	}

	return nil
}

// getBody fetches an endpoint and returns its decoded body unchanged
func (c *Client) getBody(ctx context.Context, endpoint string, params url.Values) (Body, error) {
	var body Body
	if err := c.getJSON(ctx, endpoint, params, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// GetCurrentUserInfo returns the logged in user's account info
func (c *Client) GetCurrentUserInfo(ctx context.Context) (Body, error) {
	return c.getBody(ctx, currentUserPath, nil)
}

// GetSiteFeed returns the activity feed of a site
func (c *Client) GetSiteFeed(ctx context.Context, siteID int64) (Body, error) {
	return c.getBody(ctx, fmt.Sprintf(siteFeedPath, siteID), nil)
}

// GetSiteStatistics returns the statistics of a site
func (c *Client) GetSiteStatistics(ctx context.Context, siteID int64) (Body, error) {
	return c.getBody(ctx, fmt.Sprintf(siteStatisticsPath, siteID), nil)
}

// GetResources returns the sites and organizations visible to a user.
// A zero userID means the logged in user.
func (c *Client) GetResources(ctx context.Context, userID int64) (Body, error) {
	if userID == 0 {
		userID = c.session.UserID
	}
	return c.getBody(ctx, fmt.Sprintf(userResourcesPath, userID), nil)
}

// GetFeedbackWidgets lists the feedback widgets configured for a site
func (c *Client) GetFeedbackWidgets(ctx context.Context, siteID int64) (Body, error) {
	return c.getBody(ctx, fmt.Sprintf(feedbackWidgetsPath, siteID), nil)
}

// GetSentiments returns the sentiment aggregation of a feedback widget's
// responses matching filter
func (c *Client) GetSentiments(ctx context.Context, siteID, widgetID int64, filter string) (Body, error) {
	params := url.Values{}
	params.Set("filter", filter)
	return c.getBody(ctx, fmt.Sprintf(sentimentPath, siteID, widgetID), params)
}
