package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"bili-ticket-cli/model"
)

const (
	passportBaseURL  = "https://passport.bilibili.com"
	showBaseURL      = "https://show.bilibili.com"
	accountBaseURL   = "https://api.bilibili.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	challengeRetryMax   = 10
	challengeRetryPause = time.Second
	pollIterationMax    = 240
	pollInterval        = 500 * time.Millisecond
)

// Session is an authenticated vendor session: the cookie set plus the
// account display name it resolves to.
type Session struct {
	Username string
	Cookies  map[string]string
}

// Client performs requests against the vendor APIs. Session cookies live
// in its jar; they are installed either by a successful QR login or from
// a stored cookie set. All calls are synchronous and blocking.
type Client struct {
	httpClient *http.Client
	jar        *cookiejar.Jar
	cookies    map[string]string

	passportURL string
	showURL     string
	accountURL  string
	userAgent   string

	challengeRetryMax   int
	challengeRetryPause time.Duration
	pollIterationMax    int
	pollInterval        time.Duration
}

// NewClient builds a client with a fresh cookie jar. A nil httpClient gets
// a default with a 10-second timeout.
func NewClient(httpClient *http.Client) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	httpClient.Jar = jar

	return &Client{
		httpClient:          httpClient,
		jar:                 jar,
		cookies:             map[string]string{},
		passportURL:         passportBaseURL,
		showURL:             showBaseURL,
		accountURL:          accountBaseURL,
		userAgent:           defaultUserAgent,
		challengeRetryMax:   challengeRetryMax,
		challengeRetryPause: challengeRetryPause,
		pollIterationMax:    pollIterationMax,
		pollInterval:        pollInterval,
	}, nil
}

// SetUserAgent overrides the User-Agent header. Empty input keeps the
// default.
func (c *Client) SetUserAgent(userAgent string) {
	if strings.TrimSpace(userAgent) != "" {
		c.userAgent = userAgent
	}
}

// SetCookies installs a session cookie set on the client, replacing any
// previous session. Cookies are scoped to the vendor's apex domain so all
// its subdomains see them.
func (c *Client) SetCookies(cookies map[string]string) {
	c.cookies = map[string]string{}
	list := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		c.cookies[name] = value
		list = append(list, &http.Cookie{
			Name:   name,
			Value:  value,
			Domain: ".bilibili.com",
			Path:   "/",
		})
	}
	if u, err := url.Parse("https://bilibili.com"); err == nil {
		c.jar.SetCookies(u, list)
	}
}

// Cookies returns the current session cookie set as name/value pairs.
func (c *Client) Cookies() map[string]string {
	out := make(map[string]string, len(c.cookies))
	for name, value := range c.cookies {
		out[name] = value
	}
	return out
}

type navData struct {
	IsLogin bool   `json:"isLogin"`
	Uname   string `json:"uname"`
}

// Username resolves the display name of the signed-in account. An empty
// name with a nil error means the session cookies are missing or expired.
func (c *Client) Username(ctx context.Context) (string, error) {
	var env model.APIEnvelope[navData]
	if err := c.getJSON(ctx, c.accountURL+"/x/web-interface/nav", &env); err != nil {
		return "", err
	}
	if !env.Data.IsLogin {
		return "", nil
	}
	return env.Data.Uname, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		return fmt.Errorf("%s: %s", res.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}
