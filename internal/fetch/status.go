package fetch

import (
	"context"
	"hash/fnv"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"relentless-househunter/internal/logging"
)

// Side-channel HTTP timeouts so a hung status check doesn't stall the worker.
const (
	statusConnectTimeout  = 10 * time.Second
	statusResponseTimeout = 20 * time.Second
	statusTotalTimeout    = 30 * time.Second
)

// DefaultUserAgents is the rotation used for status checks when none is configured.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
}

// TransportConfig selects the egress for side-channel requests.
type TransportConfig struct {
	ProxyURL  string
	ProxyPool string
	Hostname  string
}

// selectProxyFromPool returns one URL from pool (comma-separated) by hashing hostname,
// so each replica sticks to one proxy. Empty pool yields "".
func selectProxyFromPool(pool, hostname string) string {
	var valid []string
	for _, p := range strings.Split(strings.TrimSpace(pool), ",") {
		if p = strings.TrimSpace(p); p != "" {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return ""
	}
	if hostname == "" {
		hostname = "0"
	}
	h := fnv.New32a()
	h.Write([]byte(hostname))
	return valid[h.Sum32()%uint32(len(valid))]
}

// ResolveProxy returns the proxy URL cfg selects, or "" for direct egress.
// An explicit ProxyURL wins over the pool.
func ResolveProxy(cfg TransportConfig) string {
	if cfg.ProxyURL != "" {
		return cfg.ProxyURL
	}
	return selectProxyFromPool(cfg.ProxyPool, cfg.Hostname)
}

// NewHTTPClient builds the client used for status checks and robots.txt.
// Invalid proxy URLs are logged and ignored.
func NewHTTPClient(cfg TransportConfig, logger logging.Logger) *http.Client {
	if logger == nil {
		logger = logging.Discard()
	}
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: statusConnectTimeout}).DialContext,
		ResponseHeaderTimeout: statusResponseTimeout,
	}
	if proxyURL := ResolveProxy(cfg); proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil || u.Host == "" {
			logger.WithField("proxy", proxyURL).Warn("invalid proxy url, using direct egress")
		} else {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   statusTotalTimeout,
	}
}

// HTTPStatusChecker answers StatusChecker with a plain GET and a rotating User-Agent.
type HTTPStatusChecker struct {
	client     *http.Client
	userAgents []string
}

// NewHTTPStatusChecker falls back to DefaultUserAgents when userAgents is empty.
func NewHTTPStatusChecker(client *http.Client, userAgents []string) *HTTPStatusChecker {
	if client == nil {
		client = http.DefaultClient
	}
	if len(userAgents) == 0 {
		userAgents = DefaultUserAgents
	}
	return &HTTPStatusChecker{client: client, userAgents: userAgents}
}

// Status returns the response code for rawURL. Redirects are followed.
func (c *HTTPStatusChecker) Status(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgents[rand.Intn(len(c.userAgents))])
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, nil
}
