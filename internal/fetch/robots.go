package fetch

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"relentless-househunter/internal/logging"
)

// DefaultUserAgent identifies the crawler to robots.txt.
const DefaultUserAgent = "RelentlessHousehunter/1.0"

// RobotsRules holds the Allow/Disallow rules of one user-agent group.
// The longest matching rule wins; Allow wins ties.
type RobotsRules struct {
	rules []robotsRule
}

type robotsRule struct {
	prefix string
	allow  bool
}

// Allowed reports whether path may be fetched. Nil rules allow everything.
func (r *RobotsRules) Allowed(path string) bool {
	if r == nil || len(r.rules) == 0 {
		return true
	}
	path = normalizePath(path)
	best := -1
	allowed := true
	for _, rule := range r.rules {
		if !strings.HasPrefix(path, rule.prefix) {
			continue
		}
		if n := len(rule.prefix); n > best || (n == best && rule.allow) {
			best = n
			allowed = rule.allow
		}
	}
	return allowed
}

// AllowedURL is Allowed on the path of rawURL.
func (r *RobotsRules) AllowedURL(rawURL string) bool {
	return r.Allowed(PathFromURL(rawURL))
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

// FetchRobots downloads /robots.txt of the site baseURL points at.
func FetchRobots(ctx context.Context, client *http.Client, baseURL string) ([]byte, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = "/robots.txt"
	u.RawQuery = ""
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("robots.txt fetch %s: unexpected status %d", u.String(), resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseRobots collects the rules of every group naming userAgent, falling
// back to the "*" groups when none does.
func ParseRobots(body []byte, userAgent string) *RobotsRules {
	var specific, wildcard []robotsRule
	var agents []string
	token, _, _ := strings.Cut(userAgent, "/")
	inRules, named := false, false

	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if inRules {
				agents = nil
				inRules = false
			}
			agents = append(agents, value)
			if strings.EqualFold(value, userAgent) || strings.EqualFold(value, token) {
				named = true
			}
		case "allow", "disallow":
			inRules = true
			if value == "" {
				continue
			}
			rule := robotsRule{prefix: normalizePath(value), allow: key == "allow"}
			for _, agent := range agents {
				switch {
				case strings.EqualFold(agent, userAgent) || strings.EqualFold(agent, token):
					specific = append(specific, rule)
				case agent == "*":
					wildcard = append(wildcard, rule)
				}
			}
		default:
			inRules = inRules || len(agents) > 0
		}
	}
	if named {
		return &RobotsRules{rules: specific}
	}
	return &RobotsRules{rules: wildcard}
}

// PathFromURL returns the path component of rawURL, or "/" if parsing fails.
func PathFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "/"
	}
	return normalizePath(u.Path)
}

// LoadRobots fetches and parses robots.txt for baseURL. Any failure is
// logged and yields nil rules, which allow every path.
func LoadRobots(ctx context.Context, client *http.Client, baseURL string, logger logging.Logger) *RobotsRules {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	body, err := FetchRobots(ctx, client, baseURL)
	if err != nil {
		logger.WithError(err).Warn("robots.txt fetch failed (will allow all paths)")
		return nil
	}
	return ParseRobots(body, DefaultUserAgent)
}
