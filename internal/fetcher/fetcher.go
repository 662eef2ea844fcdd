package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"

	"github.com/knowledge-engine/movierec/internal/config"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("URL blocked by robots.txt")

// FetchResult holds a downloaded corpus or stopword source
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher downloads remote sources, honouring robots.txt when enabled
type Fetcher struct {
	client      *http.Client
	userAgent   string
	checkRobots bool
	logger      *logrus.Entry

	robotsCache map[string]*robotstxt.RobotsData
	mu          sync.Mutex
}

func NewFetcher(cfg config.FetchConfig, logger *logrus.Entry) *Fetcher {
	if logger == nil {
		logger = logrus.WithField("component", "fetcher")
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:   cfg.UserAgent,
		checkRobots: cfg.EnableRobotsCheck,
		logger:      logger,
		robotsCache: make(map[string]*robotstxt.RobotsData),
	}
}

// Fetch downloads rawURL. Non-200 responses are returned with an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.checkRobots {
		allowed, err := f.IsAllowed(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
	}

	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	result.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	f.logger.WithFields(logrus.Fields{
		"url":   rawURL,
		"bytes": len(result.Body),
	}).Debug("Fetched source")

	return result, nil
}

// IsAllowed checks rawURL against the host's robots.txt.
// A robots.txt that cannot be fetched allows the request.
func (f *Fetcher) IsAllowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("invalid URL: %w", err)
	}

	robots, err := f.robotsFor(ctx, u)
	if err != nil {
		f.logger.WithError(err).WithField("host", u.Host).Warn("Failed to get robots.txt, allowing request")
		return true, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, f.userAgent), nil
}

func (f *Fetcher) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	key := u.Scheme + "://" + u.Host

	f.mu.Lock()
	cached, ok := f.robotsCache[key]
	f.mu.Unlock()
	if ok {
		return cached, nil
	}

	resp, err := f.get(ctx, key+"/robots.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read robots.txt: %w", err)
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse robots.txt: %w", err)
	}

	f.mu.Lock()
	f.robotsCache[key] = robots
	f.mu.Unlock()
	return robots, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	return f.client.Do(req)
}

// ExtractText returns the visible text of an HTML fragment or page,
// skipping script and style content.
func ExtractText(body io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(body)
	var textBuilder strings.Builder
	inScript := false
	inStyle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return cleanText(textBuilder.String()), nil
			}
			return "", tokenizer.Err()

		case html.StartTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			}

		case html.EndTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}

		case html.TextToken:
			if !inScript && !inStyle {
				text := strings.TrimSpace(tokenizer.Token().Data)
				if text != "" {
					textBuilder.WriteString(text + " ")
				}
			}
		}
	}
}

// cleanText removes excessive whitespace
func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
