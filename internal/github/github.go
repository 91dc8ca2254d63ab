package github

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/kevinmichaelchen/showcase/internal/models"
	"github.com/rs/dnscache"
	"golang.org/x/oauth2"
)

// Client lists an account's public repositories through the GitHub REST API.
type Client struct {
	gh *gh.Client
}

type Option func(*options)

type options struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// WithToken authenticates requests, raising the API rate limit.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithBaseURL points the client at another API root (GitHub Enterprise or a
// test server). The URL must end in a slash.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithHTTPClient replaces the DNS-caching transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func NewClient(opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: cachingTransport()}
	}
	if o.token != "" {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token}),
				Base:   base,
			},
			Timeout: httpClient.Timeout,
		}
	}

	client := gh.NewClient(httpClient)
	if o.baseURL != "" {
		u, err := url.Parse(o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		client.BaseURL = u
	}
	return &Client{gh: client}, nil
}

// FetchRepos returns the account's repositories, most recently updated first.
// Only the first page of 100 is requested.
func (c *Client) FetchRepos(ctx context.Context, account string) ([]models.RawRepo, error) {
	opt := &gh.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	repos, _, err := c.gh.Repositories.List(ctx, account, opt)
	if err != nil {
		return nil, fmt.Errorf("listing repositories for %s: %w", account, err)
	}

	out := make([]models.RawRepo, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRawRepo(r))
	}
	return out, nil
}

func toRawRepo(r *gh.Repository) models.RawRepo {
	raw := models.RawRepo{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		URL:         r.GetHTMLURL(),
		Description: r.Description,
		Language:    r.Language,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		UpdatedAt:   r.GetUpdatedAt().Time,
		Homepage:    r.Homepage,
	}

	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	raw.Topics = topics

	if id := r.GetLicense().GetSPDXID(); id != "" {
		raw.License = &models.License{SPDXID: id}
	}
	return raw
}

// dnsResolver is shared by every client so the refresh loop runs once per
// process rather than once per NewClient call.
var dnsResolver = sync.OnceValue(func() *dnscache.Resolver {
	r := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			r.Refresh(true)
		}
	}()
	return r
})

// cachingTransport resolves hosts through a DNS cache refreshed every five
// minutes.
func cachingTransport() *http.Transport {
	resolver := dnsResolver()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, fmt.Errorf("failed to dial any resolved IP for %s", host)
		},
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}
