package client

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type Option func(http.RoundTripper) http.RoundTripper

// WithBearerToken sends "Authorization: Bearer <token>" with every request.
func WithBearerToken(token string) Option {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: token,
				TokenType:   "Bearer",
			}),
			Base: rt,
		}
	}
}

func WithUserAgent(version string) Option {
	return setHeaderFn("User-Agent", func() (string, error) {
		return fmt.Sprintf("hardcover-data-sync/%s (%s; %s)", version, runtime.GOOS, runtime.GOARCH), nil
	})
}

func WithLogger(log *zap.Logger) Option {
	return func(rt http.RoundTripper) http.RoundTripper {
		return funcTripper(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			log.Debug(
				"send an API request",
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)
			resp, err := rt.RoundTrip(r)
			if err != nil {
				log.Debug("API request failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
				return resp, err
			}
			log.Debug(
				"received an API response",
				zap.Int("status", resp.StatusCode),
				zap.Duration("latency", time.Since(start)),
			)
			return resp, nil
		})
	}
}

// Middleware adapts an arbitrary RoundTripper decorator, for example
// an HTTP trace logger, into an Option.
func Middleware(fn func(http.RoundTripper) http.RoundTripper) Option {
	return Option(fn)
}

// NewHTTPClient applies opts in order to the transport of client.
// The last option is the outermost one.
func NewHTTPClient(client *http.Client, opts ...Option) *http.Client {
	if client == nil {
		client = &http.Client{
			Transport: http.DefaultTransport,
		}
	}
	if client.Transport == nil {
		client.Transport = http.DefaultTransport
	}
	for _, o := range opts {
		client.Transport = o(client.Transport)
	}
	return client
}

type funcTripper func(*http.Request) (*http.Response, error)

func (f funcTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func setHeaderFn(name string, valueGetter func() (string, error)) Option {
	return func(rt http.RoundTripper) http.RoundTripper {
		return funcTripper(func(r *http.Request) (*http.Response, error) {
			value, err := valueGetter()
			if err != nil {
				return nil, err
			}
			if r.Header.Get(name) == "" {
				r.Header.Set(name, value)
			}
			return rt.RoundTrip(r)
		})
	}
}
