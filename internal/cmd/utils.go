package cmd

import (
	"io"
	"net/http"
	"os"

	"github.com/henvic/httpretty"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jakewharton/hardcover-data-sync/internal/client"
	"github.com/jakewharton/hardcover-data-sync/internal/config"
	"github.com/jakewharton/hardcover-data-sync/internal/version"
)

// loadConfig merges the config file, the environment and the flags,
// in increasing order of precedence.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := getConfigPath(); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if url := getAPIURL(); url != "" {
		cfg.Endpoint = url
	}

	return cfg, errors.WithMessage(cfg.Validate(), "invalid configuration")
}

// newAPIClient returns a client sending every request with the bearer
// token. The caller owns transport and should close its idle connections
// once done.
func newAPIClient(transport *http.Transport, logger *zap.Logger, trace io.Writer) *http.Client {
	opts := []client.Option{
		client.WithBearerToken(getBearer()),
		client.WithUserAgent(version.BaseVersion()),
	}
	if getDebug() {
		opts = append(opts, client.Middleware(httpLoggerMiddleware(trace)))
		opts = append(opts, client.WithLogger(logger.Named("APIClient")))
	}
	return client.NewHTTPClient(&http.Client{Transport: transport}, opts...)
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// httpLoggerMiddleware prints request and response headers without bodies.
// httpretty masks the Authorization header.
func httpLoggerMiddleware(out io.Writer) func(http.RoundTripper) http.RoundTripper {
	logger := &httpretty.Logger{
		Time:           true,
		TLS:            false,
		Colors:         isTerminal(out),
		RequestHeader:  true,
		RequestBody:    false,
		ResponseHeader: true,
		ResponseBody:   false,
	}
	logger.SetOutput(out)
	return logger.RoundTripper
}
