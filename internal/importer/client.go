package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/finvista-dev/finvista/internal/logging"
	"github.com/finvista-dev/finvista/internal/model"
)

const (
	incomesPath  = "/get-incomes"
	expensesPath = "/get-expenses"

	// authCookie is the cookie the backend reads its session token from.
	authCookie = "token"

	defaultTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	MaxRetries int
	RetryWait  time.Duration
	MaxWait    time.Duration
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client downloads transaction records from the backend API.
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
	logger  *slog.Logger
}

// NewClient creates a Client. BaseURL is the API root, e.g. https://host/api/auth.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("api base URL is not set")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: opts.Timeout}
	rc.RetryMax = opts.MaxRetries
	if opts.RetryWait > 0 {
		rc.RetryWaitMin = opts.RetryWait
	}
	if opts.MaxWait > 0 {
		rc.RetryWaitMax = opts.MaxWait
	}
	rc.Logger = &retryLogger{logger: logger}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    rc,
		logger:  logger,
	}, nil
}

// FetchTransactions returns the user's incomes followed by their expenses.
func (c *Client) FetchTransactions(ctx context.Context) ([]model.Transaction, error) {
	incomes, err := c.fetch(ctx, incomesPath, model.KindIncome)
	if err != nil {
		return nil, err
	}
	expenses, err := c.fetch(ctx, expensesPath, model.KindExpense)
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetched transactions", "incomes", len(incomes), "expenses", len(expenses))
	return append(incomes, expenses...), nil
}

func (c *Client) fetch(ctx context.Context, path string, kind model.Kind) ([]model.Transaction, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: authCookie, Value: c.token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("requesting %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	p := &JSONParser{DefaultKind: kind}
	txns, err := p.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return txns, nil
}

// retryLogger adapts slog to retryablehttp's leveled logger.
type retryLogger struct {
	logger *slog.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
