// Package notify implements the push-notification fan-out against Bark-style
// endpoints.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	authinbox "github.com/yoyo-owo/auth-inbox"
	"github.com/yoyo-owo/auth-inbox/internal/middleware"
)

// Config holds configuration for the Bark notifier.
type Config struct {
	// BaseURL is the push endpoint root, e.g. "https://api.day.app".
	BaseURL string

	// Tokens is the raw configured token list, e.g. "[tok1, tok2]".
	Tokens string

	// Timeout bounds each outbound call.
	Timeout time.Duration
}

// BarkNotifier delivers the extracted title/code to each configured target
// with one GET on the templated path {base}/{token}/{title}/{code}. Targets
// are served one at a time; a per-target failure is logged and never affects
// the remaining targets or the pipeline.
type BarkNotifier struct {
	client  *http.Client
	logger  *slog.Logger
	baseURL string
	targets []authinbox.NotificationTarget
}

var _ authinbox.Notifier = (*BarkNotifier)(nil)

// NewBarkNotifier creates a notifier from the configured token list.
func NewBarkNotifier(logger *slog.Logger, cfg Config) *BarkNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BarkNotifier{
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		targets: authinbox.ParseTargetList(cfg.Tokens),
	}
}

// Targets returns the parsed push targets.
func (n *BarkNotifier) Targets() []authinbox.NotificationTarget {
	return n.targets
}

// Notify pushes to every target sequentially.
func (n *BarkNotifier) Notify(ctx context.Context, title, code string) {
	if len(n.targets) == 0 {
		n.logger.Debug("no notification targets configured")
		return
	}

	for _, target := range n.targets {
		n.push(ctx, target, title, code)
	}
}

func (n *BarkNotifier) push(ctx context.Context, target authinbox.NotificationTarget, title, code string) {
	logger := n.logger.With(slog.String("token", maskToken(target.Token)))

	endpoint := fmt.Sprintf("%s/%s/%s/%s",
		n.baseURL, target.Token, url.PathEscape(title), url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Error("building push request failed", slog.String("error", err.Error()))
		middleware.RecordNotification("transport_error")
		return
	}

	resp, err := n.client.Do(req)
	if err != nil {
		logger.Error("push delivery failed", slog.String("error", err.Error()))
		middleware.RecordNotification("transport_error")
		return
	}
	defer resp.Body.Close()

	// Response body is informational only.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		logger.Warn("push endpoint returned non-OK status",
			slog.Int("status", resp.StatusCode))
		middleware.RecordNotification("http_error")
		return
	}

	logger.Info("push delivered")
	middleware.RecordNotification("ok")
}

// maskToken keeps log lines from leaking full device tokens.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}
