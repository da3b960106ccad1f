package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Hub modes understood by a WebSub hub.
const (
	ModeSubscribe   = "subscribe"
	ModeUnsubscribe = "unsubscribe"
)

// HubRequest is one subscription change sent to the hub.
type HubRequest struct {
	Mode        string
	Topic       string
	Callback    string
	VerifyToken string
}

// HubResponse mirrors what the hub answered.
type HubResponse struct {
	StatusCode int
	Body       []byte
}

// HubClient talks to a WebSub hub such as pubsubhubbub.appspot.com.
type HubClient struct {
	hubURL     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHubClient(hubURL string, logger *zap.Logger) *HubClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HubClient{
		hubURL:     hubURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Send posts a synchronous-verification subscription request. A non-2xx hub answer is
// returned as-is, not as an error, so callers can relay it.
func (h *HubClient) Send(ctx context.Context, r HubRequest) (*HubResponse, error) {
	form := url.Values{}
	form.Set("hub.mode", r.Mode)
	form.Set("hub.topic", r.Topic)
	form.Set("hub.callback", r.Callback)
	form.Set("hub.verify", "sync")
	if r.VerifyToken != "" {
		form.Set("hub.verify_token", r.VerifyToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.hubURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create hub request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	h.logger.Info("sending hub request",
		zap.String("mode", r.Mode),
		zap.String("topic", r.Topic),
		zap.String("callback", r.Callback))

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send hub request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read hub response: %w", err)
	}
	return &HubResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
