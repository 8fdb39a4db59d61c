package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"autobid/models"
	"autobid/services/catalog"
	"autobid/utils"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type ctxKey struct{}

// WithAuthToken attaches the caller's bearer token so it is forwarded to the
// marketplace. Authentication itself happens upstream.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// AuthToken returns the token attached by WithAuthToken, if any.
func AuthToken(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// envelope is the shape of every marketplace reply.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

type failureData struct {
	Message string                     `json:"message"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

type vehicleData struct {
	ID         catalog.FlexString `json:"id"`
	Title      string             `json:"title"`
	Price      catalog.FlexString `json:"price"`
	CurrentBid catalog.FlexString `json:"current_bid"`
}

type profileData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Client talks to the remote marketplace API.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
	logger  *zap.Logger
}

// NewClient builds a marketplace client. httpClient may be nil.
func NewClient(baseURL string, timeout time.Duration, httpClient *fasthttp.Client) *Client {
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "autobid",
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 30 * time.Second,
		}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    httpClient,
		logger:  utils.GetLogger(),
	}
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if token := AuthToken(ctx); token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return c.http.DoDeadline(req, resp, deadline)
}

// call performs a request and decodes the success payload into out.
func (c *Client) call(ctx context.Context, method, path string, body []byte, contentType string, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType(contentType)
		req.SetBody(body)
	}

	start := time.Now()
	if err := c.do(ctx, req, resp); err != nil {
		c.logger.Warn("marketplace: request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("marketplace %s %s: %w", method, path, err)
	}
	status := resp.StatusCode()
	c.logger.Debug("marketplace: response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("took", time.Since(start)),
	)

	if status == http.StatusNotFound {
		return ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if status >= http.StatusBadRequest {
			return &APIError{Status: status}
		}
		return fmt.Errorf("marketplace %s %s: decode response: %w", method, path, err)
	}
	if !env.Success || status >= http.StatusBadRequest {
		return decodeFailure(status, env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("marketplace %s %s: decode data: %w", method, path, err)
	}
	return nil
}

func decodeFailure(status int, env envelope) *APIError {
	apiErr := &APIError{Status: status, Message: env.Message}
	var data failureData
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &data) == nil {
		if data.Message != "" {
			apiErr.Message = data.Message
		}
		apiErr.FieldErrors = decodeFieldErrors(data.Errors)
	}
	return apiErr
}

// decodeFieldErrors accepts both {"field": "msg"} and {"field": ["msg", ...]}.
func decodeFieldErrors(raw map[string]json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for field, v := range raw {
		var many []string
		if err := json.Unmarshal(v, &many); err == nil {
			out[field] = many
			continue
		}
		var one string
		if err := json.Unmarshal(v, &one); err == nil {
			out[field] = []string{one}
		}
	}
	return out
}

// GetVehicle fetches the vehicle being booked.
func (c *Client) GetVehicle(ctx context.Context, vehicleID string) (models.Vehicle, error) {
	var data vehicleData
	if err := c.call(ctx, fasthttp.MethodGet, "/vehicles/"+vehicleID, nil, "", &data); err != nil {
		return models.Vehicle{}, err
	}
	v := models.Vehicle{
		ID:    data.ID.String(),
		Title: data.Title,
		Price: utils.ParseAmount(data.Price.String()),
	}
	if v.ID == "" {
		v.ID = vehicleID
	}
	if bid := strings.TrimSpace(data.CurrentBid.String()); bid != "" {
		amount := utils.ParseAmount(bid)
		v.CurrentBid = &amount
	}
	return v, nil
}

// GetProfileDefaults fetches the caller's contact details.
func (c *Client) GetProfileDefaults(ctx context.Context) (models.ProfileDefaults, error) {
	var data profileData
	if err := c.call(ctx, fasthttp.MethodGet, "/profile", nil, "", &data); err != nil {
		return models.ProfileDefaults{}, err
	}
	return models.ProfileDefaults{Name: data.Name, Email: data.Email, Phone: data.Phone}, nil
}

// FetchServiceCatalog implements catalog.Source.
func (c *Client) FetchServiceCatalog(ctx context.Context) ([]catalog.ServiceEntry, error) {
	var entries []catalog.ServiceEntry
	if err := c.call(ctx, fasthttp.MethodGet, "/services", nil, "", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchLocationCatalog implements catalog.Source.
func (c *Client) FetchLocationCatalog(ctx context.Context) ([]catalog.LocationEntry, error) {
	var entries []catalog.LocationEntry
	if err := c.call(ctx, fasthttp.MethodGet, "/locations", nil, "", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SubmitBooking posts an encoded multi-part booking. A non-success reply is
// returned as *APIError.
func (c *Client) SubmitBooking(ctx context.Context, body []byte, contentType string) (json.RawMessage, error) {
	var data json.RawMessage
	if err := c.call(ctx, fasthttp.MethodPost, "/bookings", body, contentType, &data); err != nil {
		return nil, err
	}
	return data, nil
}

var _ catalog.Source = (*Client)(nil)
