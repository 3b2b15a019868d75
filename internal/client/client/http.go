package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/client/models"
	"github.com/dmitrijs2005/shopfront/internal/common"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 4 << 20

// HTTPClient talks to the shop REST API. Every call is bounded by the
// configured timeout on top of the caller's context.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates baseURL and returns a client for it.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: want http(s)://host[:port]", baseURL)
	}
	return &HTTPClient{baseURL: u, http: &http.Client{}, timeout: timeout}, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/Functions/RegisterUser", nil, credentials{email, password}, "", &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/Auth/login", nil, credentials{email, password}, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Products(ctx context.Context, token string) ([]models.Product, error) {
	var items []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/Functions/ViewProducts", nil, nil, token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) AddProduct(ctx context.Context, p models.Product) (int64, error) {
	q := url.Values{}
	q.Set("pid", p.ID)
	q.Set("name", p.Name)
	q.Set("price", strconv.FormatFloat(p.Price, 'f', -1, 64))
	q.Set("description", p.Description)
	q.Set("image", p.Image)
	q.Set("stock", strconv.Itoa(p.Stock))

	var n int64
	if err := c.do(ctx, http.MethodPost, "/api/Functions/AddProduct", q, nil, "", &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *HTTPClient) RequestImageUpload(ctx context.Context, productID string) (string, string, error) {
	var resp struct {
		Key       string `json:"key"`
		UploadURL string `json:"uploadUrl"`
	}
	q := url.Values{"productId": {productID}}
	if err := c.do(ctx, http.MethodPost, "/api/Functions/ProductImage", q, nil, "", &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.UploadURL, nil
}

func (c *HTTPClient) BuyNow(ctx context.Context, userID, productID string) (string, error) {
	var resp struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
	}
	q := url.Values{"userId": {userID}, "productId": {productID}}
	if err := c.do(ctx, http.MethodPost, "/api/Functions/BuyNow", q, nil, "", &resp); err != nil {
		return "", err
	}
	return resp.OrderID, nil
}

func (c *HTTPClient) LookupUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/Functions/LoginUser", url.Values{"id": {id}}, nil, "", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// do sends one request and decodes a 2xx JSON body into out. Non-2xx
// statuses become sentinel errors carrying the server's message.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(code int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(code)
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}

	var base error
	switch {
	case code == http.StatusUnauthorized:
		base = ErrUnauthorized
	case code == http.StatusConflict:
		base = ErrConflict
	case code == http.StatusNotFound:
		base = ErrNotFound
	case code >= 400 && code < 500:
		base = ErrBadRequest
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		base = ErrUnavailable
	default:
		base = ErrServer
	}

	if msg == base.Error() {
		return base
	}
	return fmt.Errorf("%w: %s", base, msg)
}
