// Package offers — HTTP-клиент эндпоинта предложений (облачная функция offers
// или cmd/offersapi). GET читают список, POST/DELETE требуют X-Admin-Auth.
package offers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"OfferBoard/internal/models"
)

// AdminHeader — заголовок с общим секретом для привилегированных запросов.
const AdminHeader = "X-Admin-Auth"

// ограничение на чтение тела ответа
const maxBody = 4 << 20

// Client ходит в эндпоинт offers.
type Client struct {
	endpoint   string
	adminToken string
	httpClient *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (тесты, свой транспорт).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout задаёт таймаут на один запрос.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithAdminToken задаёт значение X-Admin-Auth.
func WithAdminToken(token string) Option {
	return func(c *Client) {
		c.adminToken = token
	}
}

// NewClient создаёт клиента для эндпоинта endpoint (полный URL функции).
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint возвращает адрес эндпоинта.
func (c *Client) Endpoint() string { return c.endpoint }

// List — GET: {"offers": [...]}.
func (c *Client) List(ctx context.Context) ([]models.Offer, error) {
	const op = "list"
	resp, err := c.do(ctx, http.MethodGet, c.endpoint, nil, false)
	if err != nil {
		return nil, networkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, networkError(op, err)
	}
	if !ok(resp) {
		return nil, responseError(op, resp, errorMessage(body))
	}

	var out models.OfferList
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, decodeError(op, err)
	}
	if out.Offers == nil {
		out.Offers = []models.Offer{}
	}
	return out.Offers, nil
}

// Create — POST с черновиком в теле. Возвращает id, если эндпоинт его прислал (иначе 0).
func (c *Client) Create(ctx context.Context, d models.Draft) (int64, error) {
	const op = "create"
	payload, err := json.Marshal(d)
	if err != nil {
		return 0, &Error{Kind: KindUnknown, Op: op, Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, c.endpoint, payload, true)
	if err != nil {
		return 0, networkError(op, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if !ok(resp) {
		return 0, responseError(op, resp, errorMessage(body))
	}

	// Успех — это 2xx. Тело — бонус.
	var created struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &created)
	return created.ID, nil
}

// Delete — DELETE ?id=<id>.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.withID(ctx, "delete", http.MethodDelete, id, true)
}

// CountView — PUT ?id=<id>, увеличивает счётчик просмотров.
func (c *Client) CountView(ctx context.Context, id int64) error {
	return c.withID(ctx, "count view", http.MethodPut, id, false)
}

func (c *Client) withID(ctx context.Context, op, method string, id int64, admin bool) error {
	target, err := withQueryID(c.endpoint, id)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: op, Err: err}
	}

	resp, err := c.do(ctx, method, target, nil, admin)
	if err != nil {
		return networkError(op, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if !ok(resp) {
		return responseError(op, resp, errorMessage(body))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, admin bool) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin && c.adminToken != "" {
		req.Header.Set(AdminHeader, c.adminToken)
	}
	return c.httpClient.Do(req)
}

func withQueryID(endpoint string, id int64) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("id", strconv.FormatInt(id, 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		return e.Error
	}
	return ""
}
