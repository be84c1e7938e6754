package jobs

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

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ordersPageSize = 100

// APIError — ответ API со статусом не 2xx.
type APIError struct {
	Status int
	Body   dto.BaseError
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("crm api returned status %d: %s", e.Status, e.Body.Message)
	}
	return fmt.Sprintf("crm api returned status %d", e.Status)
}

// APIClient ходит в HTTP API сервиса. Повторы с экспоненциальной задержкой живут здесь,
// сервисный слой сам ничего не повторяет.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	attempts   int
	log        *zap.Logger

	conn   *grpc.ClientConn
	health healthpb.HealthClient

	newBackOff func() backoff.BackOff
}

func NewAPIClient(baseURL string, timeout time.Duration, attempts int, log *zap.Logger) *APIClient {
	if attempts < 1 {
		attempts = 1
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		attempts:   attempts,
		log:        log,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			return b
		},
	}
}

// WithHealthProbe подключает проверку через grpc health (пустой addr — без неё).
func (c *APIClient) WithHealthProbe(addr string) error {
	if addr == "" {
		return nil
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial grpc health %s: %w", addr, err)
	}
	c.conn = conn
	c.health = healthpb.NewHealthClient(conn)
	return nil
}

func (c *APIClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping проверяет /health и, если настроен, grpc health.
func (c *APIClient) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return err
	}
	if c.health == nil {
		return nil
	}
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("grpc health check: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("grpc health status %s", resp.GetStatus())
	}
	return nil
}

func (c *APIClient) TotalCustomers(ctx context.Context) (int64, error) {
	var out dto.CountResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats/customers", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *APIClient) TotalOrders(ctx context.Context) (int64, error) {
	var out dto.CountResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats/orders", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *APIClient) TotalRevenue(ctx context.Context) (string, error) {
	var out dto.RevenueResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats/revenue", nil, &out); err != nil {
		return "", err
	}
	return out.TotalRevenue, nil
}

func (c *APIClient) ReplenishLowStock(ctx context.Context, req dto.ReplenishRequest) (*dto.ReplenishResponse, error) {
	var out dto.ReplenishResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/products/replenish", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CleanupCustomers(ctx context.Context, req dto.CleanupCustomersRequest) (*dto.CleanupCustomersResponse, error) {
	var out dto.CleanupCustomersResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/customers/cleanup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentOrders выбирает все заказы начиная с since, постранично.
func (c *APIClient) RecentOrders(ctx context.Context, since time.Time) ([]dto.OrderResponse, error) {
	var all []dto.OrderResponse
	for offset := 0; ; offset += ordersPageSize {
		q := url.Values{}
		q.Set("order_date_gte", since.UTC().Format(time.RFC3339))
		q.Set("limit", strconv.Itoa(ordersPageSize))
		q.Set("offset", strconv.Itoa(offset))

		var page dto.OrderListResponse
		if err := c.do(ctx, http.MethodGet, "/api/v1/orders?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < ordersPageSize || int64(len(all)) >= page.Total {
			return all, nil
		}
	}
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	attempt := 0
	op := func() error {
		attempt++
		var rdr io.Reader
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
		if err != nil {
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			apiErr := &APIError{Status: resp.StatusCode}
			_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
			// 4xx повторять бессмысленно
			if resp.StatusCode < 500 {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s %s: %w", method, path, err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.attempts-1)), ctx)
	err := backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		c.log.Warn("CRM API call failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	return err
}
