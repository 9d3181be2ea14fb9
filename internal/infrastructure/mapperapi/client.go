// Package mapperapi - HTTP клиент API зон. Реализует ZoneRepository, чтобы
// пайплайн мог писать через сервис (store=api) вместо прямого доступа к базе.
package mapperapi

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mappertrip/geosync/internal/config"
	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/errors"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

const zonesPath = "/api/v1/zones"

// ErrBatchTooLarge - батч больше, чем API принимает за один запрос
var ErrBatchTooLarge = stderrors.New("mapper api: batch too large")

// StatusError - ответ API с кодом >= 400
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mapper api: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("mapper api: status %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	} `json:"meta"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type ZoneClient struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     *zap.Logger
}

var _ repository.ZoneRepository = (*ZoneClient)(nil)

// NewZoneClient создает клиент. httpClient nil - клиент с таймаутом из конфига.
func NewZoneClient(cfg *config.MapperAPIConfig, httpClient *http.Client, logger *zap.Logger) *ZoneClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = dto.DefaultZonePageSize
	}

	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 3
	}

	c := &ZoneClient{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		pageSize:   pageSize,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}

	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "mapper-api",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		// Открываемся после N подряд неудачных запросов: мёртвый сервис
		// должен быстро проваливать батчи, а не подвешивать каждый
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Ответы 4xx - ошибки запроса, а не сервиса
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if stderrors.As(err, &se) {
				return se.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

// Ping - лёгкое чтение одной зоны
func (c *ZoneClient) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("limit", "1")
	if _, err := c.do(ctx, http.MethodGet, zonesPath, q, nil); err != nil {
		return fmt.Errorf("mapper api is not reachable: %w", err)
	}
	return nil
}

// ListAll выкачивает все зоны постранично
func (c *ZoneClient) ListAll(ctx context.Context) ([]*domain.Zone, error) {
	var all []*domain.Zone
	for page := 1; ; page++ {
		zones, total, err := c.List(ctx, domain.ZoneFilter{Page: page, Limit: c.pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, zones...)

		if len(zones) == 0 || len(all) >= total {
			break
		}
	}

	c.logger.Debug("Zones loaded from mapper api", zap.Int("count", len(all)))
	return all, nil
}

func (c *ZoneClient) List(ctx context.Context, filter domain.ZoneFilter) ([]*domain.Zone, int, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.CountryCode != "" {
		q.Set("country_code", filter.CountryCode)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	env, err := c.do(ctx, http.MethodGet, zonesPath, q, nil)
	if err != nil {
		return nil, 0, err
	}

	var zones []*domain.Zone
	if err := json.Unmarshal(env.Data, &zones); err != nil {
		return nil, 0, fmt.Errorf("decode zones: %w", err)
	}

	total := len(zones)
	if env.Meta != nil {
		total = env.Meta.Total
	}
	return zones, total, nil
}

func (c *ZoneClient) GetByID(ctx context.Context, id uuid.UUID) (*domain.Zone, error) {
	env, err := c.do(ctx, http.MethodGet, zonesPath+"/"+id.String(), nil, nil)
	if err != nil {
		return nil, err
	}

	var zone domain.Zone
	if err := json.Unmarshal(env.Data, &zone); err != nil {
		return nil, fmt.Errorf("decode zone: %w", err)
	}
	return &zone, nil
}

// InsertBatch - один POST на батч; сервис вставляет его одной транзакцией
func (c *ZoneClient) InsertBatch(ctx context.Context, zones []*domain.Zone) error {
	if len(zones) == 0 {
		return nil
	}
	if len(zones) > dto.MaxZonesPerRequest {
		return fmt.Errorf("%w: %d zones, limit %d", ErrBatchTooLarge, len(zones), dto.MaxZonesPerRequest)
	}

	req := dto.CreateZonesRequest{Zones: make([]dto.ZoneInput, 0, len(zones))}
	for _, z := range zones {
		if z.ID == uuid.Nil {
			z.ID = uuid.New()
		}
		req.Zones = append(req.Zones, dto.NewZoneInput(z))
	}

	_, err := c.do(ctx, http.MethodPost, zonesPath, nil, req)
	return err
}

func (c *ZoneClient) GetStatus(ctx context.Context, id uuid.UUID) (*string, error) {
	zone, err := c.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if zone.Status == nil {
		return nil, nil
	}
	return zone.Status, nil
}

func (c *ZoneClient) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := c.do(ctx, http.MethodPatch, zonesPath+"/"+id.String(), nil, dto.UpdateZoneRequest{Status: &status})
	return err
}

func (c *ZoneClient) Link(ctx context.Context, id uuid.UUID, link domain.ZoneLink) error {
	req := dto.UpdateZoneRequest{
		ExternalRef: &link.ExternalRef,
		Polygon:     link.Boundary,
		Status:      link.Status,
	}
	if link.Point != nil {
		req.Lat = &link.Point.Lat
		req.Lng = &link.Point.Lng
	}

	_, err := c.do(ctx, http.MethodPatch, zonesPath+"/"+id.String(), nil, req)
	return err
}

// do - лимитер, затем circuit breaker, затем HTTP запрос
func (c *ZoneClient) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	raw, err := c.cb.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, query, body)
	})
	if err != nil {
		return nil, mapError(err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return &env, nil
}

func (c *ZoneClient) roundTrip(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Mapper API call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		se := &StatusError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var ee errorEnvelope
		if json.Unmarshal(respBody, &ee) == nil && ee.Error.Code != "" {
			se.Code = ee.Error.Code
			se.Message = ee.Error.Message
		}
		return nil, se
	}

	return respBody, nil
}

// mapError переводит ответы API в ошибки домена, где это возможно
func mapError(err error) error {
	var se *StatusError
	if stderrors.As(err, &se) {
		switch {
		case se.Code == errors.ErrZoneNotFound.Code || se.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", errors.ErrZoneNotFound, se.Message)
		case se.Code == errors.ErrDuplicateZone.Code:
			return fmt.Errorf("%w: %s", errors.ErrDuplicateZone, se.Message)
		}
	}
	return err
}
