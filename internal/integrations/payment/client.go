package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платёжного сервиса.
// Сам платёж проводится внешним сервисом, клиент только создаёт намерение оплаты
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платёжного сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateIntent создает намерение оплаты на сумму amountToCollectNow.
// Повторный запрос с тем же IdempotencyKey возвращает то же намерение
func (c *Client) CreateIntent(ctx context.Context, in IntentRequest) (*Intent, error) {
	endpoint := fmt.Sprintf("%s/internal/payment-intents", c.baseURL)

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", in.IdempotencyKey)

	c.log.Info("Creating payment intent amount=%.2f %s key=%s", in.Amount, in.Currency, in.IdempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Payment service request failed key=%s: %v", in.IdempotencyKey, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var errResp ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("%w: %s", ErrRejected, errResp.Message)
	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if intent.Handle == "" {
		return nil, fmt.Errorf("%w: empty intent handle", ErrInvalidResponse)
	}

	return &intent, nil
}

// GetIntent возвращает текущее состояние намерения оплаты.
// Callback о платеже проверяется только по этому ответу
func (c *Client) GetIntent(ctx context.Context, handle string) (*Intent, error) {
	endpoint := fmt.Sprintf("%s/internal/payment-intents/%s", c.baseURL, url.PathEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Payment service request failed handle=%s: %v", handle, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: handle=%s", ErrIntentNotFound, handle)
	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if intent.Handle != handle {
		return nil, fmt.Errorf("%w: handle mismatch: requested=%s, got=%s", ErrInvalidResponse, handle, intent.Handle)
	}

	return &intent, nil
}
