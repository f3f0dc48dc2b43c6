package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"gymsync/internal/app/client/config"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   cfg.BaseURL(),
		userAgent: "Gymsync-Client/1.0",
	}
}

// SetToken устанавливает токен аутентификации
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	return nil
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	ID     int    `json:"user_id"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

type registerResponse struct {
	ID     int    `json:"user_id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Register регистрирует пользователя на сервере и возвращает его ID.
func (h *httpClient) Register(ctx context.Context, login, password string) (int, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", credentials{
		Login:    login,
		Password: password,
	})
	if err != nil {
		return 0, err
	}

	var regResp registerResponse
	if err := h.parseResponse(resp, &regResp); err != nil {
		return 0, err
	}

	return regResp.ID, nil
}

// Login выполняет вход и возвращает токен сессии, ID и роль пользователя.
func (h *httpClient) Login(ctx context.Context, login, password string) (loginResponse, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", credentials{
		Login:    login,
		Password: password,
	})
	if err != nil {
		return loginResponse{}, err
	}

	var loginResp loginResponse
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return loginResponse{}, err
	}

	return loginResp, nil
}

// RateBooking отправляет оценку прошедшей тренировки.
func (h *httpClient) RateBooking(ctx context.Context, id string, rating int) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/bookings/"+id+"/rate", map[string]int{
		"rating": rating,
	})
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Detail != "" {
				return fmt.Errorf("сервер вернул ошибку: %s", errResp.Detail)
			}
			if errResp.Error != "" {
				return fmt.Errorf("сервер вернул ошибку: %s", errResp.Error)
			}
		}
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("ошибка разбора ответа: %w", err)
	}

	return nil
}
