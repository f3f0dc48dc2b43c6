package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"gymsync/internal/app/client/config"
	"gymsync/internal/domain/booking"
)

// App — клиентское приложение зала: локальное хранилище, очередь отложенных
// записей и постоянное websocket-соединение с сервером. Все операции с
// записями на тренировки работают локально и сходятся с сервером через
// слой синхронизации.
type App struct {
	config     *config.Config
	log        *slog.Logger
	httpClient *httpClient
	store      KVStore
	queue      *PendingQueue
	remote     *WSRemote
	sync       *SyncService
	state      *AppState

	authenticated bool
	cancel        context.CancelFunc
	mu            gosync.RWMutex
}

// AppState хранит состояние приложения
type AppState struct {
	UserID int    `json:"user_id"`
	Login  string `json:"login"`
	Role   string `json:"role"`
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	state, err := loadAppState(cfg)
	if err != nil {
		log.Warn("Не удалось загрузить состояние приложения", "error", err)
		state = &AppState{}
	}

	httpCl := NewHTTPClient(cfg, log)

	// Локальное хранилище — SQLite; при недоступности диска работаем в памяти
	var store KVStore
	sqliteStore, err := NewSQLiteStore(cfg.DataPath, log)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
		store = NewMemoryStore()
	} else {
		store = sqliteStore
	}

	queue := NewPendingQueue(store, log)
	remote := NewWSRemote(cfg.WSURL(), log)

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		store:      store,
		queue:      queue,
		remote:     remote,
		sync:       NewSyncService(store, queue, remote, log),
		state:      state,
	}

	// Токен загружается до запуска соединения, чтобы уже первое
	// подключение прошло проверку сессии на сервере
	if token, err := app.loadToken(); err == nil && token != "" {
		httpCl.SetToken(token)
		remote.SetToken(token)
		app.mu.Lock()
		app.authenticated = true
		app.mu.Unlock()
		log.Debug("Токен загружен из файла")
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	go remote.Run(ctx)

	return app, nil
}

func loadAppState(cfg *config.Config) (*AppState, error) {
	statePath := cfg.ConfigDir + "/state.json"

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		return &AppState{}, nil
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, err
	}

	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (a *App) saveAppState() error {
	statePath := a.config.ConfigDir + "/state.json"
	data, err := json.MarshalIndent(a.state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(statePath, data, 0600)
}

// IsAuthenticated проверяет, выполнен ли вход
func (a *App) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authenticated
}

// UserID возвращает ID текущего пользователя в виде строки — в этом виде
// он хранится в записях на тренировки.
func (a *App) UserID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return strconv.Itoa(a.state.UserID)
}

// Role возвращает роль текущего пользователя.
func (a *App) Role() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Role
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.httpClient.HealthCheck(ctx)
}

// Register регистрирует нового пользователя на сервере.
func (a *App) Register(ctx context.Context, login, password string) (int, error) {
	return a.httpClient.Register(ctx, login, password)
}

// Login выполняет вход и сохраняет токен и состояние пользователя.
func (a *App) Login(ctx context.Context, login, password string) error {
	resp, err := a.httpClient.Login(ctx, login, password)
	if err != nil {
		return err
	}

	a.httpClient.SetToken(resp.Token)
	a.remote.SetToken(resp.Token)

	a.mu.Lock()
	a.authenticated = true
	a.state.UserID = resp.ID
	a.state.Login = login
	a.state.Role = resp.Role
	a.mu.Unlock()

	if err := a.saveAppState(); err != nil {
		a.log.Warn("Не удалось сохранить состояние приложения", "error", err)
	}

	if err := a.saveToken(resp.Token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	return nil
}

func (a *App) saveToken(token string) error {
	return os.WriteFile(a.config.TokenPath, []byte(token), 0600)
}

func (a *App) loadToken() (string, error) {
	data, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Bookings возвращает локальный снимок записей на тренировки. Снимок
// обновляется серверными изменениями через подписку, офлайн отдается
// последнее известное состояние.
func (a *App) Bookings() []booking.Booking {
	var payload json.RawMessage
	got := false

	cancel := a.sync.Subscribe(booking.CollectionPath, func(p json.RawMessage) {
		if !got {
			payload = p
			got = true
		}
	})
	cancel()

	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}

	var bookings []booking.Booking
	if err := json.Unmarshal(payload, &bookings); err != nil {
		a.log.Warn("Нечитаемый снимок записей", "error", err)
		return nil
	}

	return bookings
}

// ClassifySlot определяет положение слота тренера относительно записей
// текущего пользователя по локальному снимку.
func (a *App) ClassifySlot(trainerID, date, timeSlot string) booking.SlotState {
	return booking.ClassifySlot(a.Bookings(), trainerID, date, timeSlot, a.UserID())
}

// CreateBooking добавляет заявку в локальный снимок и отправляет его на
// сервер через слой синхронизации. Возвращает созданную запись; ошибки
// сети не возвращаются — снимок доедет при восстановлении соединения.
func (a *App) CreateBooking(trainerID, date, timeSlot string) (booking.Booking, error) {
	if trainerID == "" || date == "" || timeSlot == "" {
		return booking.Booking{}, fmt.Errorf("%w: тренер, дата и слот обязательны", booking.ErrInvalidInput)
	}

	if _, err := time.Parse(booking.DateLayout, date); err != nil {
		return booking.Booking{}, fmt.Errorf("%w: дата в формате %s", booking.ErrInvalidInput, booking.DateLayout)
	}

	if a.ClassifySlot(trainerID, date, timeSlot) == booking.SlotMine {
		return booking.Booking{}, booking.ErrAlreadyBooked
	}

	b := booking.Booking{
		ID:        uuid.NewString(),
		UserID:    a.UserID(),
		TrainerID: trainerID,
		Date:      date,
		TimeSlot:  timeSlot,
		Status:    booking.StatusPending,
		CreatedAt: time.Now(),
	}

	bookings := append(a.Bookings(), b)
	payload, err := json.Marshal(bookings)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("сериализация снимка записей: %w", err)
	}

	a.sync.SaveAll(booking.CollectionPath, payload)
	return b, nil
}

// RateBooking отправляет оценку прошедшей тренировки на сервер. Оценка
// требует серверной проверки времени, офлайн-режим для нее не предусмотрен.
func (a *App) RateBooking(ctx context.Context, id string, rating int) error {
	return a.httpClient.RateBooking(ctx, id, rating)
}

// WatchBookings подписывается на изменения снимка записей. Первый вызов —
// локальный кеш, дальше серверные изменения.
func (a *App) WatchBookings(cb func([]booking.Booking)) (cancel func()) {
	return a.sync.Subscribe(booking.CollectionPath, func(payload json.RawMessage) {
		if len(payload) == 0 || string(payload) == "null" {
			cb(nil)
			return
		}

		var bookings []booking.Booking
		if err := json.Unmarshal(payload, &bookings); err != nil {
			a.log.Warn("Нечитаемый снимок записей", "error", err)
			return
		}
		cb(bookings)
	})
}

// Online сообщает, есть ли соединение с сервером.
func (a *App) Online() bool {
	return a.sync.Online()
}

// PendingCount возвращает число отложенных записей.
func (a *App) PendingCount() int {
	return a.sync.PendingCount()
}

// PendingCollections возвращает коллекции, ждущие отправки.
func (a *App) PendingCollections() []string {
	return a.queue.Collections()
}

// Flush отправляет отложенные записи на сервер.
func (a *App) Flush(ctx context.Context) (flushed, remaining int) {
	return a.sync.FlushPending(ctx)
}

// Close останавливает соединение и закрывает локальное хранилище.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	a.sync.Close()

	if err := a.store.Close(); err != nil {
		a.log.Warn("Ошибка закрытия хранилища", "error", err)
	}
}
