package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"gymsync/internal/domain/session"
)

type fakeSessions struct {
	token  string
	userID int
}

func (f *fakeSessions) Create(_ context.Context, _ int) (string, error) {
	return f.token, nil
}

func (f *fakeSessions) Validate(_ context.Context, token string) (int, error) {
	if token != f.token {
		return 0, session.ErrInvalidSession
	}
	return f.userID, nil
}

func newTestWSServer(t *testing.T) (*httptest.Server, string, *fakeCollectionService) {
	t.Helper()

	service := newFakeCollectionService()
	sessions := &fakeSessions{token: "valid-token", userID: 7}
	handler := NewHandler(NewHub(slog.Default()), service, sessions, slog.Default())

	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(srv.Close)

	return srv, "ws" + strings.TrimPrefix(srv.URL, "http"), service
}

func TestHandler_ServeWS_RejectsWithoutToken(t *testing.T) {
	_, wsURL, _ := newTestWSServer(t)

	tests := []struct {
		name   string
		header http.Header
	}{
		{name: "no authorization header", header: nil},
		{name: "wrong token", header: http.Header{"Authorization": []string{"Bearer stolen"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, tt.header)
			require.Error(t, err, "подключение без действующей сессии должно отклоняться")
			require.Nil(t, conn)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestHandler_ServeWS_AuthorizedSubscribe(t *testing.T) {
	_, wsURL, service := newTestWSServer(t)

	_, err := service.Save(context.Background(), "bookings", json.RawMessage(`[{"id":"b1"}]`))
	require.NoError(t, err)

	header := http.Header{"Authorization": []string{"Bearer valid-token"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(frame{Type: frameSubscribe, Collection: "bookings"}))

	// Подписка сразу отдает текущий снимок коллекции
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, frameChange, f.Type)
	assert.Equal(t, "bookings", f.Collection)
	assert.JSONEq(t, `[{"id":"b1"}]`, string(f.Payload))
}

// newRawConnPair открывает websocket-пару без проверки сессии, отдавая
// серверную сторону соединения тесту.
func newRawConnPair(t *testing.T, srvURL string, srvConns <-chan *websocket.Conn) (client, server *websocket.Conn) {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srvURL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-srvConns:
	case <-time.After(2 * time.Second):
		t.Fatal("сервер не принял соединение")
	}
	return client, server
}

func TestHub_BroadcastPrunesDeadAndDeliversToLive(t *testing.T) {
	srvConns := make(chan *websocket.Conn, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		srvConns <- c
	}))
	defer srv.Close()

	_, deadSrv := newRawConnPair(t, srv.URL, srvConns)
	liveClient, liveSrv := newRawConnPair(t, srv.URL, srvConns)

	hub := NewHub(slog.Default())
	dead := &wsConn{conn: deadSrv}
	live := &wsConn{conn: liveSrv}

	hub.subscribe("bookings", dead)
	hub.subscribe("settings", dead)
	hub.subscribe("bookings", live)

	require.NoError(t, deadSrv.Close())

	hub.Broadcast("bookings", json.RawMessage(`[{"id":"b1"}]`))

	// Живой подписчик получает изменение
	require.NoError(t, liveClient.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, liveClient.ReadJSON(&f))
	assert.Equal(t, frameChange, f.Type)

	// Мертвое соединение снимается со всех коллекций
	assert.Len(t, hub.subscribers["bookings"], 1)
	assert.Same(t, live, hub.subscribers["bookings"][0])
	assert.Empty(t, hub.subscribers["settings"])
}
