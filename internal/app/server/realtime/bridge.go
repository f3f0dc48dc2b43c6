package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

const bridgeChannel = "gymsync:realtime"

// Bridge ретранслирует изменения коллекций между экземплярами сервера
// через Redis pub/sub: без него подписчики разных экземпляров видели бы
// только изменения своего.
type Bridge struct {
	rdb      *redis.Client
	hub      *Hub
	log      *slog.Logger
	originID string
}

type bridgeMessage struct {
	Origin     string          `json:"origin"`
	Collection string          `json:"collection"`
	Payload    json.RawMessage `json:"payload"`
}

func NewBridge(rdb *redis.Client, hub *Hub, log *slog.Logger) *Bridge {
	return &Bridge{
		rdb:      rdb,
		hub:      hub,
		log:      log.With(slog.String("component", "realtime_bridge")),
		originID: uuid.NewString(),
	}
}

// Publish отправляет изменение остальным экземплярам.
func (b *Bridge) Publish(collection string, payload json.RawMessage) {
	msg, err := json.Marshal(bridgeMessage{
		Origin:     b.originID,
		Collection: collection,
		Payload:    payload,
	})
	if err != nil {
		b.log.Error("Ошибка сериализации сообщения моста", "error", err)
		return
	}

	if err := b.rdb.Publish(context.Background(), bridgeChannel, msg).Err(); err != nil {
		b.log.Warn("Ошибка публикации в Redis", "error", err)
	}
}

// Run слушает канал моста до отмены контекста. Собственные сообщения
// пропускаются — локальная рассылка уже состоялась.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, bridgeChannel)
	defer pubsub.Close()

	b.log.Info("Мост рассылки запущен", "channel", bridgeChannel)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}

			var bm bridgeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				b.log.Warn("Нечитаемое сообщение моста", "error", err)
				continue
			}

			if bm.Origin == b.originID {
				continue
			}

			b.hub.broadcastLocal(bm.Collection, bm.Payload)
		}
	}
}
