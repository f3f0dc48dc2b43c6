package client

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrOffline возвращается удаленным клиентом, когда соединение с сервером
// отсутствует или оборвалось до подтверждения записи.
var ErrOffline = errors.New("нет соединения с сервером")

// RemoteClient — клиент удаленного хранилища реального времени.
// Запись и подписка — единственные долгие операции слоя синхронизации;
// собственных таймаутов слой не добавляет, полагаясь на транспорт.
type RemoteClient interface {
	// Write отправляет снимок коллекции и ждет подтверждения сервера.
	Write(ctx context.Context, collection string, payload json.RawMessage) error

	// Subscribe подписывается на изменения коллекции. onData вызывается
	// на каждое изменение, onError — при ошибках подписки (подписка при
	// этом остается активной и восстанавливается вместе с соединением).
	// Возвращенная функция снимает подписку.
	Subscribe(collection string, onData func(json.RawMessage), onError func(error)) (cancel func())

	// OnConnectivityChange регистрирует наблюдателя состояния соединения.
	// Наблюдатель вызывается только на переходах false↔true.
	OnConnectivityChange(fn func(connected bool)) (cancel func())

	// Connected сообщает текущее состояние соединения.
	Connected() bool
}
