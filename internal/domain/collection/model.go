package collection

import (
	"encoding/json"
	"time"
)

// Snapshot — полное состояние именованной коллекции. Сервер хранит снимки
// как непрозрачный JSON: слой синхронизации не знает формы данных, политика
// разрешения конфликтов — "последняя запись побеждает" целым снимком.
type Snapshot struct {
	Path      string          `json:"path"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
