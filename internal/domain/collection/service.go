package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
)

// reservedPaths — служебные пути, недоступные как коллекции данных.
// Путь состояния соединения отделен от данных, как и ключ очереди на клиенте.
var reservedPaths = map[string]bool{
	"sync_queue":      true,
	".info/connected": true,
}

// Servicer — сервис снимков коллекций: валидация пути, запись, чтение и
// проекции. Проекция разворачивает снимок известной коллекции в прикладные
// таблицы (например, "bookings" — в таблицу записей для админки).
type Servicer interface {
	Save(ctx context.Context, path string, payload json.RawMessage) (*Snapshot, error)
	Get(ctx context.Context, path string) (*Snapshot, error)
	List(ctx context.Context) ([]string, error)
}

// Projector применяет снимок коллекции к прикладному хранилищу.
type Projector interface {
	Apply(ctx context.Context, payload json.RawMessage) error
}

type Service struct {
	repo       Repository
	log        *slog.Logger
	projectors map[string]Projector
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		log:        log,
		projectors: make(map[string]Projector),
	}
}

// RegisterProjector подключает проекцию для пути. Вызывается на этапе
// сборки сервера, до начала обработки запросов.
func (s *Service) RegisterProjector(path string, p Projector) {
	s.projectors[path] = p
}

func (s *Service) Save(ctx context.Context, path string, payload json.RawMessage) (*Snapshot, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	snapshot, err := s.repo.Save(ctx, path, payload)
	if err != nil {
		return nil, fmt.Errorf("сохранение снимка %q: %w", path, err)
	}

	// Неудача проекции не откатывает снимок: снимок — источник истины,
	// проекция догонит его при следующей записи.
	if projector, ok := s.projectors[path]; ok {
		if err := projector.Apply(ctx, payload); err != nil {
			s.log.Warn("Ошибка проекции снимка", "path", path, "error", err)
		}
	}

	s.log.Debug("Снимок сохранен", "path", path, "size", len(payload))
	return snapshot, nil
}

func (s *Service) Get(ctx context.Context, path string) (*Snapshot, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, path)
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

func validatePath(path string) error {
	if path == "" || strings.HasPrefix(path, ".") || reservedPaths[path] {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}
