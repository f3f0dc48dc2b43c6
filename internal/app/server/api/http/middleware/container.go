package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Container накапливает мидлвари для очередного хендлера. Каждый хендлер
// получает свой набор через GetAllAndClear, после чего контейнер готов
// к сборке следующего набора.
type Container struct {
	huma.Middlewares
}

// NewContainer создает пустой контейнер мидлварей
func NewContainer() *Container {
	return &Container{
		Middlewares: make(huma.Middlewares, 0),
	}
}

// Add добавляет мидлварь в собираемый набор
func (mc *Container) Add(middleware func(ctx huma.Context, next func(huma.Context))) {
	mc.Middlewares = append(mc.Middlewares, middleware)
}

// GetAllAndClear возвращает собранный набор и очищает контейнер
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := mc.Middlewares
	mc.Middlewares = nil
	return result
}
