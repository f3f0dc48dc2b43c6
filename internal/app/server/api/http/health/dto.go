package health

// pingInput пустой, эндпоинт не принимает параметров.
type pingInput struct{}

type pingOutput struct {
	Body pingResponse
}

// pingResponse описывает ответ проверки живости сервера.
type pingResponse struct {
	Status  string `json:"status" example:"OK" doc:"Состояние сервиса"`
	Version string `json:"version" example:"1.0.0" doc:"Версия API"`
}
