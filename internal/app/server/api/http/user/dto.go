package user

type registerInput struct {
	Body BaseRequest
}

type registerOutput struct {
	Body RegisterResponse
}

type BaseRequest struct {
	Login    string `json:"login" doc:"Логин" minLength:"3" maxLength:"32"`
	Password string `json:"password" doc:"Пароль" minLength:"8"`
}

type RegisterResponse struct {
	ID     int    `json:"user_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type loginInput struct {
	Body BaseRequest
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token  string `json:"token"`
	ID     int    `json:"user_id"`
	Role   string `json:"role,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
