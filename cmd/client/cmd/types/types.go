package types

type contextKey string

// ClientAppKey — ключ контекста, под которым команды находят приложение.
const ClientAppKey contextKey = "clientApp"
