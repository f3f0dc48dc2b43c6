package collection

import (
	"encoding/json"
	"time"
)

type getInput struct {
	Path string `path:"path" doc:"Путь коллекции"`
}

type getOutput struct {
	Body snapshotResponse
}

type saveInput struct {
	Path string `path:"path" doc:"Путь коллекции"`
	Body saveRequest
}

type saveRequest struct {
	Payload json.RawMessage `json:"payload" doc:"Снимок коллекции целиком"`
}

type saveOutput struct {
	Body snapshotResponse
}

type snapshotResponse struct {
	Status    string          `json:"status"`
	Path      string          `json:"path"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Status string   `json:"status"`
	Paths  []string `json:"paths"`
}
