package tools

import (
	"context"
	"encoding/json"
)

// Tool is the interface for all tools
type Tool interface {
	Name() string
	Description() string
	// Schema is the JSON schema of the arguments object.
	Schema() json.RawMessage
	Run(ctx context.Context, args string) (string, error)
}

func decodeArgs(args string, v any) error {
	if args == "" || args == "null" {
		args = "{}"
	}
	return json.Unmarshal([]byte(args), v)
}
