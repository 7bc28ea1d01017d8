package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"
)

// HostFunc is a generic function signature for host functions.
// It accepts a context and a typed request, and returns a typed response.
type HostFunc[Req any, Resp any] func(context.Context, Req) Resp

// ByteHandler is a function that accepts raw bytes (JSON) and returns raw bytes (JSON).
// The "host" guest module marshals script payloads to JSON before calling it.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewJSONHandler wraps a typed HostFunc into a ByteHandler.
// It handles the JSON unmarshalling of the request and marshalling of the response.
//
// Usage:
//
//	logHandler := hostfuncs.NewJSONHandler(func(ctx context.Context, req hostfuncs.LogRequest) hostfuncs.LogResponse {
//	    logger.InfoContext(ctx, req.Message)
//	    return hostfuncs.LogResponse{OK: true}
//	})
//
//	// From a script:
//	require("host").call("log", {message: "hello"})
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if len(payload) > 0 && string(payload) != "null" {
			if err := json.Unmarshal(payload, &req); err != nil {
				return NewValidationError(fmt.Sprintf("failed to unmarshal request: %v", err)).ToJSON(), nil
			}
		}

		resp := fn(ctx, req)

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return respBytes, nil
	}
}
