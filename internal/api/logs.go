package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/avstage/broadcastd/internal/logging"
)

// LogsResponse wraps recent log entries from the in-memory ring buffer.
type LogsResponse struct {
	Body struct {
		Entries []logging.LogEntry `json:"entries" doc:"Oldest first"`
	}
}

// registerLogRoutes registers the recent-logs endpoint.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Get recent log entries held in the in-memory ring buffer",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"100" minimum:"1" maximum:"1000" doc:"Maximum entries to return, newest kept"`
	}) (*LogsResponse, error) {
		resp := &LogsResponse{}
		if buffer := logging.GetBuffer(); buffer != nil {
			resp.Body.Entries = buffer.ReadLast(input.Limit)
		}
		return resp, nil
	})
}
