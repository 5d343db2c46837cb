package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/avstage/broadcastd/internal/camera"
)

// CameraListResponse wraps the roster snapshot.
type CameraListResponse struct {
	Body struct {
		Cameras []camera.Info `json:"cameras" doc:"Roster state, declaration order"`
	}
}

// CameraResponse wraps one camera's state.
type CameraResponse struct {
	Body camera.Info
}

// registerCameraRoutes registers the roster observation endpoints.
func (s *Server) registerCameraRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-cameras",
		Method:      http.MethodGet,
		Path:        "/api/cameras",
		Summary:     "List Cameras",
		Description: "Get state of every camera in the roster",
		Tags:        []string{"cameras"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*CameraListResponse, error) {
		resp := &CameraListResponse{}
		resp.Body.Cameras = s.options.Roster.Infos()
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{id}",
		Summary:     "Get Camera",
		Description: "Get state of one camera by roster identifier",
		Tags:        []string{"cameras"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(ctx context.Context, input *struct {
		ID int `path:"id" doc:"Roster identifier"`
	}) (*CameraResponse, error) {
		cam, ok := s.options.Roster.Get(input.ID)
		if !ok {
			return nil, huma.Error404NotFound(fmt.Sprintf("camera %d not in roster", input.ID))
		}
		return &CameraResponse{Body: cam.Info()}, nil
	})
}
