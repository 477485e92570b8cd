package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/soilviz/internal/soil/entity"
	"github.com/shandysiswandi/soilviz/internal/soil/render"
	"github.com/shandysiswandi/soilviz/internal/soil/usecase"
)

type uc interface {
	CreateSession(ctx context.Context) (usecase.SessionResult, error)
	Upload(ctx context.Context, sessionID string, files []entity.UploadedFile) (usecase.UploadResult, error)
	Datasets(ctx context.Context, sessionID string) (usecase.DatasetsResult, error)
	Rows(ctx context.Context, sessionID, datasetID string, page int) (usecase.RowsResult, error)
	Graphs(ctx context.Context, sessionID, datasetID string, clicks int) (usecase.GraphsResult, error)
	Charts(ctx context.Context, sessionID, datasetID string) (usecase.ChartsResult, error)
	Dashboard(ctx context.Context, sessionID string) (usecase.DashboardResult, error)
}

type Options struct {
	Render         render.Options
	MaxUploadBytes int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, opts Options) {
	end := &HTTPEndpoint{uc: uc, render: opts.Render}

	r.POST("/sessions", end.CreateSession)
	r.GET("/sessions/:session_id/datasets", end.Datasets)
	r.POST("/sessions/:session_id/uploads", end.Upload, pkgrouter.MaxBodyBytes(opts.MaxUploadBytes))

	r.GET("/sessions/:session_id/datasets/:dataset_id/rows", end.Rows) // ?page=
	r.POST("/sessions/:session_id/datasets/:dataset_id/graphs", end.TriggerGraphs)
	r.GET("/sessions/:session_id/datasets/:dataset_id/graphs", end.Graphs)
	r.Handle(http.MethodGet, "/sessions/:session_id/datasets/:dataset_id/graphs/:artifact", http.HandlerFunc(end.Artifact))

	r.Handle(http.MethodGet, "/dashboard", http.HandlerFunc(end.NewDashboard))
	r.Handle(http.MethodGet, "/sessions/:session_id/dashboard", http.HandlerFunc(end.Dashboard))
}
