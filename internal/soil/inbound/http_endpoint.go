package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgerror"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/soilviz/internal/soil/entity"
	"github.com/shandysiswandi/soilviz/internal/soil/render"
)

const (
	artifactPie        = "pie"
	artifactBox        = "box"
	artifactHeatMap    = "heatmap"
	artifactAccuracy   = "accuracy"
	artifactPiePNG     = "pie.png"
	artifactHeatMapPNG = "heatmap.png"
)

type HTTPEndpoint struct {
	uc     uc
	render render.Options
}

func (h *HTTPEndpoint) CreateSession(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	return SessionResponse{
		SessionID: result.SessionID,
		CreatedAt: result.CreatedAt,
		Dashboard: dashboardPath(result.SessionID),
	}, nil
}

func (h *HTTPEndpoint) Datasets(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Datasets(ctx, pkgrouter.GetParam(ctx, "session_id"))
	if err != nil {
		return nil, err
	}

	return DatasetsResponse{
		SessionID: result.SessionID,
		UpdatedAt: result.UpdatedAt,
		Datasets:  toHTTPDatasets(result.Datasets),
	}, nil
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	files, err := extractFiles(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Upload(ctx, pkgrouter.GetParam(ctx, "session_id"), files)
	if err != nil {
		return nil, err
	}

	return UploadResponse{
		SessionID: result.SessionID,
		Datasets:  toHTTPDatasets(result.Datasets),
	}, nil
}

func (h *HTTPEndpoint) Rows(ctx context.Context, r *http.Request) (any, error) {
	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Rows(ctx, pkgrouter.GetParam(ctx, "session_id"), pkgrouter.GetParam(ctx, "dataset_id"), page)
	if err != nil {
		return nil, err
	}

	return RowsResponse{
		SessionID: result.SessionID,
		DatasetID: result.DatasetID,
		Headers:   result.Headers,
		Rows:      result.Records,
		page:      result.Page,
		pageSize:  result.PageSize,
		total:     result.Total,
	}, nil
}

func (h *HTTPEndpoint) TriggerGraphs(ctx context.Context, r *http.Request) (any, error) {
	var req GraphsRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return nil, pkgerror.NewInvalidFormat()
		}
	}

	clicks := 0
	if req.NClicks != nil {
		clicks = *req.NClicks
	}

	sessionID := pkgrouter.GetParam(ctx, "session_id")
	result, err := h.uc.Graphs(ctx, sessionID, pkgrouter.GetParam(ctx, "dataset_id"), clicks)
	if err != nil {
		return nil, err
	}

	return GraphsResponse{
		DatasetID: result.DatasetID,
		Updated:   result.Updated,
		Clicks:    result.Clicks,
		Charts:    toHTTPChartSet(sessionID, result.DatasetID, result.Charts),
	}, nil
}

func (h *HTTPEndpoint) Graphs(ctx context.Context, r *http.Request) (any, error) {
	sessionID := pkgrouter.GetParam(ctx, "session_id")
	result, err := h.uc.Charts(ctx, sessionID, pkgrouter.GetParam(ctx, "dataset_id"))
	if err != nil {
		return nil, err
	}

	return ChartsResponse{
		DatasetID: result.DatasetID,
		Clicks:    result.Clicks,
		Charts:    toHTTPChartSet(sessionID, result.DatasetID, result.Charts),
	}, nil
}

// Artifact serves one rendered chart. Before the first trigger there is
// nothing to show and the response is empty.
func (h *HTTPEndpoint) Artifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	artifact := pkgrouter.GetParam(ctx, "artifact")
	draw, contentType, ok := h.artifactRenderer(artifact)
	if !ok {
		pkgrouter.WriteError(ctx, w, pkgerror.NewBusiness("unknown chart artifact", pkgerror.CodeNotFound))
		return
	}

	result, err := h.uc.Charts(ctx, pkgrouter.GetParam(ctx, "session_id"), pkgrouter.GetParam(ctx, "dataset_id"))
	if err != nil {
		pkgrouter.WriteError(ctx, w, err)
		return
	}

	if result.Charts == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, *result.Charts); err != nil {
		pkgrouter.WriteError(ctx, w, pkgerror.NewServer(err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *HTTPEndpoint) artifactRenderer(artifact string) (func(io.Writer, entity.ChartSet) error, string, bool) {
	const htmlType = "text/html; charset=utf-8"

	switch artifact {
	case artifactPie:
		return func(w io.Writer, s entity.ChartSet) error { return render.Pie(w, s, h.render) }, htmlType, true
	case artifactBox:
		return func(w io.Writer, s entity.ChartSet) error { return render.BoxPlot(w, s, h.render) }, htmlType, true
	case artifactHeatMap:
		return func(w io.Writer, s entity.ChartSet) error { return render.HeatMap(w, s, h.render) }, htmlType, true
	case artifactAccuracy:
		return render.Accuracy, htmlType, true
	case artifactPiePNG:
		return render.PiePNG, "image/png", true
	case artifactHeatMapPNG:
		return render.HeatMapPNG, "image/png", true
	default:
		return nil, "", false
	}
}

func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, pkgerror.NewInvalidInput(errors.New("invalid page"))
	}

	return value, nil
}

func extractFiles(r *http.Request) ([]entity.UploadedFile, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
			return extractMultipartFiles(r)
		}
	}

	if r.Body == nil {
		return nil, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, bodyErr(err)
	}

	files := make([]entity.UploadedFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, entity.UploadedFile{
			Filename:     f.Filename,
			Encoding:     entity.EncodingBase64,
			Payload:      f.Contents,
			LastModified: epochSeconds(f.LastModified),
		})
	}

	return files, nil
}

// extractMultipartFiles collects every "file" part; other parts are skipped.
func extractMultipartFiles(r *http.Request) ([]entity.UploadedFile, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	var files []entity.UploadedFile
	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, bodyErr(err)
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, bodyErr(err)
		}

		files = append(files, entity.UploadedFile{
			Filename:  part.FileName(),
			Encoding:  entity.EncodingRaw,
			Raw:       data,
			MediaType: part.Header.Get("Content-Type"),
		})
	}

	if len(files) == 0 {
		return nil, pkgerror.NewInvalidInput(errors.New("file part is required"))
	}

	return files, nil
}

func bodyErr(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return pkgerror.NewTooLarge(err)
	}
	return pkgerror.NewInvalidFormat()
}

func epochSeconds(v *float64) time.Time {
	if v == nil || *v <= 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(*v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

func dashboardPath(sessionID string) string {
	return "/sessions/" + sessionID + "/dashboard"
}
