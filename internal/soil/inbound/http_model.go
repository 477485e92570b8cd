package inbound

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
	"github.com/shandysiswandi/soilviz/internal/soil/usecase"
)

// UploadFile mirrors what a browser upload control hands over: a data URL,
// the file name and its last-modified time in epoch seconds.
type UploadFile struct {
	Contents     string   `json:"contents"`
	Filename     string   `json:"filename"`
	LastModified *float64 `json:"last_modified,omitempty"`
}

type UploadRequest struct {
	Files []UploadFile `json:"files"`
}

type GraphsRequest struct {
	NClicks *int `json:"n_clicks"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Dashboard string    `json:"dashboard"`
}

func (SessionResponse) StatusCode() int {
	return http.StatusCreated
}

func (SessionResponse) Message() string {
	return "session created"
}

type Dataset struct {
	ID           string              `json:"id"`
	Filename     string              `json:"filename"`
	LastModified *time.Time          `json:"last_modified,omitempty"`
	UploadedAt   time.Time           `json:"uploaded_at"`
	Outcome      entity.ParseOutcome `json:"outcome"`
	Format       entity.Format       `json:"format"`
	Message      string              `json:"message,omitempty"`
	Preview      string              `json:"preview"`
	Headers      []string            `json:"headers,omitempty"`
	Rows         int                 `json:"rows"`
	Chartable    bool                `json:"chartable"`
	Clicks       int                 `json:"n_clicks"`
	HasCharts    bool                `json:"has_charts"`
}

type UploadResponse struct {
	SessionID string    `json:"session_id"`
	Datasets  []Dataset `json:"datasets"`
}

func (UploadResponse) StatusCode() int {
	return http.StatusCreated
}

func (UploadResponse) Message() string {
	return "upload processed"
}

type DatasetsResponse struct {
	SessionID string    `json:"session_id"`
	UpdatedAt time.Time `json:"updated_at"`
	Datasets  []Dataset `json:"datasets"`
}

type RowsResponse struct {
	SessionID string           `json:"session_id"`
	DatasetID string           `json:"dataset_id"`
	Headers   []string         `json:"headers"`
	Rows      []map[string]any `json:"rows"`
	page      int
	pageSize  int
	total     int
}

func (r RowsResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}

type Slice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Box struct {
	Category string    `json:"category"`
	Count    int       `json:"count"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers,omitempty"`
}

type Accuracy struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Panel links one chart artifact; panels are listed in display order.
type Panel struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
	PNG  string `json:"png,omitempty"`
}

type ChartSet struct {
	CategoryColumn string      `json:"category_column"`
	NumericColumn  string      `json:"numeric_column"`
	Pie            []Slice     `json:"pie"`
	Box            []Box       `json:"box"`
	HeatMap        [][]float64 `json:"heat_map"`
	Accuracy       Accuracy    `json:"accuracy"`
	GeneratedAt    time.Time   `json:"generated_at"`
	Panels         []Panel     `json:"panels"`
}

type GraphsResponse struct {
	DatasetID string    `json:"dataset_id"`
	Updated   bool      `json:"updated"`
	Clicks    int       `json:"n_clicks"`
	Charts    *ChartSet `json:"charts"`
}

func (r GraphsResponse) Message() string {
	if r.Updated {
		return "charts generated"
	}
	return "no trigger, output unchanged"
}

type ChartsResponse struct {
	DatasetID string    `json:"dataset_id"`
	Clicks    int       `json:"n_clicks"`
	Charts    *ChartSet `json:"charts"`
}

func (r ChartsResponse) StatusCode() int {
	if r.Charts == nil {
		return http.StatusNoContent
	}
	return http.StatusOK
}

func toHTTPDataset(p usecase.DatasetPanel) Dataset {
	d := Dataset{
		ID:         p.ID,
		Filename:   p.Filename,
		UploadedAt: p.UploadedAt,
		Outcome:    p.Outcome,
		Format:     p.Format,
		Message:    p.Message,
		Preview:    p.Preview,
		Headers:    p.Headers,
		Rows:       p.Rows,
		Chartable:  p.Chartable,
		Clicks:     p.Clicks,
		HasCharts:  p.HasCharts,
	}
	if !p.LastModified.IsZero() {
		lm := p.LastModified
		d.LastModified = &lm
	}
	return d
}

func toHTTPDatasets(panels []usecase.DatasetPanel) []Dataset {
	out := make([]Dataset, 0, len(panels))
	for _, p := range panels {
		out = append(out, toHTTPDataset(p))
	}
	return out
}

func toHTTPChartSet(sessionID, datasetID string, set *entity.ChartSet) *ChartSet {
	if set == nil {
		return nil
	}

	out := &ChartSet{
		CategoryColumn: set.CategoryColumn,
		NumericColumn:  set.NumericColumn,
		Pie:            make([]Slice, 0, len(set.Frequency)),
		Box:            make([]Box, 0, len(set.Boxes)),
		HeatMap:        set.HeatMap,
		Accuracy:       Accuracy{Value: set.Accuracy.Value, Label: set.Accuracy.Label},
		GeneratedAt:    set.GeneratedAt,
	}
	for _, c := range set.Frequency {
		out.Pie = append(out.Pie, Slice{Label: c.Value, Count: c.Count})
	}
	for _, g := range set.Boxes {
		out.Box = append(out.Box, Box{
			Category: g.Category,
			Count:    g.Count,
			Min:      g.Min,
			Q1:       g.Q1,
			Median:   g.Median,
			Q3:       g.Q3,
			Max:      g.Max,
			Outliers: g.Outliers,
		})
	}

	base := artifactBase(sessionID, datasetID)
	out.Panels = []Panel{
		{Kind: artifactPie, URL: base + artifactPie, PNG: base + artifactPiePNG},
		{Kind: artifactBox, URL: base + artifactBox},
		{Kind: artifactAccuracy, URL: base + artifactAccuracy},
		{Kind: artifactHeatMap, URL: base + artifactHeatMap, PNG: base + artifactHeatMapPNG},
	}

	return out
}

func artifactBase(sessionID, datasetID string) string {
	return fmt.Sprintf("/sessions/%s/datasets/%s/graphs/", sessionID, datasetID)
}
