package usecase

import (
	"time"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

// Settings are the dataset and chart knobs read from configuration.
type Settings struct {
	CategoryColumn string
	NumericColumn  string
	PageSize       int
	PreviewChars   int
	Accuracy       entity.AccuracyPanel
}

type SessionResult struct {
	SessionID string
	CreatedAt time.Time
}

// DatasetPanel is what the dashboard shows for one uploaded file.
type DatasetPanel struct {
	ID           string
	Filename     string
	LastModified time.Time
	UploadedAt   time.Time
	Outcome      entity.ParseOutcome
	Format       entity.Format
	Message      string
	Preview      string
	Headers      []string
	Rows         int
	Chartable    bool
	Clicks       int
	HasCharts    bool
}

type UploadResult struct {
	SessionID string
	Datasets  []DatasetPanel
}

type DatasetsResult struct {
	SessionID string
	UpdatedAt time.Time
	Datasets  []DatasetPanel
}

type RowsResult struct {
	SessionID string
	DatasetID string
	Headers   []string
	Records   []map[string]any
	Page      int
	PageSize  int
	Total     int
}

type GraphsResult struct {
	DatasetID string
	Updated   bool
	Clicks    int
	Charts    *entity.ChartSet
}

type ChartsResult struct {
	DatasetID string
	Clicks    int
	Charts    *entity.ChartSet
}

// DashboardDataset carries a panel with the first page of its table.
type DashboardDataset struct {
	Panel    DatasetPanel
	Cells    [][]string
	PageSize int
	Charts   *entity.ChartSet
}

type DashboardResult struct {
	Session  entity.Session
	Datasets []DashboardDataset
}

func newPanel(ds entity.Dataset) DatasetPanel {
	p := DatasetPanel{
		ID:           ds.ID,
		Filename:     ds.Filename,
		LastModified: ds.LastModified,
		UploadedAt:   ds.UploadedAt,
		Outcome:      ds.Result.Outcome,
		Format:       ds.Result.Format,
		Message:      ds.Result.Message,
		Preview:      ds.Preview,
		Chartable:    ds.Category != nil && ds.Numeric != nil,
		Clicks:       ds.Clicks,
		HasCharts:    ds.Charts != nil,
	}
	if ds.Result.OK() {
		p.Headers = ds.Result.Table.Headers()
		p.Rows = ds.Result.Table.Rows()
	}
	return p
}
