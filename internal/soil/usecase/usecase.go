package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgerror"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkglog"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkguid"
	"github.com/shandysiswandi/soilviz/internal/soil/derive"
	"github.com/shandysiswandi/soilviz/internal/soil/entity"
	"github.com/shandysiswandi/soilviz/internal/soil/ingest"
)

const (
	DefaultCategoryColumn = "ORDEN"
	DefaultNumericColumn  = "ALTITUD"
	DefaultPageSize       = 15
	DefaultPreviewChars   = 200
)

type Store interface {
	CreateSession(ctx context.Context, session entity.Session) error
	GetSession(ctx context.Context, sessionID string) (entity.Session, error)
	ReplaceDatasets(ctx context.Context, sessionID string, datasets []entity.Dataset, at time.Time) error
	ListDatasets(ctx context.Context, sessionID string) ([]entity.Dataset, entity.Session, error)
	GetDataset(ctx context.Context, sessionID, datasetID string) (entity.Dataset, error)
	UpdateDataset(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error
}

type Ingester interface {
	ParseBatch(ctx context.Context, files []entity.UploadedFile) []entity.ParseResult
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store     Store
	Ingester  Ingester
	Clock     Clock
	SessionID pkguid.StringID
	DatasetID pkguid.StringID
	Settings  Settings
}

type Usecase struct {
	store     Store
	ingester  Ingester
	clock     Clock
	sessionID pkguid.StringID
	datasetID pkguid.StringID
	settings  Settings
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		store:     dep.Store,
		ingester:  dep.Ingester,
		clock:     clock,
		sessionID: dep.SessionID,
		datasetID: dep.DatasetID,
		settings:  withDefaults(dep.Settings),
	}
}

func withDefaults(s Settings) Settings {
	if s.CategoryColumn == "" {
		s.CategoryColumn = DefaultCategoryColumn
	}
	if s.NumericColumn == "" {
		s.NumericColumn = DefaultNumericColumn
	}
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	if s.PreviewChars < 1 {
		s.PreviewChars = DefaultPreviewChars
	}
	s.Accuracy = derive.Accuracy(s.Accuracy.Value, s.Accuracy.Label)
	return s
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) CreateSession(ctx context.Context) (SessionResult, error) {
	if u.store == nil || u.sessionID == nil {
		return SessionResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	now := u.clock.Now()
	session := entity.Session{
		ID:        u.sessionID.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.store.CreateSession(ctx, session); err != nil {
		return SessionResult{}, normalizeErr(err)
	}

	slog.InfoContext(pkglog.SetSessionID(ctx, session.ID), "session created")

	return SessionResult{SessionID: session.ID, CreatedAt: now}, nil
}

// Upload parses every file independently and replaces the session's datasets
// with the outcome. A batch in which no file has a recognized format is
// rejected and leaves the session untouched.
func (u *Usecase) Upload(ctx context.Context, sessionID string, files []entity.UploadedFile) (UploadResult, error) {
	if u.store == nil || u.ingester == nil || u.datasetID == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if sessionID == "" {
		return UploadResult{}, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	if len(files) == 0 {
		return UploadResult{}, pkgerror.NewInvalidInput(errors.New("at least one file is required"))
	}

	if _, err := u.store.GetSession(ctx, sessionID); err != nil {
		return UploadResult{}, mapStoreErr(err)
	}

	ctx = pkglog.SetSessionID(ctx, sessionID)

	results := u.ingester.ParseBatch(ctx, files)

	unsupported := 0
	for _, res := range results {
		if res.Outcome == entity.OutcomeUnsupported {
			unsupported++
		}
	}
	if unsupported == len(results) {
		msg := ingest.UnsupportedMessage(files[0].Filename)
		if len(files) > 1 {
			msg = fmt.Sprintf("none of the %d files is a csv or xls/xlsx file", len(files))
		}
		return UploadResult{}, pkgerror.NewUnsupportedMedia(msg)
	}

	now := u.clock.Now()
	datasets := make([]entity.Dataset, len(files))
	for i, file := range files {
		datasets[i] = u.newDataset(file, results[i], now)
	}

	if err := u.store.ReplaceDatasets(ctx, sessionID, datasets, now); err != nil {
		return UploadResult{}, mapStoreErr(err)
	}

	panels := make([]DatasetPanel, len(datasets))
	for i, ds := range datasets {
		panels[i] = newPanel(ds)
	}

	slog.InfoContext(ctx, "upload stored", "files", len(files), "unsupported", unsupported)

	return UploadResult{SessionID: sessionID, Datasets: panels}, nil
}

func (u *Usecase) newDataset(file entity.UploadedFile, res entity.ParseResult, now time.Time) entity.Dataset {
	ds := entity.Dataset{
		ID:           u.datasetID.Generate(),
		Filename:     file.Filename,
		LastModified: file.LastModified,
		UploadedAt:   now,
		Preview:      ingest.Preview(file, u.settings.PreviewChars),
		Result:       res,
	}

	if res.OK() {
		if col, ok := res.Table.Column(u.settings.CategoryColumn); ok {
			c := col.Clone()
			ds.Category = &c
		}
		if col, ok := res.Table.Column(u.settings.NumericColumn); ok {
			c := col.Clone()
			ds.Numeric = &c
		}
	}

	return ds
}

func (u *Usecase) Datasets(ctx context.Context, sessionID string) (DatasetsResult, error) {
	if sessionID == "" {
		return DatasetsResult{}, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	items, session, err := u.store.ListDatasets(ctx, sessionID)
	if err != nil {
		return DatasetsResult{}, mapStoreErr(err)
	}

	panels := make([]DatasetPanel, len(items))
	for i, ds := range items {
		panels[i] = newPanel(ds)
	}

	return DatasetsResult{SessionID: sessionID, UpdatedAt: session.UpdatedAt, Datasets: panels}, nil
}

func (u *Usecase) Rows(ctx context.Context, sessionID, datasetID string, page int) (RowsResult, error) {
	if sessionID == "" || datasetID == "" {
		return RowsResult{}, pkgerror.NewInvalidInput(errors.New("session_id and dataset_id are required"))
	}

	if page < 1 {
		return RowsResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}

	ds, err := u.store.GetDataset(ctx, sessionID, datasetID)
	if err != nil {
		return RowsResult{}, mapStoreErr(err)
	}

	if !ds.Result.OK() {
		return RowsResult{}, pkgerror.NewBusiness("dataset has no table", pkgerror.CodeInvalidInput)
	}

	size := u.settings.PageSize
	return RowsResult{
		SessionID: sessionID,
		DatasetID: datasetID,
		Headers:   ds.Result.Table.Headers(),
		Records:   ds.Result.Table.Records((page-1)*size, size),
		Page:      page,
		PageSize:  size,
		Total:     ds.Result.Table.Rows(),
	}, nil
}

// Graphs regenerates the dataset's charts from its stashed columns. A click
// count below one is a no-op that returns the stored output untouched.
func (u *Usecase) Graphs(ctx context.Context, sessionID, datasetID string, clicks int) (GraphsResult, error) {
	if sessionID == "" || datasetID == "" {
		return GraphsResult{}, pkgerror.NewInvalidInput(errors.New("session_id and dataset_id are required"))
	}

	ctx = pkglog.SetSessionID(ctx, sessionID)

	if clicks < 1 {
		ds, err := u.store.GetDataset(ctx, sessionID, datasetID)
		if err != nil {
			return GraphsResult{}, mapStoreErr(err)
		}
		return GraphsResult{DatasetID: datasetID, Clicks: ds.Clicks, Charts: ds.Charts}, nil
	}

	var out GraphsResult
	err := u.store.UpdateDataset(ctx, sessionID, datasetID, func(ds *entity.Dataset) error {
		set, err := derive.Build(ds.Category, ds.Numeric, u.settings.Accuracy, u.clock.Now())
		if err != nil {
			return err
		}

		ds.Clicks = clicks
		ds.Charts = &set
		out = GraphsResult{DatasetID: datasetID, Updated: true, Clicks: clicks, Charts: ds.Charts}
		return nil
	})
	if err != nil {
		if isColumnErr(err) {
			slog.WarnContext(ctx, "chart generation rejected", "dataset_id", datasetID, "error", err)
			return GraphsResult{}, pkgerror.NewInvalidInput(err)
		}
		return GraphsResult{}, mapStoreErr(err)
	}

	slog.InfoContext(ctx, "charts generated", "dataset_id", datasetID, "clicks", clicks)

	return out, nil
}

func (u *Usecase) Charts(ctx context.Context, sessionID, datasetID string) (ChartsResult, error) {
	if sessionID == "" || datasetID == "" {
		return ChartsResult{}, pkgerror.NewInvalidInput(errors.New("session_id and dataset_id are required"))
	}

	ds, err := u.store.GetDataset(ctx, sessionID, datasetID)
	if err != nil {
		return ChartsResult{}, mapStoreErr(err)
	}

	return ChartsResult{DatasetID: datasetID, Clicks: ds.Clicks, Charts: ds.Charts}, nil
}

func (u *Usecase) Dashboard(ctx context.Context, sessionID string) (DashboardResult, error) {
	if sessionID == "" {
		return DashboardResult{}, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	items, session, err := u.store.ListDatasets(ctx, sessionID)
	if err != nil {
		return DashboardResult{}, mapStoreErr(err)
	}

	out := DashboardResult{Session: session, Datasets: make([]DashboardDataset, len(items))}
	for i, ds := range items {
		d := DashboardDataset{Panel: newPanel(ds), PageSize: u.settings.PageSize, Charts: ds.Charts}
		if ds.Result.OK() {
			d.Cells = ds.Result.Table.Cells(0, u.settings.PageSize)
		}
		out.Datasets[i] = d
	}

	return out, nil
}

// Settings returns the effective settings after defaults are applied.
func (u *Usecase) Settings() Settings {
	return u.settings
}

func isColumnErr(err error) bool {
	return errors.Is(err, derive.ErrColumnMissing) ||
		errors.Is(err, derive.ErrColumnEmpty) ||
		errors.Is(err, derive.ErrColumnNotNumeric) ||
		errors.Is(err, derive.ErrLengthMismatch)
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("session or dataset not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
