package soil

import (
	"context"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkguid"
	"github.com/shandysiswandi/soilviz/internal/soil/entity"
	"github.com/shandysiswandi/soilviz/internal/soil/inbound"
	"github.com/shandysiswandi/soilviz/internal/soil/ingest"
	"github.com/shandysiswandi/soilviz/internal/soil/render"
	"github.com/shandysiswandi/soilviz/internal/soil/store"
	"github.com/shandysiswandi/soilviz/internal/soil/usecase"
)

const defaultMaxUploadBytes = 32 << 20

type Dependency struct {
	Config pkgconfig.Config
	Router *pkgrouter.Router
	ID     pkguid.StringID
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	sf, err := pkguid.NewSnowflake()
	if err != nil {
		return nil, err
	}

	cfg := dep.Config
	storage := store.NewInMemoryStore()
	uc := usecase.New(usecase.Dependency{
		Store:     storage,
		Ingester:  ingest.New(int(pkgconfig.IntOr(cfg, "modules.soil.ingest.parallelism", ingest.DefaultParallelism))),
		SessionID: dep.ID,
		DatasetID: sf.AsStringID(),
		Settings: usecase.Settings{
			CategoryColumn: pkgconfig.StringOr(cfg, "modules.soil.columns.category", usecase.DefaultCategoryColumn),
			NumericColumn:  pkgconfig.StringOr(cfg, "modules.soil.columns.numeric", usecase.DefaultNumericColumn),
			PageSize:       int(pkgconfig.IntOr(cfg, "modules.soil.table.page_size", usecase.DefaultPageSize)),
			PreviewChars:   int(pkgconfig.IntOr(cfg, "modules.soil.preview.chars", usecase.DefaultPreviewChars)),
			Accuracy: entity.AccuracyPanel{
				Value: pkgconfig.StringOr(cfg, "modules.soil.accuracy.value", ""),
				Label: pkgconfig.StringOr(cfg, "modules.soil.accuracy.label", ""),
			},
		},
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Options{
		Render: render.Options{
			AssetsHost: pkgconfig.StringOr(cfg, "modules.soil.charts.assets_host", ""),
		},
		MaxUploadBytes: pkgconfig.IntOr(cfg, "modules.soil.ingest.max_upload_bytes", defaultMaxUploadBytes),
	})

	return storage.Close, nil
}
