package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/soilviz/internal/soil"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.soil.enabled") {
		closer, err := soil.New(soil.Dependency{
			Config: a.config,
			Router: a.router,
			ID:     a.uuid,
		})
		if err != nil {
			slog.Error("failed to init module soil", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Soil"] = closer
		}
	}
}
