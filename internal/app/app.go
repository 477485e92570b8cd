package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkglog"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid pkguid.StringID

	// resources

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging(slog.LevelInfo)

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
