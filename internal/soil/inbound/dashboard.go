package inbound

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/soilviz/internal/soil/entity"
	"github.com/shandysiswandi/soilviz/internal/soil/usecase"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return "unknown"
		}
		return t.Format("2006-01-02 15:04:05 MST")
	},
}).ParseFS(templatesFS, "templates/dashboard.html"))

type dashboardView struct {
	SessionID string
	UpdatedAt time.Time
	Datasets  []dashboardDataset
}

type dashboardDataset struct {
	usecase.DatasetPanel
	IsTable   bool
	Cells     [][]string
	PageSize  int
	Pages     int
	RowsURL   string
	GraphsURL string
	Panels    []Panel
}

// NewDashboard starts a fresh session and sends the browser to its page.
func (h *HTTPEndpoint) NewDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.CreateSession(r.Context())
	if err != nil {
		pkgrouter.WriteError(r.Context(), w, err)
		return
	}

	http.Redirect(w, r, dashboardPath(result.SessionID), http.StatusSeeOther)
}

func (h *HTTPEndpoint) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := pkgrouter.GetParam(ctx, "session_id")

	result, err := h.uc.Dashboard(ctx, sessionID)
	if err != nil {
		pkgrouter.WriteError(ctx, w, err)
		return
	}

	view := dashboardView{
		SessionID: sessionID,
		UpdatedAt: result.Session.UpdatedAt,
		Datasets:  make([]dashboardDataset, 0, len(result.Datasets)),
	}
	for _, d := range result.Datasets {
		base := "/sessions/" + sessionID + "/datasets/" + d.Panel.ID
		dd := dashboardDataset{
			DatasetPanel: d.Panel,
			IsTable:      d.Panel.Outcome == entity.OutcomeTable,
			Cells:        d.Cells,
			PageSize:     d.PageSize,
			Pages:        pages(d.Panel.Rows, d.PageSize),
			RowsURL:      base + "/rows",
			GraphsURL:    base + "/graphs",
		}
		if set := toHTTPChartSet(sessionID, d.Panel.ID, d.Charts); set != nil {
			dd.Panels = set.Panels
		}
		view.Datasets = append(view.Datasets, dd)
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		pkgrouter.WriteError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func pages(rows, size int) int {
	if size < 1 || rows == 0 {
		return 1
	}
	return (rows + size - 1) / size
}
