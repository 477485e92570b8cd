package inbound

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/soilviz/internal/pkg/pkguid"
	"github.com/shandysiswandi/soilviz/internal/soil/entity"
	"github.com/shandysiswandi/soilviz/internal/soil/ingest"
	"github.com/shandysiswandi/soilviz/internal/soil/store"
	"github.com/shandysiswandi/soilviz/internal/soil/usecase"
)

type envelope[T any] struct {
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Meta    map[string]any    `json:"meta,omitempty"`
	Error   map[string]string `json:"error,omitempty"`
}

const soilCSV = "PERFIL,ORDEN,ALTITUD\n" +
	"P1,Andisol,2600\n" +
	"P2,Andisol,3100\n" +
	"P3,Entisol,150\n" +
	"P4,Andisol,2800\n" +
	"P5,Mollisol,900\n"

func newTestRouter(t *testing.T, maxUpload int64) http.Handler {
	t.Helper()

	sf, err := pkguid.NewSnowflake()
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	uc := usecase.New(usecase.Dependency{
		Store:     store.NewInMemoryStore(),
		Ingester:  ingest.New(2),
		SessionID: pkguid.NewUUID(),
		DatasetID: sf.AsStringID(),
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc, Options{MaxUploadBytes: maxUpload})

	return router
}

func do(t *testing.T, router http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return env
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := do(t, router, http.MethodPost, "/sessions", nil, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status: %d", rec.Code)
	}

	env := decode[SessionResponse](t, rec)
	if env.Data.SessionID == "" {
		t.Fatal("session id is empty")
	}

	return env.Data.SessionID
}

func uploadJSON(t *testing.T, router http.Handler, sessionID string, files ...UploadFile) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(UploadRequest{Files: files})
	if err != nil {
		t.Fatalf("marshal upload: %v", err)
	}

	return do(t, router, http.MethodPost, "/sessions/"+sessionID+"/uploads", body, "application/json")
}

func dataURL(body string) string {
	return "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(body))
}

func TestUploadTriggerAndRender(t *testing.T) {
	router := newTestRouter(t, 0)
	sessionID := createSession(t, router)

	lm := 1700000000.5
	rec := uploadJSON(t, router, sessionID, UploadFile{Contents: dataURL(soilCSV), Filename: "perfiles.csv", LastModified: &lm})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status: %d body=%s", rec.Code, rec.Body.String())
	}

	upload := decode[UploadResponse](t, rec)
	if len(upload.Data.Datasets) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(upload.Data.Datasets))
	}
	ds := upload.Data.Datasets[0]
	if ds.Outcome != entity.OutcomeTable || ds.Rows != 5 || !ds.Chartable || ds.LastModified == nil {
		t.Fatalf("unexpected dataset: %+v", ds)
	}

	base := "/sessions/" + sessionID + "/datasets/" + ds.ID

	if rec := do(t, router, http.MethodGet, base+"/graphs", nil, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("graphs before trigger status: %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, base+"/graphs/pie", nil, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("pie before trigger status: %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, base+"/graphs", []byte(`{}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("no-op trigger status: %d", rec.Code)
	}
	if env := decode[GraphsResponse](t, rec); env.Data.Updated || env.Data.Charts != nil {
		t.Fatalf("no-op trigger changed output: %+v", env.Data)
	}

	rec = do(t, router, http.MethodPost, base+"/graphs", []byte(`{"n_clicks":1}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("trigger status: %d body=%s", rec.Code, rec.Body.String())
	}
	graphs := decode[GraphsResponse](t, rec)
	if !graphs.Data.Updated || graphs.Data.Charts == nil {
		t.Fatalf("trigger did not generate charts: %+v", graphs.Data)
	}

	kinds := make([]string, 0, len(graphs.Data.Charts.Panels))
	for _, p := range graphs.Data.Charts.Panels {
		kinds = append(kinds, p.Kind)
	}
	if strings.Join(kinds, ",") != "pie,box,accuracy,heatmap" {
		t.Fatalf("unexpected panel order: %v", kinds)
	}
	if graphs.Data.Charts.Pie[0].Label != "Andisol" || graphs.Data.Charts.Pie[0].Count != 3 {
		t.Fatalf("unexpected pie: %+v", graphs.Data.Charts.Pie)
	}

	if rec := do(t, router, http.MethodGet, base+"/graphs", nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("graphs after trigger status: %d", rec.Code)
	}

	for _, artifact := range []string{"pie", "box", "heatmap"} {
		rec := do(t, router, http.MethodGet, base+"/graphs/"+artifact, nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status: %d", artifact, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "echarts") {
			t.Fatalf("%s artifact is not an echarts page", artifact)
		}
	}

	rec = do(t, router, http.MethodGet, base+"/graphs/accuracy", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "70%") {
		t.Fatalf("accuracy status: %d body=%s", rec.Code, rec.Body.String())
	}

	for _, artifact := range []string{"pie.png", "heatmap.png"} {
		rec := do(t, router, http.MethodGet, base+"/graphs/"+artifact, nil, "")
		if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
			t.Fatalf("%s status: %d type=%s", artifact, rec.Code, rec.Header().Get("Content-Type"))
		}
	}

	if rec := do(t, router, http.MethodGet, base+"/graphs/scatter", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown artifact status: %d", rec.Code)
	}
}

func TestRowsPagination(t *testing.T) {
	router := newTestRouter(t, 0)
	sessionID := createSession(t, router)

	var b strings.Builder
	b.WriteString("ORDEN,ALTITUD\n")
	for i := 0; i < 17; i++ {
		b.WriteString("Andisol,2600\n")
	}

	upload := decode[UploadResponse](t, uploadJSON(t, router, sessionID, UploadFile{Contents: dataURL(b.String()), Filename: "diecisiete.csv"}))
	base := "/sessions/" + sessionID + "/datasets/" + upload.Data.Datasets[0].ID

	rec := do(t, router, http.MethodGet, base+"/rows?page=2", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rows status: %d", rec.Code)
	}
	rows := decode[RowsResponse](t, rec)
	if len(rows.Data.Rows) != 2 {
		t.Fatalf("expected 2 rows on page 2, got %d", len(rows.Data.Rows))
	}
	if rows.Meta["total"] != float64(17) || rows.Meta["page_size"] != float64(15) {
		t.Fatalf("unexpected meta: %v", rows.Meta)
	}

	if rec := do(t, router, http.MethodGet, base+"/rows?page=x", nil, ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid page status: %d", rec.Code)
	}
}

func TestMultipartUpload(t *testing.T) {
	router := newTestRouter(t, 0)
	sessionID := createSession(t, router)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range map[string]string{"perfiles.csv": soilCSV, "notas.txt": "hola"} {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.WriteField("comment", "ignored"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	rec := do(t, router, http.MethodPost, "/sessions/"+sessionID+"/uploads", body.Bytes(), writer.FormDataContentType())
	if rec.Code != http.StatusCreated {
		t.Fatalf("multipart upload status: %d body=%s", rec.Code, rec.Body.String())
	}

	env := decode[UploadResponse](t, rec)
	outcomes := map[string]entity.ParseOutcome{}
	for _, ds := range env.Data.Datasets {
		outcomes[ds.Filename] = ds.Outcome
	}
	if outcomes["perfiles.csv"] != entity.OutcomeTable || outcomes["notas.txt"] != entity.OutcomeUnsupported {
		t.Fatalf("unexpected outcomes: %v", outcomes)
	}
}

func TestUploadErrors(t *testing.T) {
	router := newTestRouter(t, 256)
	sessionID := createSession(t, router)

	rec := uploadJSON(t, router, sessionID, UploadFile{Contents: dataURL("x"), Filename: "foto.png"})
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("unsupported status: %d", rec.Code)
	}

	rec = uploadJSON(t, router, sessionID, UploadFile{Contents: dataURL(strings.Repeat("ORDEN,ALTITUD\n", 64)), Filename: "grande.csv"})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("too large status: %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/sessions/"+sessionID+"/uploads", []byte("{"), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status: %d", rec.Code)
	}

	rec = uploadJSON(t, router, "nope", UploadFile{Contents: dataURL(soilCSV), Filename: "a.csv"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session status: %d", rec.Code)
	}
}

func TestTriggerWithoutRequiredColumns(t *testing.T) {
	router := newTestRouter(t, 0)
	sessionID := createSession(t, router)

	upload := decode[UploadResponse](t, uploadJSON(t, router, sessionID, UploadFile{Contents: dataURL("PERFIL,ORDEN\nP1,Andisol\n"), Filename: "sin_altitud.csv"}))
	base := "/sessions/" + sessionID + "/datasets/" + upload.Data.Datasets[0].ID

	rec := do(t, router, http.MethodPost, base+"/graphs", []byte(`{"n_clicks":1}`), "application/json")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing column status: %d", rec.Code)
	}
	env := decode[any](t, rec)
	if !strings.Contains(env.Error["reason"], "missing") {
		t.Fatalf("unexpected reason: %v", env.Error)
	}
}

func TestDashboardPage(t *testing.T) {
	router := newTestRouter(t, 0)

	rec := do(t, router, http.MethodGet, "/dashboard", nil, "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("dashboard redirect status: %d", rec.Code)
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/sessions/") || !strings.HasSuffix(location, "/dashboard") {
		t.Fatalf("unexpected redirect: %s", location)
	}
	sessionID := strings.TrimSuffix(strings.TrimPrefix(location, "/sessions/"), "/dashboard")

	upload := decode[UploadResponse](t, uploadJSON(t, router, sessionID,
		UploadFile{Contents: dataURL(soilCSV), Filename: "perfiles.csv"},
		UploadFile{Contents: "data:text/csv;base64,@@@", Filename: "roto.csv"},
	))
	base := "/sessions/" + sessionID + "/datasets/" + upload.Data.Datasets[0].ID
	if rec := do(t, router, http.MethodPost, base+"/graphs", []byte(`{"n_clicks":1}`), "application/json"); rec.Code != http.StatusOK {
		t.Fatalf("trigger status: %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, location, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status: %d", rec.Code)
	}

	page := rec.Body.String()
	for _, want := range []string{"perfiles.csv", "roto.csv", "Create Graph", ingest.FailedMessage, "Andisol", base + "/graphs/pie"} {
		if !strings.Contains(page, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Index(page, base+"/graphs/pie") > strings.Index(page, base+"/graphs/heatmap") {
		t.Error("pie must come before heat map")
	}

	if rec := do(t, router, http.MethodGet, "/sessions/nope/dashboard", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session dashboard status: %d", rec.Code)
	}
}

func TestUploadNonFiniteNumbers(t *testing.T) {
	router := newTestRouter(t, 0)
	sessionID := createSession(t, router)

	csv := "ORDEN,ALTITUD\nAndisol,inf\nAndisol,2600\nEntisol,150\n"
	rec := uploadJSON(t, router, sessionID, UploadFile{Contents: dataURL(csv), Filename: "alturas.csv"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status: %d body=%s", rec.Code, rec.Body.String())
	}
	ds := decode[UploadResponse](t, rec).Data.Datasets[0]
	base := "/sessions/" + sessionID + "/datasets/" + ds.ID

	rec = do(t, router, http.MethodGet, base+"/rows?page=1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rows status: %d body=%s", rec.Code, rec.Body.String())
	}
	rows := decode[RowsResponse](t, rec)
	if len(rows.Data.Rows) != 3 || rows.Data.Rows[0]["ALTITUD"] != nil {
		t.Fatalf("unexpected rows: %+v", rows.Data.Rows)
	}

	rec = do(t, router, http.MethodPost, base+"/graphs", []byte(`{"n_clicks":1}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("trigger status: %d body=%s", rec.Code, rec.Body.String())
	}
	graphs := decode[GraphsResponse](t, rec)
	if graphs.Data.Charts == nil || len(graphs.Data.Charts.Box) != 2 {
		t.Fatalf("unexpected charts: %+v", graphs.Data.Charts)
	}
	if box := graphs.Data.Charts.Box[0]; box.Category != "Andisol" || box.Count != 1 || box.Median != 2600 {
		t.Fatalf("unexpected Andisol box: %+v", box)
	}
}
