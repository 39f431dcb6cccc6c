package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/notify"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrinter struct{}

func (fakePrinter) PrintPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

type testServer struct {
	*Server
	store       *store.Store
	broadcaster *notify.Broadcaster
}

func newTestServer(t *testing.T, printer export.PDFPrinter) *testServer {
	t.Helper()
	broadcaster := notify.NewBroadcaster()
	st := store.New(nil, store.Config{Notifier: broadcaster, TemplateExists: rendering.Exists})
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	svc := export.NewService(st, export.Options{
		Printer:  printer,
		Notifier: broadcaster,
		Now:      func() time.Time { return time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) },
	})

	s, err := New(Options{
		Store:       st,
		Exports:     svc,
		Broadcaster: broadcaster,
		Metrics:     metrics.New(),
		RateLimit:   &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, store: st, broadcaster: broadcaster}
}

// do sends a request through the full middleware chain.
func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresStoreAndExports(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodGet, "/api/document", "")

	w := ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cvbuilder_http_request_duration_seconds")
}

func TestDocument_GetReplaceReset(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/api/document", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[types.CVDocument](t, w)
	assert.Empty(t, doc.Experience)

	body := `{"personal":{"name":"Ana","lastName":"Gómez"},"experience":[{"role":"Dev","company":"Acme","duration":"2020 - Present"}]}`
	w = ts.do(t, http.MethodPut, "/api/document", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	doc = decode[types.CVDocument](t, w)
	require.Len(t, doc.Experience, 1)
	assert.True(t, doc.Experience[0].Duration.IsPresent)
	assert.NotNil(t, doc.Skills)

	w = ts.do(t, http.MethodPost, "/api/document/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.NewDocument(), ts.store.Document())
}

func TestDocument_ReplaceRejectsInvalid(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPut, "/api/document", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPut, "/api/document", `{"personal":{"professionalLevel":"Intern"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/document/import", `{"personal":{"name":"Ana"},"skills":["Go"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"Go"}, ts.store.Document().Skills)

	w = ts.do(t, http.MethodPost, "/api/document/import", `{"skills":["no personal"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Go"}, ts.store.Document().Skills)
}

func TestPatchPersonal(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPatch, "/api/personal", `{"name":"Ana","role":"Engineer"}`)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[types.PersonalInfo](t, w)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "Engineer", p.Role)

	w = ts.do(t, http.MethodPatch, "/api/personal", `{"lastName":"Gómez"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana Gómez", ts.store.Personal().FullName())
}

func TestInlineEdit(t *testing.T) {
	ts := newTestServer(t, nil)

	// classic has no inline editing
	w := ts.do(t, http.MethodPut, "/api/personal/role", `{"value":"Lead"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, ts.store.SetTemplate("modern"))
	w = ts.do(t, http.MethodPut, "/api/personal/role", `{"value":"Lead"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lead", ts.store.Personal().Role)

	w = ts.do(t, http.MethodPut, "/api/personal/photo", `{"value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhoto(t *testing.T) {
	ts := newTestServer(t, nil)
	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"

	w := ts.do(t, http.MethodPut, "/api/photo", png)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := ts.store.Personal()
	require.NotNil(t, p.Photo)
	assert.True(t, strings.HasPrefix(*p.Photo, "data:image/png;base64,"))
	assert.True(t, p.ShowPhoto)

	w = ts.do(t, http.MethodPut, "/api/photo", "just some text")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/photo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, ts.store.Personal().Photo)
}

func TestReferencesOnRequest(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPut, "/api/references-on-request", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ts.store.Document().ReferencesAvailableOnRequest)
}

func TestSections(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/sections/experience", `{"role":"Dev","company":"Acme","duration":{"start":"2020","end":"","isPresent":true}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[SectionResult](t, w)
	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.Count)
	assert.False(t, res.SuggestedLimitReached)

	w = ts.do(t, http.MethodPut, "/api/sections/experience/0", `{"role":"Lead","company":"Acme"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[SectionResult](t, w).Applied)
	assert.Equal(t, "Lead", ts.store.Document().Experience[0].Role)

	w = ts.do(t, http.MethodPut, "/api/sections/experience/5", `{"role":"Ghost"}`)
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[SectionResult](t, w)
	assert.False(t, res.Applied)
	assert.Equal(t, 1, res.Count)

	w = ts.do(t, http.MethodDelete, "/api/sections/experience/-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[SectionResult](t, w).Applied)

	w = ts.do(t, http.MethodDelete, "/api/sections/experience/0", "")
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[SectionResult](t, w)
	assert.True(t, res.Applied)
	assert.Zero(t, res.Count)
}

func TestSections_StringLists(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/sections/softSkills", `"Teamwork"`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"Teamwork"}, ts.store.Document().SoftSkills)
}

func TestSections_SuggestedLimit(t *testing.T) {
	ts := newTestServer(t, nil)

	var res SectionResult
	for i := 0; i < types.SuggestedMaxExperience+1; i++ {
		w := ts.do(t, http.MethodPost, "/api/sections/experience", fmt.Sprintf(`{"role":"R%d"}`, i))
		require.Equal(t, http.StatusCreated, w.Code)
		res = decode[SectionResult](t, w)
	}
	assert.True(t, res.SuggestedLimitReached)
	assert.Equal(t, types.SuggestedMaxExperience+1, res.Count)
}

func TestSections_BadRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"unknown section", http.MethodPost, "/api/sections/hobbies", `{}`},
		{"personal is not a list", http.MethodPost, "/api/sections/personal", `{}`},
		{"non-numeric index", http.MethodPut, "/api/sections/education/first", `{}`},
		{"malformed item", http.MethodPost, "/api/sections/education", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestSaved_Lifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	require.NoError(t, ts.store.UpdatePersonalField("name", "Ana"))

	w := ts.do(t, http.MethodPost, "/api/saved", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/saved", `{"name":"Backend"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	saved := decode[types.SavedCV](t, w)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "Ana", saved.Data.Personal.Name)

	w = ts.do(t, http.MethodGet, "/api/saved", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Saved []types.SavedCV `json:"saved"`
		Total int             `json:"total"`
	}](t, w)
	assert.Equal(t, 1, list.Total)

	// Live edits do not touch the snapshot until it is updated.
	require.NoError(t, ts.store.UpdatePersonalField("name", "Bea"))
	w = ts.do(t, http.MethodGet, "/api/saved/"+saved.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana", decode[types.SavedCV](t, w).Data.Personal.Name)

	w = ts.do(t, http.MethodPut, "/api/saved/"+saved.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bea", decode[types.SavedCV](t, w).Data.Personal.Name)

	ts.store.Reset()
	w = ts.do(t, http.MethodPost, "/api/saved/"+saved.ID+"/load", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bea", ts.store.Personal().Name)

	w = ts.do(t, http.MethodDelete, "/api/saved/"+saved.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ts.store.SavedCVs())
}

func TestSaved_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/api/saved/missing"},
		{http.MethodPut, "/api/saved/missing"},
		{http.MethodPost, "/api/saved/missing/load"},
		{http.MethodDelete, "/api/saved/missing"},
	} {
		w := ts.do(t, req.method, req.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, req.method+" "+req.path)
	}
}

func TestPreferences(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/api/preferences", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.DefaultPreferences(), decode[types.Preferences](t, w))

	w = ts.do(t, http.MethodPatch, "/api/preferences", `{"templateId":"creative","language":"en"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	prefs := decode[types.Preferences](t, w)
	assert.Equal(t, "creative", prefs.TemplateID)
	assert.Equal(t, "en", prefs.Language)
	assert.Equal(t, types.DefaultAccentColor, prefs.AccentColor)
}

func TestPreferences_InvalidLeavesAllUnchanged(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []string{
		`{"templateId":"gothic"}`,
		`{"accentColor":"red","language":"en"}`,
		`{"design":{"fontFamily":"Inter","fontSize":40,"marginTop":10,"sectionGap":10}}`,
	}
	for _, body := range tests {
		w := ts.do(t, http.MethodPatch, "/api/preferences", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Equal(t, types.DefaultPreferences(), ts.store.Preferences())
}

func TestListTemplates(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Templates []TemplateInfo `json:"templates"`
	}](t, w)

	require.Len(t, body.Templates, len(rendering.Names()))
	byName := map[string]TemplateInfo{}
	for _, tpl := range body.Templates {
		byName[tpl.Name] = tpl
	}
	assert.True(t, byName["classic"].Selected)
	assert.True(t, byName["modern"].InlineEdit)
	assert.False(t, byName["classic"].InlineEdit)
	assert.Equal(t, rendering.LayoutSidebar, byName["technical"].Layout)
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t, nil)
	require.NoError(t, ts.store.UpdatePersonalField("name", "Ana <b>"))

	w := ts.do(t, http.MethodGet, "/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="cv-root"`)
	assert.Contains(t, w.Body.String(), "Ana &lt;b&gt;")

	w = ts.do(t, http.MethodGet, "/preview/pages", "")
	require.Equal(t, http.StatusOK, w.Code)
	pages := decode[PagesResponse](t, w)
	assert.Equal(t, "classic", pages.Template)
	assert.GreaterOrEqual(t, pages.Pages, 1)
	assert.Positive(t, pages.Height)

	w = ts.do(t, http.MethodGet, "/print", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "print-page")
}

func TestExports(t *testing.T) {
	ts := newTestServer(t, fakePrinter{})
	require.NoError(t, ts.store.UpdatePersonal(types.PersonalPatch{Name: ptr("Ana"), LastName: ptr("Gómez")}))

	tests := []struct {
		path        string
		contentType string
		filename    string
	}{
		{"/export/json", "application/json", "cv_backup_2024-03-04.json"},
		{"/export/docx", export.DOCXContentType, "Ana_Gómez_resume.docx"},
		{"/export/pdf", "application/pdf", "Ana_Gómez_resume.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), tt.filename)
			assert.NotZero(t, w.Body.Len())
		})
	}
}

func TestExportPDF_NoPrinter(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/export/pdf", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestPrompt(t *testing.T) {
	ts := newTestServer(t, nil)
	require.NoError(t, ts.store.SetLanguage("en"))
	require.NoError(t, ts.store.UpdatePersonalField("name", "Ana"))

	w := ts.do(t, http.MethodGet, "/api/prompt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "résumé writer")
	assert.Contains(t, w.Body.String(), `"name": "Ana"`)
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t, nil)
	srv := httptest.NewServer(ts.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "event: ") {
				events <- strings.TrimPrefix(line, "event: ")
			}
		}
		close(events)
	}()

	next := func() string {
		select {
		case e := <-events:
			return e
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
			return ""
		}
	}

	assert.Equal(t, "changed", next())

	require.Eventually(t, func() bool { return ts.broadcaster.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	ts.store.AddSkill("Go")
	assert.Equal(t, "changed", next())

	ts.broadcaster.Info("hello")
	assert.Equal(t, "notification", next())
}

func TestCORSMiddleware_OPTIONS(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodOptions, "/api/document", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Zero(t, w.Body.Len())
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, fakePrinter{})
	ts.rateLimiter.Stop()
	ts.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules:         []ratelimit.Rule{{Path: "/export/pdf", Method: "GET", Limit: 1, Window: time.Hour}},
	})

	w := ts.do(t, http.MethodGet, "/export/pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = ts.do(t, http.MethodGet, "/export/pdf", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w = ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	ts := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"request validation", &ErrValidation{Field: "name", Message: "required"}, http.StatusBadRequest},
		{"store validation", &store.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{"wrapped store validation", fmt.Errorf("ctx: %w", &store.ValidationError{Message: "bad"}), http.StatusBadRequest},
		{"photo", &store.PhotoError{Message: "not an image"}, http.StatusBadRequest},
		{"import", &export.ImportError{Message: "bad json"}, http.StatusBadRequest},
		{"saved not found", store.ErrSavedCVNotFound, http.StatusNotFound},
		{"inline edit", ErrInlineEditUnsupported, http.StatusConflict},
		{"no printer", &export.ExportError{Format: "pdf", Cause: export.ErrNoPrinter}, http.StatusNotImplemented},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()

	sse, err := NewSSEWriter(w)
	require.NoError(t, err)
	require.NoError(t, sse.WriteEvent("changed", ChangedEvent{Template: "classic", Language: "es"}))
	require.NoError(t, sse.WriteComment("keep-alive"))

	body := w.Body.Bytes()
	assert.True(t, bytes.Contains(body, []byte("event: changed\n")))
	assert.True(t, bytes.Contains(body, []byte(`data: {"template":"classic","language":"es"}`)))
	assert.True(t, bytes.Contains(body, []byte(": keep-alive\n\n")))
}

func ptr[T any](v T) *T { return &v }
