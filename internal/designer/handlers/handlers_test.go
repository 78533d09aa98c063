package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popup-designer/internal/designer/foldstate"
	"popup-designer/internal/designer/repository"
	"popup-designer/internal/designer/service"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "designer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(t.Context()))

	app := fiber.New()
	NewHealthHandler(db).Register(app)
	NewDesignHandler(
		service.NewManager(foldstate.DefaultOptions()),
		repo,
		service.NewFileStorage(t.TempDir()),
	).Register(app)
	return &testServer{t: t, app: app}
}

func (s *testServer) send(req *http.Request) (*http.Response, []byte) {
	s.t.Helper()
	resp, err := s.app.Test(req, fiber.TestConfig{Timeout: 30 * time.Second, FailOnTimeout: true})
	require.NoError(s.t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	resp.Body.Close()
	return resp, data
}

func (s *testServer) do(method, path string, body any) (int, map[string]any) {
	s.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	resp, data := s.send(req)
	out := map[string]any{}
	if len(data) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func (s *testServer) create() string {
	s.t.Helper()
	status, body := s.do(http.MethodPost, "/designs", nil)
	require.Equal(s.t, http.StatusCreated, status)
	return body["id"].(string)
}

func TestCreateDesign(t *testing.T) {
	s := newServer(t)
	status, body := s.do(http.MethodPost, "/designs", nil)
	require.Equal(t, http.StatusCreated, status)

	assert.EqualValues(t, 1, body["selected"])
	assert.Equal(t, "Parallel fold", body["mechanismName"])
	art := body["articulation"].(map[string]any)
	assert.InDelta(t, 0.5, art["fraction"], 1e-12)
	assert.InDelta(t, 90, art["degrees"], 1e-9)
	design := body["design"].(map[string]any)
	assert.Len(t, design["elements"], 1)
}

func TestCreateFromSnapshotBody(t *testing.T) {
	s := newServer(t)
	status, body := s.do(http.MethodPost, "/designs", map[string]any{
		"mechanism": "pull-tab",
		"elements":  []map[string]any{{"id": 3, "x": 10, "width": 20, "depth": 20}},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 3, body["selected"])
	assert.Equal(t, "Pull tab", body["mechanismName"])

	status, _ = s.do(http.MethodPost, "/designs", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUnknownDesign(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/designs/nope", "/designs/nope/pattern", "/designs/nope/guide"} {
		status, body := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.NotEmpty(t, body["error"])
	}
}

func TestDeleteDesign(t *testing.T) {
	s := newServer(t)
	id := s.create()

	status, _ := s.do(http.MethodDelete, "/designs/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(http.MethodGet, "/designs/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestElementLifecycle(t *testing.T) {
	s := newServer(t)
	id := s.create()
	base := "/designs/" + id

	status, body := s.do(http.MethodPost, base+"/elements", nil)
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 2, body["id"])

	status, body = s.do(http.MethodPatch, base+"/elements/2", map[string]any{"field": "width", "value": "abc"})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["value"])

	status, body = s.do(http.MethodPatch, base+"/elements/2", map[string]any{"field": "depth", "value": 200})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 70, body["value"])

	status, body = s.do(http.MethodPatch, base+"/elements/2", map[string]any{"field": "Width", "value": 50})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 50, body["element"].(map[string]any)["width"])
	status, body = s.do(http.MethodPatch, base+"/elements/2", map[string]any{"field": "x", "value": -250})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, -100, body["element"].(map[string]any)["x"])

	status, _ = s.do(http.MethodPatch, base+"/elements/2", map[string]any{"field": "height", "value": "5"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = s.do(http.MethodPatch, base+"/elements/99", map[string]any{"field": "x", "value": "5"})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(http.MethodPatch, base+"/elements/two", map[string]any{"field": "x", "value": "5"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = s.do(http.MethodDelete, base+"/elements/2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["selected"])

	status, _ = s.do(http.MethodDelete, base+"/elements/1", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(http.MethodPut, base+"/selection", map[string]any{"id": 9})
	assert.Equal(t, http.StatusNotFound, status)
	status, body = s.do(http.MethodPut, base+"/selection", map[string]any{"id": 1})
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["selected"])
}

func TestMechanismAndCard(t *testing.T) {
	s := newServer(t)
	base := "/designs/" + s.create()

	status, _ := s.do(http.MethodPut, base+"/mechanism", map[string]any{"mechanism": "origami"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body := s.do(http.MethodPut, base+"/mechanism", map[string]any{"mechanism": "v-fold"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "vfold", body["mechanism"])

	status, body = s.do(http.MethodPut, base+"/card", map[string]any{"width": 1000})
	require.Equal(t, http.StatusOK, status)
	card := body["card"].(map[string]any)
	assert.EqualValues(t, 420, card["width"])
	assert.EqualValues(t, 140, card["height"])
}

func TestMaterial(t *testing.T) {
	s := newServer(t)
	base := "/designs/" + s.create()

	status, _ := s.do(http.MethodPut, base+"/material", map[string]any{"joinType": "nails"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body := s.do(http.MethodPut, base+"/material", map[string]any{
		"joinType": "slotjoin", "cardColor": "cream", "complexity": 9, "projectName": "Garden",
	})
	require.Equal(t, http.StatusOK, status)
	m := body["material"].(map[string]any)
	assert.Equal(t, "slotjoin", m["joinType"])
	assert.EqualValues(t, 5, m["complexity"])
	assert.Equal(t, "Garden", body["projectName"])
}

func TestPaperLayers(t *testing.T) {
	s := newServer(t)
	base := "/designs/" + s.create()

	status, body := s.do(http.MethodPost, base+"/papers", nil)
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 1, body["index"])

	status, _ = s.do(http.MethodPatch, base+"/papers/5", map[string]any{"color": "#000000"})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(http.MethodPatch, base+"/papers/1", map[string]any{"color": "#000000"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodDelete, base+"/papers/0", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(http.MethodDelete, base+"/papers/0", nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestArticulationAnimationAndDrag(t *testing.T) {
	s := newServer(t)
	base := "/designs/" + s.create()

	status, body := s.do(http.MethodPut, base+"/articulation", map[string]any{"value": 2})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1.0, body["articulation"].(map[string]any)["fraction"], 1e-12)

	status, body = s.do(http.MethodPut, base+"/articulation", map[string]any{"value": 0.5, "animate": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["animating"])
	assert.InDelta(t, 1.0, body["articulation"].(map[string]any)["fraction"], 1e-12)
	assert.InDelta(t, 0.5, body["target"].(map[string]any)["fraction"], 1e-12)
	status, body = s.do(http.MethodPost, base+"/tick", map[string]any{"frames": 500})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.5, body["articulation"].(map[string]any)["fraction"], 1e-12)
	status, _ = s.do(http.MethodPut, base+"/articulation", map[string]any{"value": 1})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodPut, base+"/articulation", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = s.do(http.MethodPut, base+"/articulation", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(http.MethodPost, base+"/articulation/toggle", nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.0, body["target"].(map[string]any)["fraction"], 1e-12)

	status, body = s.do(http.MethodPost, base+"/tick", map[string]any{"frames": 500, "motion": 1.5})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.0, body["articulation"].(map[string]any)["fraction"], 1e-12)
	assert.Equal(t, false, body["animating"])
	assert.InDelta(t, 1.5, body["motion"], 1e-12)

	status, _ = s.do(http.MethodPost, base+"/tick", map[string]any{"frames": MaxTickFrames + 1})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = s.do(http.MethodPost, base+"/drag", map[string]any{"phase": "begin", "x": 0, "y": 0})
	require.Equal(t, http.StatusOK, status)
	status, body = s.do(http.MethodPost, base+"/drag", map[string]any{"phase": "move", "x": 200, "y": 0, "viewport": 400})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "open", body["gesture"])
	assert.InDelta(t, 0.5, body["articulation"].(map[string]any)["fraction"], 1e-12)
	status, _ = s.do(http.MethodPost, base+"/drag", map[string]any{"phase": "wiggle"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = s.do(http.MethodPut, base+"/view/zoom", map[string]any{"delta": 1})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 33, body["view"].(map[string]any)["distance"], 1e-9)
	status, body = s.do(http.MethodPost, base+"/view/reset", nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1, body["scale"], 1e-12)
}

func TestDerivedOutputs(t *testing.T) {
	s := newServer(t)
	base := "/designs/" + s.create()

	status, body := s.do(http.MethodGet, base+"/placements", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "parallel", body["mechanism"])
	assert.NotEmpty(t, body["placements"])

	status, body = s.do(http.MethodGet, base+"/pattern", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["lines"], 5)

	resp, data := s.send(httptest.NewRequest(http.MethodGet, base+"/pattern.svg", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(data), `id="cut_1_left"`)

	for _, path := range []string{base + "/pattern.png?scale=2", base + "/preview.png?size=128"} {
		resp, data = s.send(httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), path)
	}

	status, body = s.do(http.MethodGet, base+"/guide", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 12, body["stats"].(map[string]any)["popDepth"])

	resp, data = s.send(httptest.NewRequest(http.MethodGet, base+"/guide?format=text", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "Parallel fold")

	resp, data = s.send(httptest.NewRequest(http.MethodGet, base+"/export", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "popup-card-")
	var snap map[string]any
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.NotEmpty(t, snap["timestamp"])
}

func TestSaveAndLoad(t *testing.T) {
	s := newServer(t)
	id := s.create()
	base := "/designs/" + id

	status, _ := s.do(http.MethodPost, base+"/load", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodPut, base+"/mechanism", map[string]any{"mechanism": "spinner"})
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(http.MethodPost, base+"/load", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Parallel fold", body["mechanismName"])

	other := s.create()
	status, body = s.do(http.MethodPost, "/designs/"+other+"/load", map[string]any{"from": id})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, other, body["id"])

	resp, data := s.send(httptest.NewRequest(http.MethodGet, "/saved", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])

	status, _ = s.do(http.MethodDelete, "/saved/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(http.MethodDelete, "/saved/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWriteExports(t *testing.T) {
	s := newServer(t)
	base := "/designs/" + s.create()

	status, body := s.do(http.MethodPost, base+"/exports", nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, body["files"], 5)
}

func upload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/patterns/inspect", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestInspectPattern(t *testing.T) {
	s := newServer(t)
	base := "/designs/" + s.create()

	_, svg := s.send(httptest.NewRequest(http.MethodGet, base+"/pattern.svg", nil))

	resp, data := s.send(upload(t, "card.svg", string(svg)))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.EqualValues(t, 2, body["cuts"])
	assert.EqualValues(t, 3, body["folds"])
	assert.EqualValues(t, 1, body["elements"])

	resp, _ = s.send(upload(t, "card.png", "x"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.send(upload(t, "broken.svg", "<svg"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/health/live", "/health/ready", "/health/startup"} {
		status, body := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, status, path)
		assert.NotEmpty(t, body["status"])
	}
}

func TestAPIDocs(t *testing.T) {
	s := newServer(t)

	resp, data := s.send(httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "openapi: 3.0.3")
	assert.Contains(t, string(data), "/designs/{id}/pattern.svg:")

	resp, data = s.send(httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "swagger-ui")
}
