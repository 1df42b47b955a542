package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

type widget struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type widgetPayload struct {
	Name string `json:"name"`
}

type widgetServiceMock struct {
	items     map[int64]widget
	lastQuery models.ListQuery
	created   *widgetPayload
	deleted   []int64
}

func (m *widgetServiceMock) List(_ context.Context, q models.ListQuery) ([]widget, *models.Pagination, error) {
	m.lastQuery = q
	out := make([]widget, 0, len(m.items))
	for _, w := range m.items {
		out = append(out, w)
	}
	return out, models.NewPagination(q, len(out)), nil
}

func (m *widgetServiceMock) Get(_ context.Context, id int64) (*widget, error) {
	w, ok := m.items[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Widget not found")
	}
	return &w, nil
}

func (m *widgetServiceMock) Create(_ context.Context, req widgetPayload) (*widget, error) {
	if req.Name == "" {
		return nil, appErrors.Field(appErrors.ErrValidation, "name", "The name field is required.")
	}
	m.created = &req
	return &widget{ID: 9, Name: req.Name}, nil
}

func (m *widgetServiceMock) Update(ctx context.Context, id int64, req widgetPayload) (*widget, error) {
	w, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Name = req.Name
	return w, nil
}

func (m *widgetServiceMock) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Widget not found")
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type widgetHandler struct {
	crud[widget, widget, widgetPayload, widgetPayload]
}

func (h *widgetHandler) List(c *gin.Context)   { h.list(c) }
func (h *widgetHandler) Get(c *gin.Context)    { h.get(c) }
func (h *widgetHandler) Create(c *gin.Context) { h.create(c) }
func (h *widgetHandler) Update(c *gin.Context) { h.update(c) }
func (h *widgetHandler) Delete(c *gin.Context) { h.delete(c) }

func newWidgetRouter(svc *widgetServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &widgetHandler{crud: newCRUD[widget, widget, widgetPayload, widgetPayload](svc, "Widget")}
	RegisterResource(r.Group("/api"), "/widgets", h)
	return r
}

func serve(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestResourceList(t *testing.T) {
	svc := &widgetServiceMock{items: map[int64]widget{1: {ID: 1, Name: "a"}}}
	r := newWidgetRouter(svc)

	w := serve(r, http.MethodGet, "/api/widgets?name=a&page=2&itemsPerPage=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, map[string]string{"name": "a"}, svc.lastQuery.Filters)
	assert.Equal(t, 2, svc.lastQuery.Page)
	assert.Equal(t, models.MaxItemsPerPage, svc.lastQuery.PerPage)

	var body struct {
		Data       []widget           `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 2, body.Pagination.CurrentPage)

	w = serve(r, http.MethodGet, "/api/widgets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "pagination")
	assert.False(t, svc.lastQuery.Paginated)
}

func TestResourceGet(t *testing.T) {
	r := newWidgetRouter(&widgetServiceMock{items: map[int64]widget{1: {ID: 1, Name: "a"}}})

	w := serve(r, http.MethodGet, "/api/widgets/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"id":1,"name":"a"}}`, w.Body.String())

	for _, target := range []string{"/api/widgets/2", "/api/widgets/abc", "/api/widgets/-1", "/api/widgets/0"} {
		w = serve(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Equal(t, "Widget not found", decodeError(t, w).Message, target)
	}
}

func TestResourceCreate(t *testing.T) {
	svc := &widgetServiceMock{items: map[int64]widget{}}
	r := newWidgetRouter(svc)

	w := serve(r, http.MethodPost, "/api/widgets", []byte(`{"name":"gear"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"id":9,"name":"gear"}}`, w.Body.String())

	w = serve(r, http.MethodPost, "/api/widgets", []byte(`{"name":`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Malformed JSON payload", decodeError(t, w).Message)

	w = serve(r, http.MethodPost, "/api/widgets", []byte(``))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, []string{"The name field is required."}, body.Errors["name"])
}

func TestResourceUpdateAndDelete(t *testing.T) {
	svc := &widgetServiceMock{items: map[int64]widget{1: {ID: 1, Name: "a"}}}
	r := newWidgetRouter(svc)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w := serve(r, method, "/api/widgets/1", []byte(`{"name":"b"}`))
		require.Equal(t, http.StatusOK, w.Code, method)
		assert.JSONEq(t, `{"data":{"id":1,"name":"b"}}`, w.Body.String())
	}

	w := serve(r, http.MethodDelete, "/api/widgets/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, []int64{1}, svc.deleted)

	w = serve(r, http.MethodDelete, "/api/widgets/5", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
