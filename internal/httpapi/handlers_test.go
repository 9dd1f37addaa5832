package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeboard/internal/service"
	"lifeboard/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := service.New(store.NewMemory(), nil)
	h := NewHandlers(svc, nil, Defaults{Steps: 2, MaxIterations: 20})
	return NewRouter(h, nil)
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCreateAndGet(t *testing.T) {
	router := setupTestRouter(t)

	w := do(t, router, http.MethodPost, "/v1/boards", `{"rows":[[0,1,0],[0,1,0],[0,1,0]]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[store.Record](t, w)
	assert.Equal(t, store.ID("board-1"), created.ID)
	assert.Equal(t, "010|010|010", created.Board.String())

	w = do(t, router, http.MethodPost, "/v1/boards", `{"text":"1 1\n1 1\n"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":"board-2","board":[[1,1],[1,1]]}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/v1/boards/board-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"board-1","board":[[0,1,0],[0,1,0],[0,1,0]]}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/v1/boards", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[BoardsResponse](t, w)
	require.Len(t, list.Boards, 2)
	assert.Equal(t, store.ID("board-1"), list.Boards[0].ID)
}

func TestCreateRejectsBadInput(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"ragged", `{"rows":[[0,1],[1]]}`, http.StatusUnprocessableEntity, "validation"},
		{"bad cell", `{"rows":[[0,2]]}`, http.StatusUnprocessableEntity, "validation"},
		{"bad token", `{"text":"0 x"}`, http.StatusUnprocessableEntity, "validation"},
		{"empty rows", `{"rows":[]}`, http.StatusUnprocessableEntity, "validation"},
		{"neither", `{}`, http.StatusBadRequest, "invalid_argument"},
		{"both", `{"rows":[[1]],"text":"1"}`, http.StatusBadRequest, "invalid_argument"},
		{"not json", `rows`, http.StatusBadRequest, "invalid_argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/v1/boards", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			resp := decode[ErrorResponse](t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAdvanceEndpoints(t *testing.T) {
	router := setupTestRouter(t)
	do(t, router, http.MethodPost, "/v1/boards", `{"rows":[[0,1,0],[0,1,0],[0,1,0]]}`)

	w := do(t, router, http.MethodPost, "/v1/boards/board-1/next", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":"board-1","board":[[0,0,0],[1,1,1],[0,0,0]]}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/v1/boards/board-1/ahead?steps=3", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	states := decode[StatesResponse](t, w)
	require.Len(t, states.States, 3)
	assert.Equal(t, "010|010|010", states.States[0].String())
	assert.Equal(t, "000|111|000", states.States[1].String())

	w = do(t, router, http.MethodPost, "/v1/boards/board-1/ahead", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[StatesResponse](t, w).States, 2, "default steps apply")

	w = do(t, router, http.MethodPost, "/v1/boards/board-1/ahead?steps=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"board-1","states":[]}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/v1/boards/board-1/ahead?steps=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, http.MethodPost, "/v1/boards/board-1/ahead?steps=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, http.MethodPost, "/v1/boards/board-1/ahead?steps=1125899906842624", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_argument", decode[ErrorResponse](t, w).Code)
}

func TestFinalEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	do(t, router, http.MethodPost, "/v1/boards", `{"rows":[[1,1],[1,1]]}`)
	do(t, router, http.MethodPost, "/v1/boards", `{"rows":[[0,1,0],[0,1,0],[0,1,0]]}`)

	w := do(t, router, http.MethodPost, "/v1/boards/board-1/final?max_iterations=5", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":"board-1","board":[[1,1],[1,1]],"steps_taken":1,"reason":"STABLE"}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/v1/boards/board-2/final?max_iterations=1", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "non_convergence", decode[ErrorResponse](t, w).Code)

	w = do(t, router, http.MethodPost, "/v1/boards/board-2/final?max_iterations=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/v1/boards/board-2/final", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[FinalStateResponse](t, w)
	assert.Equal(t, service.Oscillation, res.Reason)
}

func TestNotFound(t *testing.T) {
	router := setupTestRouter(t)
	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/v1/boards/board-9"},
		{http.MethodPost, "/v1/boards/board-9/next"},
		{http.MethodPost, "/v1/boards/board-9/ahead?steps=0"},
		{http.MethodPost, "/v1/boards/board-9/final"},
		{http.MethodGet, "/v1/session/last"},
	} {
		w := do(t, router, req.method, req.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, req.path)
		assert.Equal(t, "not_found", decode[ErrorResponse](t, w).Code, req.path)
	}
}

func TestSessionAndDelete(t *testing.T) {
	router := setupTestRouter(t)
	do(t, router, http.MethodPost, "/v1/boards", `{"rows":[[1]]}`)
	do(t, router, http.MethodPost, "/v1/boards", `{"rows":[[0]]}`)

	w := do(t, router, http.MethodGet, "/v1/session/last", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, store.ID("board-2"), decode[store.Record](t, w).ID)

	w = do(t, router, http.MethodPut, "/v1/session/last", `{"id":"board-1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, router, http.MethodPut, "/v1/session/last", `{"id":"board-7"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, router, http.MethodPut, "/v1/session/last", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodDelete, "/v1/boards/board-1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, router, http.MethodDelete, "/v1/boards/board-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code, "delete is idempotent")

	w = do(t, router, http.MethodGet, "/v1/session/last", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "deleting the last-active board clears the marker")
}

func TestRequestIDAndOps(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = do(t, router, http.MethodGet, "/healthz", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36, "a uuid is generated")

	do(t, router, http.MethodPost, "/v1/boards", `{"rows":[[1]]}`)
	w = do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "lifeboard_operations_total"))
}

func TestServerShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewServer(ln.Addr().String(), setupTestRouter(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

