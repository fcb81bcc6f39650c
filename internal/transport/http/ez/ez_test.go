package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	resp "newsportal/internal/transport/http/response"
)

type echoIn struct {
	Name string `json:"name"`
}

func newEngine(l *zap.Logger, fail error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := New(r.Group("/v1"), l)
	RegisterAction(g, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			if fail != nil {
				return nil, fail
			}
			return gin.H{"name": in.Name}, nil
		},
	})
	return r
}

func do(r http.Handler, body string) (*httptest.ResponseRecorder, resp.Resp) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRegisterActionSuccess(t *testing.T) {
	w, out := do(newEngine(nil, nil), `{"name":"kyiv"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, map[string]any{"name": "kyiv"}, out.Data)
}

func TestRegisterActionBadJSON(t *testing.T) {
	w, out := do(newEngine(nil, nil), `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, resp.CodeBadRequest, out.Code)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.InvalidInput("missing required fields"), 400, "missing required fields"},
		{domain.Unauthenticated("authentication required"), 401, "authentication required"},
		{domain.Forbidden("access denied"), 403, "access denied"},
		{domain.NotFound("post not found"), 404, "post not found"},
		{domain.Conflict("slug already in use"), 409, "slug already in use"},
		{domain.Internal("delete user", errors.New("pq: deadlock detected")), 500, "internal error"},
		{errors.New("raw driver error"), 500, "internal error"},
	}
	for _, tc := range cases {
		w, out := do(newEngine(nil, tc.err), `{}`)
		assert.Equal(t, tc.status, w.Code, tc.msg)
		assert.Equal(t, tc.status, out.Code, tc.msg)
		assert.Equal(t, tc.msg, out.Msg)
	}
}

func TestInternalErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	do(newEngine(zap.New(core), domain.Internal("tx", errors.New("secret detail"))), `{}`)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request failed", entry.Message)
	assert.Contains(t, entry.ContextMap()["error"], "secret detail")
}

func TestPrincipalFromClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Principal(c))

	SetClaims(c, &auth.Claims{UID: "u1", Role: domain.RoleAdmin})
	p := Principal(c)
	require.NotNil(t, p)
	assert.Equal(t, "u1", p.ID)
	assert.True(t, p.IsAdmin())
}
