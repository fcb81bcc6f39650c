package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, Status(CodeOK))
	assert.Equal(t, http.StatusConflict, Status(CodeConflict))
	assert.Equal(t, http.StatusInternalServerError, Status(42))
}

func TestEnvelope(t *testing.T) {
	r := OK(nil)
	assert.Equal(t, CodeOK, r.Code)
	assert.Equal(t, struct{}{}, r.Data)

	e := Error(CodeNotFound, "")
	assert.Equal(t, "Not Found", e.Msg)
	assert.Equal(t, "post not found", Error(CodeNotFound, "post not found").Msg)
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Abort(c, CodeForbidden, "access denied")

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeForbidden, body.Code)
	assert.Equal(t, "access denied", body.Msg)
	assert.True(t, c.IsAborted())
}
