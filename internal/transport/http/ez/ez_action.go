// Package ez registers typed actions on gin groups and maps their errors onto the response envelope.
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	resp "newsportal/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param itself
)

const (
	keyClaims    = "claims"
	KeyRequestID = "X-Request-ID"
)

// SetClaims records the verified token for the rest of the request.
func SetClaims(c *gin.Context, cl *auth.Claims) { c.Set(keyClaims, cl) }

func Claims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(keyClaims); ok {
		if cl, ok := v.(*auth.Claims); ok {
			return cl
		}
	}
	return nil
}

// Principal is the caller of the request, nil when anonymous.
func Principal(c *gin.Context) *domain.Principal {
	if cl := Claims(c); cl != nil {
		return cl.Principal()
	}
	return nil
}

// AErr is a transport-level failure with an explicit envelope code.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }

type Group struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) Group {
	if l == nil {
		l = zap.NewNop()
	}
	return Group{g: g, log: l}
}

// Action describes one endpoint: I is bound from the request, O becomes the envelope data.
type Action[I any, O any] struct {
	Method  string // GET | POST | PUT | DELETE
	Path    string
	Binder  Binder
	Status  int // success status, 200 when zero
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e Group, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Fail(c, e.log, bindError(bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func bindError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return &AErr{Code: resp.CodeTooLarge, Msg: "request body too large", Err: err}
	}
	return &AErr{Code: resp.CodeBadRequest, Msg: "invalid request", Err: err}
}

// Fail writes err as a failure envelope. Internal errors are logged and reach the caller
// only as a generic message.
func Fail(c *gin.Context, l *zap.Logger, err error) {
	code, msg := classify(err)
	if code == resp.CodeServerError {
		fields := []zap.Field{
			zap.String("op", c.Request.Method+" "+c.FullPath()),
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.Error(err),
		}
		if p := Principal(c); p != nil {
			fields = append(fields, zap.String("uid", p.ID))
		}
		l.Error("request failed", fields...)
	}
	resp.Abort(c, code, msg)
}

func classify(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Error()
	}
	switch domain.KindOf(err) {
	case domain.ErrInvalidInput:
		return resp.CodeBadRequest, domain.Message(err)
	case domain.ErrUnauthenticated:
		return resp.CodeUnauthorized, domain.Message(err)
	case domain.ErrForbidden:
		return resp.CodeForbidden, domain.Message(err)
	case domain.ErrNotFound:
		return resp.CodeNotFound, domain.Message(err)
	case domain.ErrConflict:
		return resp.CodeConflict, domain.Message(err)
	}
	return resp.CodeServerError, "internal error"
}
