// Package middleware holds the gin stages shared by the public and admin
// engines: request logging, recovery, authentication and OpenAPI checks.
package middleware

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/pkg/response"
)

// ValidationFailedKey is the gin context key of the response validation
// marker. Once true, no further response validation is attempted.
const ValidationFailedKey = "openapi.validation_failed"

// Action is what Intercept does with a buffered response.
type Action int

const (
	// ActionSend writes the handler's response unchanged.
	ActionSend Action = iota
	// ActionReplace writes Outgoing.Status and Outgoing.Body instead.
	ActionReplace
	// ActionFail hands Outgoing.Err to response.WriteError.
	ActionFail
)

// Outgoing is a fully buffered response the hook may inspect or replace.
type Outgoing struct {
	Request  *http.Request
	FullPath string
	Status   int
	Header   http.Header
	Body     []byte

	// ValidationFailed is the validation marker; hooks set it when the
	// body is known not to match its schema.
	ValidationFailed bool
	// Err is reported through the shared error handler on ActionFail.
	Err error
}

// BeforeSend decides the fate of a response after the handler chain returned
// and before anything reached the client.
type BeforeSend func(out *Outgoing) Action

// Intercept buffers everything downstream handlers write and lets hook decide
// what is actually sent. The response is written exactly once.
func Intercept(hook BeforeSend) gin.HandlerFunc {
	return func(c *gin.Context) {
		orig := c.Writer
		bw := &bufferedWriter{ResponseWriter: orig, status: orig.Status()}
		c.Writer = bw
		// a panic unwinds past the flush below; recovery must see the real writer
		defer func() { c.Writer = orig }()

		c.Next()
		c.Writer = orig

		if !bw.written && bw.body.Len() == 0 {
			if bw.status != orig.Status() {
				orig.WriteHeader(bw.status)
			}
			return
		}

		out := &Outgoing{
			Request:          c.Request,
			FullPath:         c.FullPath(),
			Status:           bw.status,
			Header:           orig.Header(),
			Body:             bw.body.Bytes(),
			ValidationFailed: c.GetBool(ValidationFailedKey),
		}
		action := hook(out)
		if out.ValidationFailed {
			c.Set(ValidationFailedKey, true)
		}

		switch action {
		case ActionReplace:
			h := orig.Header()
			h.Del("Content-Length")
			h.Set("Content-Type", "application/json; charset=utf-8")
			flush(orig, out.Status, out.Body)
		case ActionFail:
			if out.Err == nil {
				out.Err = errors.New("response rejected before send")
			}
			orig.Header().Del("Content-Length")
			orig.Header().Del("Content-Type")
			response.WriteError(c, out.Err)
		default:
			flush(orig, bw.status, bw.body.Bytes())
		}
	}
}

func flush(w gin.ResponseWriter, status int, body []byte) {
	w.WriteHeader(status)
	if len(body) == 0 {
		w.WriteHeaderNow()
		return
	}
	_, _ = w.Write(body)
}

// bufferedWriter holds status and body until Intercept flushes them.
// Headers go straight to the wrapped writer's header map.
type bufferedWriter struct {
	gin.ResponseWriter
	status  int
	body    bytes.Buffer
	written bool
}

func (w *bufferedWriter) WriteHeader(code int) {
	if code > 0 && !w.written {
		w.status = code
	}
}

func (w *bufferedWriter) WriteHeaderNow() { w.written = true }

func (w *bufferedWriter) Write(data []byte) (int, error) {
	w.written = true
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	w.written = true
	return w.body.WriteString(s)
}

func (w *bufferedWriter) Status() int { return w.status }

func (w *bufferedWriter) Size() int {
	if !w.written {
		return -1
	}
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool { return w.written }

// Flush is a no-op: nothing may reach the client before the hook ran.
func (w *bufferedWriter) Flush() {}
