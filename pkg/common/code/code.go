package code

import (
	"fmt"
	"net/http"
)

// Code is a stable error with an HTTP status and a business code. The
// predeclared values below are templates; WithMsg/WithErr return copies so
// the templates stay comparable with errors.Is.
type Code struct {
	Status int    `json:"-"`
	Code   int    `json:"code"`
	Msg    string `json:"msg"`

	cause error
}

func New(status int, code int, msg string) *Code {
	return &Code{Status: status, Code: code, Msg: msg}
}

func (c *Code) Error() string {
	if c.cause != nil {
		return fmt.Sprintf("[%d] %s: %v", c.Code, c.Msg, c.cause)
	}
	return fmt.Sprintf("[%d] %s", c.Code, c.Msg)
}

func (c *Code) WithMsg(msg string) *Code {
	cp := *c
	cp.Msg = msg
	return &cp
}

func (c *Code) WithErr(err error) *Code {
	cp := *c
	cp.cause = err
	return &cp
}

func (c *Code) Unwrap() error {
	return c.cause
}

// Is matches any derived copy back to its template.
func (c *Code) Is(target error) bool {
	t, ok := target.(*Code)
	return ok && t.Code == c.Code
}

var (
	Success  = New(http.StatusOK, 0, "ok")
	ParamErr = New(http.StatusBadRequest, 10001, "invalid param")

	QueryAnalysesErr = New(http.StatusInternalServerError, 20001, "query analyses failed")
	QueryResultsErr  = New(http.StatusInternalServerError, 20002, "query results failed")
	FilterColumnErr  = New(http.StatusBadRequest, 20003, "unknown filter column")
	FilterValueErr   = New(http.StatusBadRequest, 20004, "bad filter value")

	MigrateErr       = New(http.StatusInternalServerError, 30001, "schema migration failed")
	IngestMetaErr    = New(http.StatusBadRequest, 30002, "bad metadata file")
	IngestResultsErr = New(http.StatusBadRequest, 30003, "bad results file")
	IngestWriteErr   = New(http.StatusInternalServerError, 30004, "insert records failed")
)
