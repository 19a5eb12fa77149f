package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/16967143/database-alchemy/pkg/common/code"
)

type response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// Reply writes the standard envelope: err wins when set, otherwise the
// optional payload goes out under data.
func Reply(ctx *gin.Context, err error, resp ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	var data any
	if len(resp) > 0 {
		data = resp[0]
	}
	ctx.JSON(http.StatusOK, &response{Code: code.Success.Code, Msg: code.Success.Msg, Data: data})
}

func ReplyErr(ctx *gin.Context, err error) {
	var c *code.Code
	if !errors.As(err, &c) {
		c = code.New(http.StatusInternalServerError, -1, err.Error())
	}
	ctx.JSON(c.Status, &response{Code: c.Code, Msg: c.Msg})
}
