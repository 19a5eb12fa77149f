package record

import (
	"github.com/gin-gonic/gin"

	"github.com/16967143/database-alchemy/pkg/common"
	"github.com/16967143/database-alchemy/pkg/common/code"
	coreQuery "github.com/16967143/database-alchemy/pkg/core/query"
	queryImpl "github.com/16967143/database-alchemy/pkg/core/query/query"
)

type Handle struct{ svc coreQuery.Service }

func NewHandle() *Handle { return &Handle{svc: queryImpl.New()} }

func (h *Handle) Analyses(ctx *gin.Context) {
	in := &coreQuery.AnalysesReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	table, err := h.svc.Analyses(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	table, err = table.Apply(in.Filters())
	common.Reply(ctx, err, table)
}

func (h *Handle) Results(ctx *gin.Context) {
	in := &coreQuery.ResultsReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	if len(in.AnalysisIDs) > 0 && len(in.SampleNames) > 0 {
		common.ReplyErr(ctx, code.ParamErr.WithMsg("filter by analysis_id or sample_name, not both"))
		return
	}

	var (
		table *coreQuery.Table
		err   error
	)
	if len(in.SampleNames) > 0 {
		table, err = h.svc.ResultsBySample(ctx, in.SampleNames...)
	} else {
		table, err = h.svc.ResultsByAnalysis(ctx, in.AnalysisIDs...)
	}
	common.Reply(ctx, err, table)
}

func (h *Handle) Databases(ctx *gin.Context) {
	names, err := h.svc.Databases(ctx)
	common.Reply(ctx, err, names)
}
