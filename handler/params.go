package handler

import (
	"strconv"

	"friendica_api/api"
	"friendica_api/apperr"
	"friendica_api/pagination"
)

// idParam 路径参数优先，其次是同名查询参数；都没有时返回 0
func idParam(req *api.Request, name string) (int64, error) {
	raw := req.Arg(0)
	if raw == "" {
		raw = req.Param(name)
	}
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return id, nil
}

// countParam count 参数，默认 20，限制在 [1, 200]
func countParam(req *api.Request) (int, error) {
	count, err := req.IntParam("count", pagination.DefaultCount)
	if err != nil {
		return 0, err
	}
	return pagination.ClampCount(count), nil
}

// maxPage page 参数上限，保证 (page-1)*count 不会溢出
const maxPage = 100000

// listParams 时间线类接口共用的分页参数
type listParams struct {
	Count   int
	Page    int
	SinceID int64
	MaxID   int64
}

func parseListParams(req *api.Request) (listParams, error) {
	var (
		p   listParams
		err error
	)
	if p.Count, err = countParam(req); err != nil {
		return p, err
	}
	if p.Page, err = req.IntParam("page", 1); err != nil {
		return p, err
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > maxPage {
		return p, apperr.BadRequest("Invalid page")
	}
	if p.SinceID, err = req.Int64Param("since_id", 0); err != nil {
		return p, err
	}
	if p.MaxID, err = req.Int64Param("max_id", 0); err != nil {
		return p, err
	}
	return p, nil
}
