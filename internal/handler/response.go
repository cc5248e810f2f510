package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/middleware"
)

// statusTable 每个接口自己的错误分类到状态码映射，缺省使用 defaultStatus
type statusTable map[apperr.Kind]int

var defaultStatus = statusTable{
	apperr.KindValidation:      http.StatusUnprocessableEntity,
	apperr.KindConflict:        http.StatusConflict,
	apperr.KindUnauthenticated: http.StatusUnauthorized,
	apperr.KindForbidden:       http.StatusForbidden,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindInternal:        http.StatusInternalServerError,
}

func (t statusTable) status(k apperr.Kind) int {
	if s, ok := t[k]; ok {
		return s
	}
	return defaultStatus[k]
}

// renderError 内部错误记录日志并只返回静态提示
func renderError(c *gin.Context, log *zap.Logger, err error, table statusTable, msgKey string) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal(err, "Internal server error")
	}
	status := table.status(e.Kind)

	if e.Kind == apperr.KindInternal {
		fields := []zap.Field{
			zap.String("route", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
			zap.Error(e.Err),
		}
		if sess := middleware.SessionFrom(c); sess != nil {
			fields = append(fields, zap.Uint64("user_id", sess.UserID))
		}
		log.Error(e.Msg, fields...)
		_ = c.Error(err)
	}

	body := gin.H{msgKey: e.Msg}
	if len(e.Issues) > 0 {
		body["issues"] = e.Issues
	}
	c.AbortWithStatusJSON(status, body)
}

func bindError(msg string, err error) error {
	return apperr.Validation(msg, apperr.Issue{Field: "body", Message: err.Error()})
}
