package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/middleware"
	"Buzz_Board/internal/service"
	"Buzz_Board/internal/validate"
)

var subscriptionStatus = statusTable{
	apperr.KindValidation: http.StatusBadRequest,
	apperr.KindConflict:   http.StatusBadRequest,
}

type BuzzHandler struct {
	svc *service.BuzzService
	log *zap.Logger
}

func NewBuzzHandler(svc *service.BuzzService, log *zap.Logger) *BuzzHandler {
	return &BuzzHandler{svc: svc, log: log}
}

// Create 成功时响应体为社区名称
func (h *BuzzHandler) Create(c *gin.Context) {
	sess := middleware.SessionFrom(c)

	var req validate.BuzzPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, h.log, bindError("invalid buzz payload", err), defaultStatus, "msg")
		return
	}
	name, err := validate.ParseBuzz(req)
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}

	buzz, err := h.svc.Create(c.Request.Context(), sess.UserID, name)
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	c.String(http.StatusOK, buzz.Name)
}

func (h *BuzzHandler) Subscribe(c *gin.Context) {
	buzzID, ok := h.bindSubscription(c)
	if !ok {
		return
	}
	if err := h.svc.Subscribe(c.Request.Context(), middleware.SessionFrom(c).UserID, buzzID); err != nil {
		renderError(c, h.log, err, subscriptionStatus, "msg")
		return
	}
	c.String(http.StatusOK, strconv.FormatUint(buzzID, 10))
}

func (h *BuzzHandler) Unsubscribe(c *gin.Context) {
	buzzID, ok := h.bindSubscription(c)
	if !ok {
		return
	}
	if err := h.svc.Unsubscribe(c.Request.Context(), middleware.SessionFrom(c).UserID, buzzID); err != nil {
		renderError(c, h.log, err, subscriptionStatus, "msg")
		return
	}
	c.String(http.StatusOK, strconv.FormatUint(buzzID, 10))
}

func (h *BuzzHandler) bindSubscription(c *gin.Context) (uint64, bool) {
	var req validate.SubscriptionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, h.log, bindError("invalid subscription payload", err), subscriptionStatus, "msg")
		return 0, false
	}
	buzzID, err := validate.ParseSubscription(req)
	if err != nil {
		renderError(c, h.log, err, subscriptionStatus, "msg")
		return 0, false
	}
	return buzzID, true
}
