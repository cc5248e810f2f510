package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/middleware"
	"Buzz_Board/internal/service"
	"Buzz_Board/internal/validate"
)

var (
	signupStatus = statusTable{
		apperr.KindValidation: http.StatusUnprocessableEntity,
		apperr.KindConflict:   http.StatusUnprocessableEntity,
	}
	loginStatus = statusTable{
		apperr.KindValidation: http.StatusBadRequest,
	}
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// Signup 注册接口
func (h *UserHandler) Signup(c *gin.Context) {
	var req validate.SignupPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, h.log, bindError("Invalid input.", err), signupStatus, "message")
		return
	}
	in, err := validate.ParseSignup(req)
	if err != nil {
		renderError(c, h.log, err, signupStatus, "message")
		return
	}

	user, err := h.svc.Signup(c.Request.Context(), in)
	if err != nil {
		renderError(c, h.log, err, signupStatus, "message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created!", "user": user.Safe()})
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req validate.LoginPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, h.log, bindError("invalid login payload", err), loginStatus, "msg")
		return
	}
	in, err := validate.ParseLogin(req)
	if err != nil {
		renderError(c, h.log, err, loginStatus, "msg")
		return
	}
	pair, err := h.svc.Login(c.Request.Context(), in.Login, in.Password)
	if err != nil {
		renderError(c, h.log, err, loginStatus, "msg")
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.SessionFrom(c).UserID); err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, h.log, bindError("invalid refresh payload", err), loginStatus, "msg")
		return
	}
	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		renderError(c, h.log, err, loginStatus, "msg")
		return
	}
	c.JSON(http.StatusOK, pair)
}
