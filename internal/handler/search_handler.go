package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Buzz_Board/internal/service"
)

type SearchHandler struct {
	svc *service.SearchService
	log *zap.Logger
}

func NewSearchHandler(svc *service.SearchService, log *zap.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, log: log}
}

// Search GET /api/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	c.JSON(http.StatusOK, list)
}
