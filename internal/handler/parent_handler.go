package handler

import (
	"net/http"

	"github.com/edulink-app/edulink-api/internal/dto"
	"github.com/edulink-app/edulink-api/internal/service"
	"github.com/edulink-app/edulink-api/pkg/response"
	"github.com/edulink-app/edulink-api/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ParentHandler struct {
	service service.ParentService
}

func NewParentHandler(service service.ParentService) *ParentHandler {
	return &ParentHandler{service: service}
}

func (h *ParentHandler) Dashboard(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *ParentHandler) SendKudos(c *gin.Context) {
	var req dto.KudosRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.SendKudos(c.Request.Context(), userID, req.Message); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "kudos sent"})
}
