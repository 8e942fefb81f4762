package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/server/http/dto"
	"eventhub/internal/server/http/resp"
)

// RunJob kicks off a simulated background job for the user and returns its
// id; progress streams over the push channel.
func (h *Handler) RunJob(c *gin.Context) {
	var req dto.RunJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.UserID == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "userId and type are required"})
		return
	}

	// The stream must outlive this request.
	jobID := h.runner.Run(context.WithoutCancel(c.Request.Context()), req.UserID, req.Type, req.Total, req.Fail)
	c.JSON(http.StatusAccepted, dto.RunJobResponse{JobID: jobID})
}
