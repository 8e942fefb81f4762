package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eventhub/internal/config"
	"eventhub/internal/domain"
	"eventhub/internal/model"
	"eventhub/internal/server/http/dto"
	"eventhub/internal/server/http/resp"
	"eventhub/internal/server/hub"
	"eventhub/internal/server/queue"
	"eventhub/internal/server/service/jobs"
	"eventhub/internal/server/service/notify"
)

type Handler struct {
	cfg    *config.Config
	svc    *notify.Service
	hub    *hub.Hub
	runner *jobs.Runner
	log    *zap.Logger
	pub    queue.Publisher
}

func NewHandler(cfg *config.Config, svc *notify.Service, h *hub.Hub, runner *jobs.Runner, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: h, runner: runner, log: logger, pub: publisher}
}

func (h *Handler) ListNotifications(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "userId required"})
		return
	}
	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list notifications"})
		return
	}
	if list == nil {
		list = []model.Notification{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.UserID == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "userId and type are required"})
		return
	}
	created, err := h.svc.Create(c.Request.Context(), model.Notification{
		UserID:   req.UserID,
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Data:     req.Data,
		Priority: req.Priority,
	})
	if err != nil {
		if errors.Is(err, notify.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
			return
		}
		h.log.Error("create notification failed",
			zap.String("user_id", req.UserID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "id required"})
		return
	}
	updated, err := h.svc.MarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "notification not found"})
			return
		}
		h.log.Error("mark read failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ClearNotifications(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "userId required"})
		return
	}
	if err := h.svc.ClearAll(c.Request.Context(), userID); err != nil {
		h.log.Error("clear notifications failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to clear notifications"})
		return
	}
	c.Status(http.StatusNoContent)
}

// PublishNotification hands the notification to the message broker instead
// of creating it directly; the consumer picks it up on push.notification.
func (h *Handler) PublishNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.UserID == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "userId and type are required"})
		return
	}

	payload, err := json.Marshal(model.Notification{
		UserID:   req.UserID,
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Data:     req.Data,
		Priority: req.Priority,
	})
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	if err := h.pub.Publish(c.Request.Context(), payload, "push.notification"); err != nil {
		h.log.Error("publish notification failed",
			zap.String("user_id", req.UserID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}
