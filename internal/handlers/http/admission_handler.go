package http

import (
	"errors"
	"net/http"
	"time"

	"meetlite/internal/core/domain"
	"meetlite/internal/core/ports"
	"meetlite/internal/infrastructure/monitoring"
	apperrors "meetlite/pkg/errors"
	"meetlite/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdmissionHandler exposes the session-admission API: create-room,
// join-room and token.
//
// The token endpoint deliberately performs no registry check: any caller
// can mint a join credential for an arbitrary room name. Room identifiers
// act as shared secrets; this mirrors the admission model and is documented
// as a known gap rather than silently hardened.
type AdmissionHandler struct {
	admission ports.AdmissionService
	tokens    ports.TokenService
	metrics   *monitoring.PrometheusCollector
	logger    *zap.SugaredLogger
}

func NewAdmissionHandler(
	admission ports.AdmissionService,
	tokens ports.TokenService,
	metrics *monitoring.PrometheusCollector,
	logger *zap.SugaredLogger,
) *AdmissionHandler {
	return &AdmissionHandler{
		admission: admission,
		tokens:    tokens,
		metrics:   metrics,
		logger:    logger,
	}
}

func (h *AdmissionHandler) SetupRoutes(router *gin.Engine) {
	router.POST("/create-room", h.CreateRoom)
	router.POST("/join-room", h.JoinRoom)
	router.POST("/token", h.Token)
}

type CreateRoomRequest struct {
	Identity string `json:"identity"`
}

type JoinRoomRequest struct {
	Passcode string `json:"passcode"`
	Identity string `json:"identity"`
}

type TokenRequest struct {
	Room     string `json:"room"`
	Identity string `json:"identity"`
}

// CreateRoom always succeeds. The identity is accepted and recorded on the
// meeting but grants nothing; admission stays passcode-only.
func (h *AdmissionHandler) CreateRoom(c *gin.Context) {
	ctx, span := tracing.TraceAdmission(c.Request.Context(), "create-room")
	defer span.End()

	var req CreateRoomRequest
	_ = c.ShouldBindJSON(&req)

	meeting, err := h.admission.CreateMeeting(ctx, domain.Identity(req.Identity))
	if err != nil {
		tracing.RecordError(ctx, err)
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "Failed to create meeting", http.StatusInternalServerError))
		return
	}

	tracing.AddSpanAttributes(ctx, tracing.RoomKey.String(string(meeting.Room)))
	if h.metrics != nil {
		h.metrics.MeetingCreated()
	}

	c.JSON(http.StatusOK, gin.H{
		"room":     meeting.Room,
		"passcode": meeting.Passcode,
	})
}

func (h *AdmissionHandler) JoinRoom(c *gin.Context) {
	ctx, span := tracing.TraceAdmission(c.Request.Context(), "join-room")
	defer span.End()

	var req JoinRoomRequest
	_ = c.ShouldBindJSON(&req)

	if req.Passcode == "" {
		if h.metrics != nil {
			h.metrics.JoinAttempt("bad_request")
		}
		c.Error(apperrors.NewInvalidInputError("Passcode required"))
		return
	}

	meeting, err := h.admission.JoinMeeting(ctx, domain.Passcode(req.Passcode))
	if errors.Is(err, domain.ErrPasscodeNotFound) {
		if h.metrics != nil {
			h.metrics.JoinAttempt("not_found")
		}
		c.Error(apperrors.NewNotFoundError("Invalid passcode"))
		return
	}
	if err != nil {
		tracing.RecordError(ctx, err)
		if h.metrics != nil {
			h.metrics.JoinAttempt("error")
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "Failed to join meeting", http.StatusInternalServerError))
		return
	}

	tracing.AddSpanAttributes(ctx, tracing.RoomKey.String(string(meeting.Room)))
	if h.metrics != nil {
		h.metrics.JoinAttempt("ok")
	}

	c.JSON(http.StatusOK, gin.H{
		"room": meeting.Room,
	})
}

func (h *AdmissionHandler) Token(c *gin.Context) {
	ctx, span := tracing.TraceAdmission(c.Request.Context(), "token")
	defer span.End()

	var req TokenRequest
	_ = c.ShouldBindJSON(&req)

	if req.Room == "" || req.Identity == "" {
		c.Error(apperrors.NewInvalidInputError("room & identity required"))
		return
	}

	start := time.Now()
	grant, err := h.tokens.IssueToken(ctx, domain.RoomID(req.Room), domain.Identity(req.Identity))
	if err != nil {
		tracing.RecordError(ctx, err)
		h.logger.Errorw("token generation failed",
			"room", req.Room,
			"identity", req.Identity,
			"error", err,
		)
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "Token generation failed", http.StatusInternalServerError))
		return
	}

	tracing.AddSpanAttributes(ctx,
		tracing.RoomKey.String(req.Room),
		tracing.IdentityKey.String(req.Identity),
	)
	if h.metrics != nil {
		h.metrics.TokenIssued(time.Since(start))
	}

	c.JSON(http.StatusOK, gin.H{
		"token": grant.Token,
		"url":   grant.URL,
		"room":  grant.Room,
	})
}
