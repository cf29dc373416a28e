package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"txnsense/internal/constants"
	"txnsense/internal/logger"
	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/models"
)

var ErrMessageTooLarge = apperrors.NewError("MESSAGE_TOO_LARGE", "message exceeds the maximum size", http.StatusRequestEntityTooLarge)

// Ingester is the pipeline as seen by the HTTP layer.
type Ingester interface {
	Ingest(ctx context.Context, raw string) (models.NormalizedTransaction, error)
	Preview(ctx context.Context, raw string) (models.NormalizedTransaction, error)
}

type Handler struct {
	service        Ingester
	logger         logger.Logger
	requestTimeout time.Duration
}

func NewHandler(service Ingester, log logger.Logger, requestTimeout time.Duration) *Handler {
	return &Handler{
		service:        service,
		logger:         log,
		requestTimeout: requestTimeout,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		messages := v1.Group("/messages")
		{
			messages.POST("", h.IngestMessage)
			messages.GET("", h.IngestQuery)
			messages.POST("/preview", h.PreviewMessage)
		}
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	} else {
		h.logger.InfowCtx(c.Request.Context(), "Request rejected", "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(status, apperrors.ToErrorResponse(err))
}

// IngestMessage godoc
// @Summary      Ingest a bank notification
// @Description  Accepts a JSON body {"message": "..."} or a raw text body, runs the pipeline and stores the transaction
// @Tags         messages
// @Accept       json,plain
// @Produce      json
// @Param        request  body      IngestRequest  true  "Notification text"
// @Success      201      {object}  TransactionResponse
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      413      {object}  errors.ErrorResponse
// @Failure      500      {object}  errors.ErrorResponse
// @Router       /messages [post]
func (h *Handler) IngestMessage(c *gin.Context) {
	raw, err := readMessage(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.ingest(c, raw)
}

// IngestQuery godoc
// @Summary      Ingest a bank notification from a query parameter
// @Description  Same as POST /messages with the text passed as ?message=
// @Tags         messages
// @Produce      json
// @Param        message  query     string  true  "Notification text"
// @Success      201      {object}  TransactionResponse
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      500      {object}  errors.ErrorResponse
// @Router       /messages [get]
func (h *Handler) IngestQuery(c *gin.Context) {
	raw := c.Query("message")
	if len(raw) > constants.MaxMessageBytes {
		h.handleError(c, ErrMessageTooLarge)
		return
	}
	h.ingest(c, raw)
}

// PreviewMessage godoc
// @Summary      Preview the normalized transaction
// @Description  Runs the pipeline without storing or publishing the result
// @Tags         messages
// @Accept       json,plain
// @Produce      json
// @Param        request  body      IngestRequest  true  "Notification text"
// @Success      200      {object}  TransactionResponse
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      413      {object}  errors.ErrorResponse
// @Router       /messages/preview [post]
func (h *Handler) PreviewMessage(c *gin.Context) {
	raw, err := readMessage(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	tx, err := h.service.Preview(ctx, raw)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTransactionResponse(tx))
}

func (h *Handler) ingest(c *gin.Context, raw string) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	tx, err := h.service.Ingest(ctx, raw)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewTransactionResponse(tx))
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.requestTimeout)
}

// readMessage accepts {"message": "..."} for JSON requests and the body verbatim for
// anything else.
func readMessage(c *gin.Context) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxMessageBytes+1024))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", ErrMessageTooLarge
		}
		return "", apperrors.ErrMalformedInput.WithMessage("failed to read request body").WithCause(err)
	}

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType != "application/json" {
		if len(body) > constants.MaxMessageBytes {
			return "", ErrMessageTooLarge
		}
		return string(body), nil
	}

	var req IngestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", apperrors.ErrMalformedInput.WithMessage("request body must be {\"message\": string}").WithCause(err)
	}
	if len(req.Message) > constants.MaxMessageBytes {
		return "", ErrMessageTooLarge
	}
	return req.Message, nil
}
