package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
	"github.com/yungbote/brandcopilot-backend/internal/ai/prompt"
	"github.com/yungbote/brandcopilot-backend/internal/http/response"
	"github.com/yungbote/brandcopilot-backend/internal/platform/apierr"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

// classify maps a service or model error to its HTTP status and code.
// Content policy rejections keep their own code so clients can tell them
// apart from retryable failures.
func classify(err error) *apierr.Error {
	var (
		modelErr    *aierr.ModelError
		analysisErr *aierr.AnalysisError
		argErr      *aierr.ArgumentError
		svcErr      *aierr.ServiceError
	)
	switch {
	case errors.As(err, &modelErr):
		switch modelErr.Kind {
		case aierr.ContentBlocked:
			return apierr.New(http.StatusUnprocessableEntity, "content_policy_rejected", err)
		case aierr.Throttled:
			return apierr.New(http.StatusTooManyRequests, "model_throttled", err)
		default:
			return apierr.New(http.StatusServiceUnavailable, "model_unavailable", err)
		}
	case errors.As(err, &argErr):
		return apierr.New(http.StatusBadRequest, argErr.Kind.String(), err)
	case errors.As(err, &analysisErr):
		switch analysisErr.Kind {
		case aierr.UnsupportedFormat:
			return apierr.New(http.StatusUnprocessableEntity, "unsupported_format", err)
		case aierr.ServiceFailure:
			return apierr.New(http.StatusServiceUnavailable, "analysis_unavailable", err)
		}
	case errors.As(err, &svcErr):
		return apierr.New(http.StatusServiceUnavailable, "image_service_unavailable", err)
	case errors.Is(err, prompt.ErrBlockedPrompt):
		return apierr.New(http.StatusUnprocessableEntity, "prompt_rejected", err)
	case errors.Is(err, services.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, services.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrForbidden):
		return apierr.New(http.StatusForbidden, "forbidden", err)
	case errors.Is(err, services.ErrDuplicateDocument):
		return apierr.New(http.StatusConflict, "duplicate_document", err)
	case errors.Is(err, services.ErrToneLocked):
		return apierr.New(http.StatusConflict, "tone_locked", err)
	}
	return apierr.New(http.StatusInternalServerError, "internal_error", err)
}

func respondServiceError(c *gin.Context, log *logger.Logger, op string, err error) {
	ae := classify(err)
	if ae.Status >= http.StatusInternalServerError {
		log.Error(op+" failed", "error", err, "code", ae.Code)
	} else {
		log.Warn(op+" rejected", "error", err, "code", ae.Code)
	}
	_ = c.Error(err)
	msg := err
	if ae.Status == http.StatusInternalServerError {
		msg = errors.New("internal server error")
	}
	response.RespondError(c, ae.Status, ae.Code, msg)
}
