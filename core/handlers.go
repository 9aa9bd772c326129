package core

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const WelcomeMessage = "Contributions viewer api"

type Handlers interface {
	GetRoot(gctx *gin.Context)
	GetContributions(gctx *gin.Context)
	GetHealth(gctx *gin.Context)
}

type handlers struct {
	engine Engine
}

func NewHandlers(engine Engine) Handlers {
	return &handlers{engine: engine}
}

func (h *handlers) GetRoot(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, gin.H{"message": WelcomeMessage})
}

func (h *handlers) GetContributions(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	body, err := io.ReadAll(gctx.Request.Body)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to read request body")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to read request body", err))

		return
	}

	// GET requests carry the whole query in the url
	if len(body) != 0 {
		log.Ctx(ctx).Error().Msg("request body is not empty")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("request body is not empty"))

		return
	}

	var params QueryParams

	err = gctx.ShouldBindQuery(&params)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind query")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind query", err))

		return
	}

	// Rejected before any filtering work starts; no partial results
	query, err := ParseQuery(params)
	if err != nil {
		var queryErr *QueryError
		if errors.As(err, &queryErr) {
			log.Ctx(ctx).Info().Err(err).Msg("query validation failed")
			gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("query validation failed", queryErr.Errs...))

			return
		}

		log.Ctx(ctx).Error().Err(err).Msg("query parsing failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("query parsing failed", err))

		return
	}

	page, err := h.engine.Search(ctx, query)
	if err != nil {
		if errors.Is(err, ErrStoreClosed) {
			log.Ctx(ctx).Warn().Err(err).Msg("contributions are no longer available")
			gctx.AbortWithStatusJSON(http.StatusServiceUnavailable, NewError("contributions are no longer available", err))

			return
		}

		log.Ctx(ctx).Error().Err(err).Msg("searching contributions failed")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("searching contributions failed", err))

		return
	}

	gctx.JSON(http.StatusOK, page)
}

func (h *handlers) GetHealth(gctx *gin.Context) {
	count, err := h.engine.Count(gctx.Request.Context())
	if err != nil {
		gctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	gctx.JSON(http.StatusOK, gin.H{"status": "ok", "records": count})
}
