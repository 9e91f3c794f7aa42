package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/middleware"
	"github.com/ttc-bicumbi/portal/internal/models"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

func identityFromContext(c *gin.Context) (models.Identity, error) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return models.Identity{}, appErrors.ErrUnauthorized
	}
	return identity, nil
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer"), "field", "id")
	}
	return id, nil
}

func bindError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
}

// withCacheMeta merges the response meta collected by middleware.WithResponseMeta.
func withCacheMeta(c *gin.Context, hit bool) map[string]interface{} {
	middleware.SetCacheHit(c, hit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{"cache_hit": hit}
	}
	return meta
}
