package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vietanh2810/inventory-api/internal/api/handler/v1/response"
)

// NewHealthcheckHandler pings the database on every call.
//
// @Summary  Health check
// @Tags     health
// @Produce  json
// @Success  200  {object}  response.Health
// @Failure  503  {object}  response.Err
// @Router   / [get]
func NewHealthcheckHandler(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.Request.Context())
		}
		if err != nil {
			response.RenderErr(ctx, response.ErrServiceUnavailable(err))
			return
		}

		ctx.JSON(http.StatusOK, response.Health{Status: "ok"})
	}
}
