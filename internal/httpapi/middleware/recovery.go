package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/common"
)

func Recovery(lg *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				lg.Error("panic recovered",
					"rid", GetRequestID(c),
					"path", c.Request.URL.Path,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				common.AbortFail(c, http.StatusInternalServerError, "internal error")
			}
		}()
		c.Next()
	}
}
