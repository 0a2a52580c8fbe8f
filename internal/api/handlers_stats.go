package api

import (
	"net/http"

	"github.com/SO-Ctrix/Node-Packer/internal/store"

	"github.com/gin-gonic/gin"
)

func StatsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := st.Stats(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to fetch stats", err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
