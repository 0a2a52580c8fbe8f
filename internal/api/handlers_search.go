package api

import (
	"log"
	"net/http"

	"github.com/SO-Ctrix/Node-Packer/internal/store"

	"github.com/gin-gonic/gin"
)

// ListPackagesHandler serves GET /records?search=&category=, newest first.
func ListPackagesHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := store.Filter{
			Search:   c.Query("search"),
			Category: c.Query("category"),
		}
		pkgs, err := st.List(c.Request.Context(), f)
		if err != nil {
			fail(c, http.StatusInternalServerError, "error fetching packages", err)
			return
		}
		c.JSON(http.StatusOK, pkgs)
	}
}

// DeletePackageHandler serves DELETE /records?id=.
func DeletePackageHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("id")
		if raw == "" {
			fail(c, http.StatusBadRequest, "ID is required", nil)
			return
		}
		id, ok := parseID(raw)
		if !ok {
			fail(c, http.StatusBadRequest, "invalid id", nil)
			return
		}
		if err := st.Delete(c.Request.Context(), id); err != nil {
			failStore(c, "error deleting package", err)
			return
		}
		log.Printf("[%s] %s deleted package %d", requestID(c), actor(c), id)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
