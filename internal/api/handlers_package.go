package api

import (
	"log"
	"net/http"

	"github.com/SO-Ctrix/Node-Packer/internal/store"

	"github.com/gin-gonic/gin"
)

func CreatePackageHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindPackage(c)
		if !ok {
			return
		}
		p, err := st.Create(c.Request.Context(), in)
		if err != nil {
			failStore(c, "error creating package", err)
			return
		}
		log.Printf("[%s] %s created package %d %s@%s", requestID(c), actor(c), p.ID, p.Name, p.Version)
		c.Redirect(http.StatusSeeOther, "/records")
	}
}

func GetPackageHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("id"))
		if !ok {
			fail(c, http.StatusBadRequest, "invalid id", nil)
			return
		}
		p, err := st.Get(c.Request.Context(), id)
		if err != nil {
			failStore(c, "error fetching package", err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func UpdatePackageHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Param("id"))
		if !ok {
			fail(c, http.StatusBadRequest, "invalid id", nil)
			return
		}
		in, ok := bindPackage(c)
		if !ok {
			return
		}
		p, err := st.Update(c.Request.Context(), id, in)
		if err != nil {
			failStore(c, "error updating package", err)
			return
		}
		log.Printf("[%s] %s updated package %d", requestID(c), actor(c), p.ID)
		c.JSON(http.StatusOK, p)
	}
}
