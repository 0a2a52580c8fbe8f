package api

import (
	"github.com/SO-Ctrix/Node-Packer/internal/store"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the package routes. With an empty signingKey the write
// routes are open.
func SetupRouter(st *store.Store, signingKey []byte) *gin.Engine {
	r := gin.Default()
	r.Use(RequestID())

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	write := RequireWrite(signingKey)

	// packages
	r.GET("/records", ListPackagesHandler(st))
	r.POST("/records", write, CreatePackageHandler(st))
	r.DELETE("/records", write, DeletePackageHandler(st))
	r.GET("/records/:id", GetPackageHandler(st))
	r.PATCH("/records/:id", write, UpdatePackageHandler(st))

	// stats
	r.GET("/stats", StatsHandler(st))

	return r
}
