package handlers

import (
	"github.com/dzyusuf20/voting-appAPI/internal/config"

	"github.com/gin-gonic/gin"
)

var cfg *config.Config

// Init wires the loaded config into the handler package, mirroring how
// the database package exposes its handle.
func Init(c *config.Config) {
	cfg = c
}

func jsonError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
