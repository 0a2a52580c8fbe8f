package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/SO-Ctrix/Node-Packer/internal/models"

	"github.com/gin-gonic/gin"
)

// fail logs err with the request id and answers with a fixed message. The
// error text itself never reaches the client.
func fail(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		log.Printf("[%s] %s: %v", requestID(c), msg, err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// failStore maps store errors to a status. Validation messages are fixed
// strings and are passed through; anything else becomes msg.
func failStore(c *gin.Context, msg string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		fail(c, http.StatusNotFound, "package not found", nil)
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, verr.Error(), nil)
	default:
		fail(c, http.StatusInternalServerError, msg, err)
	}
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func bindPackage(c *gin.Context) (*models.PackageInput, bool) {
	body, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "could not read request body", err)
		return nil, false
	}
	in, err := models.ParseInput(body)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid package payload", err)
		return nil, false
	}
	return in, true
}
