package httpserver

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	// maxPage keeps page*limit within an int.
	maxPage = math.MaxInt / maxLimit
)

// pageParams reads the 0-based ?page and ?limit query parameters. Values
// out of range are clamped.
func pageParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	switch {
	case err != nil || page < 0:
		page = 0
	case page > maxPage:
		page = maxPage
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	switch {
	case err != nil || limit < 1:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}
	return page, limit
}
