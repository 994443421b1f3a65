package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListParams represents limit/offset parameters for list endpoints.
type ListParams struct {
	Limit  int
	Offset int
}

// GetListParams extracts limit/offset from the request with sane bounds.
func GetListParams(c echo.Context, defaultLimit int) ListParams {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	if limit <= 0 || limit > 200 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	return ListParams{
		Limit:  limit,
		Offset: offset,
	}
}
