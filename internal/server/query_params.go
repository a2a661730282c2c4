package server

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

// parsePeriodParams reads year and month query params, defaulting to the
// current calendar month.
func (s *Server) parsePeriodParams(c *gin.Context) (int, int, error) {
	now := s.clock.Now()
	year, month := now.Year(), int(now.Month())

	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, newValidationError("year", "invalid_year", "invalid value")
		}
		year = parsed
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, newValidationError("month", "invalid_month", "invalid value")
		}
		month = parsed
	}
	return year, month, nil
}

func parsePagination(c *gin.Context) (pagination.Pagination, error) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		return pagination.Pagination{}, invalidRequestError()
	}
	return page, nil
}

func parseIDParam(c *gin.Context, name string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return 0, invalidRequestError()
	}
	return id, nil
}

func parseIDString(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalidRequestError()
	}
	return id, nil
}

func parseOptionalIDQuery(c *gin.Context, name string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, invalidRequestError()
	}
	return id, nil
}
