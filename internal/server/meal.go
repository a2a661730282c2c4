package server

import (
	"net/http"
	"time"

	mealdomain "github.com/dinetab/messbook/internal/meal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RecordMealRequest struct {
	MemberID string          `json:"member_id"`
	Date     string          `json:"date"`
	Count    decimal.Decimal `json:"count"`
}

func (s *Server) RecordMeal(c *gin.Context) {
	var req RecordMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	memberID, err := parseIDString(req.MemberID)
	if err != nil {
		AbortWithError(c, newValidationError("member_id", "invalid_member_id", "invalid value"))
		return
	}
	date, err := parseDateString(req.Date)
	if err != nil {
		AbortWithError(c, mealdomain.ErrInvalidDate)
		return
	}

	record, err := s.mealsvc.Record(c.Request.Context(), mealdomain.RecordMealRequest{
		MemberID: memberID,
		Date:     date,
		Count:    req.Count,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) DeleteMeal(c *gin.Context) {
	recordID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.mealsvc.Delete(c.Request.Context(), mealdomain.DeleteMealRequest{
		RecordID: recordID,
	}); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) ListMeals(c *gin.Context) {
	year, month, err := s.parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	memberID, err := parseOptionalIDQuery(c, "member_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.mealsvc.List(c.Request.Context(), mealdomain.ListMealsRequest{
		Year:     year,
		Month:    month,
		MemberID: memberID,
		Page:     page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseDateString(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
