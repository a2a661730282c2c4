package server

import (
	"net/http"

	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	settlementdomain "github.com/dinetab/messbook/internal/settlement/domain"
	"github.com/gin-gonic/gin"
)

type CloseMonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (s *Server) MonthlyReport(c *gin.Context) {
	year, month, err := s.parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.settlementsvc.MonthlyReport(c.Request.Context(), settlementdomain.MonthlyReportRequest{
		Year:  year,
		Month: month,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) ExpenseBreakdown(c *gin.Context) {
	year, month, err := s.parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	breakdown, err := s.settlementsvc.ExpenseBreakdown(c.Request.Context(), settlementdomain.ExpenseBreakdownRequest{
		Year:  year,
		Month: month,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (s *Server) MonthStatus(c *gin.Context) {
	year, month, err := s.parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status, err := s.closuresvc.MonthStatus(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) CloseMonth(c *gin.Context) {
	var req CloseMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.closuresvc.CloseMonth(c.Request.Context(), closuredomain.CloseMonthRequest{
		Year:  req.Year,
		Month: req.Month,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
