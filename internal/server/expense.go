package server

import (
	"net/http"

	expensedomain "github.com/dinetab/messbook/internal/expense/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AddExpenseRequest struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func (s *Server) AddExpense(c *gin.Context) {
	var req AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseDateString(req.Date)
	if err != nil {
		AbortWithError(c, expensedomain.ErrInvalidDate)
		return
	}

	record, err := s.expensesvc.Add(c.Request.Context(), expensedomain.AddExpenseRequest{
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) DeleteExpense(c *gin.Context) {
	recordID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.expensesvc.Delete(c.Request.Context(), expensedomain.DeleteExpenseRequest{
		RecordID: recordID,
	}); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) ListExpenses(c *gin.Context) {
	year, month, err := s.parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.expensesvc.List(c.Request.Context(), expensedomain.ListExpensesRequest{
		Year:     year,
		Month:    month,
		Category: c.Query("category"),
		Page:     page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
