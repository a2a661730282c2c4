package server

import (
	"net/http"

	depositdomain "github.com/dinetab/messbook/internal/deposit/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AddDepositRequest struct {
	MemberID    string          `json:"member_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func (s *Server) AddDeposit(c *gin.Context) {
	var req AddDepositRequest
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
		AbortWithError(c, depositdomain.ErrInvalidDate)
		return
	}

	record, err := s.depositsvc.Add(c.Request.Context(), depositdomain.AddDepositRequest{
		MemberID:    memberID,
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

func (s *Server) DeleteDeposit(c *gin.Context) {
	recordID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.depositsvc.Delete(c.Request.Context(), depositdomain.DeleteDepositRequest{
		RecordID: recordID,
	}); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) ListDeposits(c *gin.Context) {
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

	resp, err := s.depositsvc.List(c.Request.Context(), depositdomain.ListDepositsRequest{
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
