package server

import (
	"net/http"

	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/gin-gonic/gin"
)

type CreateHouseRequest struct {
	Name        string `json:"name"`
	ManagerName string `json:"manager_name"`
}

type JoinHouseRequest struct {
	JoinCode   string `json:"join_code"`
	MemberName string `json:"member_name"`
}

type AddMemberRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateHouse(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := housecontext.WithActor(c.Request.Context(), housecontext.Actor{UserID: userID})
	house, err := s.housesvc.CreateHouse(ctx, housedomain.CreateHouseRequest{
		Name:        req.Name,
		ManagerName: req.ManagerName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, house)
}

func (s *Server) JoinHouse(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req JoinHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := housecontext.WithActor(c.Request.Context(), housecontext.Actor{UserID: userID})
	member, err := s.housesvc.JoinHouse(ctx, housedomain.JoinHouseRequest{
		JoinCode:   req.JoinCode,
		MemberName: req.MemberName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (s *Server) MyHouses(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	memberships, err := s.housesvc.MembershipsForUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

func (s *Server) GetHouse(c *gin.Context) {
	house, err := s.housesvc.GetHouse(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, house)
}

func (s *Server) ListMembers(c *gin.Context) {
	members, err := s.housesvc.ListMembers(c.Request.Context(), housedomain.ListMembersRequest{
		Status: c.Query("status"),
		Role:   c.Query("role"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (s *Server) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.housesvc.AddMember(c.Request.Context(), housedomain.AddMemberRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (s *Server) RemoveMember(c *gin.Context) {
	memberID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	outcome, err := s.housesvc.RemoveMember(c.Request.Context(), housedomain.RemoveMemberRequest{
		MemberID: memberID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}
