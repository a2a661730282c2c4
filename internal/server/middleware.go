package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/gin-gonic/gin"
)

const (
	// HeaderHouse selects the active house for users in several houses.
	HeaderHouse = "X-House-ID"

	contextUserIDKey = "user_id"
)

// AuthRequired resolves the session cookie into a user id on the gin context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Next()
	}
}

// HouseContext resolves the caller's membership and puts house and actor into
// the request context. The house comes from the :id path param, the
// X-House-ID header, or the user's sole membership, in that order.
func (s *Server) HouseContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := s.currentUserID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		houseID, err := s.resolveHouseID(c, userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		member, err := s.houserepo.FindMemberByUser(c.Request.Context(), s.db, houseID, userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if member == nil || !member.IsActive() {
			AbortWithError(c, ErrForbidden)
			return
		}

		ctx := housecontext.WithHouseID(c.Request.Context(), houseID)
		ctx = housecontext.WithActor(ctx, housecontext.Actor{
			UserID:   userID,
			MemberID: member.ID,
			Role:     member.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireManager gates manager-only operations. Must run after HouseContext.
func (s *Server) RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := housecontext.ActorFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if actor.Role != housedomain.RoleManager {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func (s *Server) currentUserID(c *gin.Context) (snowflake.ID, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok && id != 0
}

func (s *Server) resolveHouseID(c *gin.Context, userID snowflake.ID) (snowflake.ID, error) {
	if raw := strings.TrimSpace(c.Param("id")); raw != "" && c.FullPath() != "" && strings.Contains(c.FullPath(), "/houses/:id") {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return 0, invalidRequestError()
		}
		return id, nil
	}

	if raw := strings.TrimSpace(c.GetHeader(HeaderHouse)); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return 0, invalidRequestError()
		}
		return id, nil
	}

	memberships, err := s.houserepo.ListMembershipsByUser(c.Request.Context(), s.db, userID)
	if err != nil {
		return 0, err
	}
	active := make([]snowflake.ID, 0, len(memberships))
	for _, m := range memberships {
		if m.IsActive() {
			active = append(active, m.HouseID)
		}
	}
	if len(active) != 1 {
		return 0, newValidationError("house", "house_required", "set the X-House-ID header")
	}
	return active[0], nil
}
