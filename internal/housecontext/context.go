// Package housecontext carries the active house and actor through a
// request's context. Handlers resolve both once per request; services only
// ever read them from here, never from any ambient session state.
package housecontext

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type houseKey struct{}
type actorKey struct{}

// Actor is the authenticated person acting on a house.
type Actor struct {
	UserID   snowflake.ID
	MemberID snowflake.ID
	Role     string
}

// WithHouseID stores the active house ID in the context.
func WithHouseID(ctx context.Context, houseID snowflake.ID) context.Context {
	return context.WithValue(ctx, houseKey{}, houseID)
}

// HouseIDFromContext returns the active house ID, if set.
func HouseIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	switch typed := ctx.Value(houseKey{}).(type) {
	case snowflake.ID:
		return typed, typed != 0
	case int64:
		return snowflake.ID(typed), typed != 0
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// WithActor stores the acting member in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting member, if set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok && actor.UserID != 0
}
