package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateHouseRequest struct {
	Name        string
	ManagerName string
}

type JoinHouseRequest struct {
	JoinCode   string
	MemberName string
}

type AddMemberRequest struct {
	Name string
}

type ListMembersRequest struct {
	Status string
	Role   string
}

type RemoveMemberRequest struct {
	MemberID snowflake.ID
}

// RemoveOutcome says how a member removal was resolved: members with meal
// or deposit history are deactivated, members without are deleted outright.
type RemoveOutcome string

const (
	RemoveOutcomeDeleted     RemoveOutcome = "deleted"
	RemoveOutcomeDeactivated RemoveOutcome = "deactivated"
)

type Service interface {
	CreateHouse(ctx context.Context, req CreateHouseRequest) (House, error)
	GetHouse(ctx context.Context) (House, error)
	JoinHouse(ctx context.Context, req JoinHouseRequest) (Member, error)
	AddMember(ctx context.Context, req AddMemberRequest) (Member, error)
	ListMembers(ctx context.Context, req ListMembersRequest) ([]Member, error)
	RemoveMember(ctx context.Context, req RemoveMemberRequest) (RemoveOutcome, error)
	MembershipsForUser(ctx context.Context, userID snowflake.ID) ([]Member, error)
}
