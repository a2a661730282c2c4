package domain

import "errors"

var (
	ErrInvalidHouse    = errors.New("invalid_house")
	ErrInvalidActor    = errors.New("invalid_actor")
	ErrNotFound        = errors.New("house_not_found")
	ErrHouseInactive   = errors.New("house_inactive")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidJoinCode = errors.New("invalid_join_code")
	ErrMemberNotFound  = errors.New("member_not_found")
	ErrAlreadyMember   = errors.New("already_member")
	ErrMemberNotActive = errors.New("member_not_active")
)
