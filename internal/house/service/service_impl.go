package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/dinetab/messbook/internal/clock"
	"github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	"github.com/dinetab/messbook/pkg/db"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const joinCodeBytes = 4

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("house.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CreateHouse(ctx context.Context, req domain.CreateHouseRequest) (domain.House, error) {
	actor, ok := housecontext.ActorFromContext(ctx)
	if !ok {
		return domain.House{}, domain.ErrInvalidActor
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.House{}, domain.ErrInvalidName
	}
	managerName := strings.TrimSpace(req.ManagerName)
	if managerName == "" {
		managerName = name + " manager"
	}

	now := s.clock.Now()
	house := domain.House{
		ID:        s.genID.Generate(),
		Name:      name,
		Active:    true,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	manager := domain.Member{
		ID:        s.genID.Generate(),
		HouseID:   house.ID,
		UserID:    actor.UserID,
		Name:      managerName,
		Role:      domain.RoleManager,
		Status:    domain.StatusActive,
		JoinedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Slug and join code collide rarely; regenerate and retry instead of
	// failing the request.
	var insertErr error
	for attempt := 0; attempt < 3; attempt++ {
		house.Slug = houseSlug(name, house.ID, attempt)
		code, err := newJoinCode()
		if err != nil {
			return domain.House{}, err
		}
		house.JoinCode = code

		insertErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repo.InsertHouse(ctx, tx, &house); err != nil {
				return err
			}
			return s.repo.InsertMember(ctx, tx, &manager)
		})
		if insertErr == nil {
			return house, nil
		}
		if !db.IsDuplicateKeyErr(insertErr) {
			return domain.House{}, insertErr
		}
	}
	return domain.House{}, insertErr
}

func (s *Service) GetHouse(ctx context.Context) (domain.House, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.House{}, domain.ErrInvalidHouse
	}

	house, err := s.repo.FindHouseByID(ctx, s.db, houseID)
	if err != nil {
		return domain.House{}, err
	}
	if house == nil {
		return domain.House{}, domain.ErrNotFound
	}
	return *house, nil
}

func (s *Service) JoinHouse(ctx context.Context, req domain.JoinHouseRequest) (domain.Member, error) {
	actor, ok := housecontext.ActorFromContext(ctx)
	if !ok {
		return domain.Member{}, domain.ErrInvalidActor
	}

	joinCode := strings.ToUpper(strings.TrimSpace(req.JoinCode))
	if joinCode == "" {
		return domain.Member{}, domain.ErrInvalidJoinCode
	}
	memberName := strings.TrimSpace(req.MemberName)
	if memberName == "" {
		return domain.Member{}, domain.ErrInvalidName
	}

	house, err := s.repo.FindHouseByJoinCode(ctx, s.db, joinCode)
	if err != nil {
		return domain.Member{}, err
	}
	if house == nil {
		return domain.Member{}, domain.ErrInvalidJoinCode
	}
	if !house.Active {
		return domain.Member{}, domain.ErrHouseInactive
	}

	existing, err := s.repo.FindMemberByUser(ctx, s.db, house.ID, actor.UserID)
	if err != nil {
		return domain.Member{}, err
	}
	if existing != nil {
		return domain.Member{}, domain.ErrAlreadyMember
	}

	now := s.clock.Now()
	member := domain.Member{
		ID:        s.genID.Generate(),
		HouseID:   house.ID,
		UserID:    actor.UserID,
		Name:      memberName,
		Role:      domain.RoleMember,
		Status:    domain.StatusActive,
		JoinedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertMember(ctx, s.db, &member); err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

func (s *Service) AddMember(ctx context.Context, req domain.AddMemberRequest) (domain.Member, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return domain.Member{}, domain.ErrInvalidHouse
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Member{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	member := domain.Member{
		ID:        s.genID.Generate(),
		HouseID:   houseID,
		Name:      name,
		Role:      domain.RoleMember,
		Status:    domain.StatusActive,
		JoinedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertMember(ctx, s.db, &member); err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context, req domain.ListMembersRequest) ([]domain.Member, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidHouse
	}

	items, err := s.repo.ListMembers(ctx, s.db, houseID, domain.ListMemberFilter{
		Status: strings.TrimSpace(req.Status),
		Role:   strings.TrimSpace(req.Role),
	})
	if err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(items))
	for _, item := range items {
		if item != nil {
			members = append(members, *item)
		}
	}
	return members, nil
}

// RemoveMember deactivates members that have meal or deposit history and
// hard-deletes members that have none, so settled months keep their roster.
func (s *Service) RemoveMember(ctx context.Context, req domain.RemoveMemberRequest) (domain.RemoveOutcome, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return "", domain.ErrInvalidHouse
	}

	var outcome domain.RemoveOutcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.repo.FindMemberByID(ctx, tx, houseID, req.MemberID)
		if err != nil {
			return err
		}
		if member == nil {
			return domain.ErrMemberNotFound
		}

		hasHistory, err := s.repo.MemberHasHistory(ctx, tx, houseID, member.ID)
		if err != nil {
			return err
		}
		if hasHistory {
			outcome = domain.RemoveOutcomeDeactivated
			return s.repo.UpdateMemberStatus(ctx, tx, houseID, member.ID, domain.StatusInactive)
		}
		outcome = domain.RemoveOutcomeDeleted
		return s.repo.DeleteMember(ctx, tx, houseID, member.ID)
	})
	if err != nil {
		return "", err
	}

	s.log.Info("member removed",
		zap.String("house_id", houseID.String()),
		zap.String("member_id", req.MemberID.String()),
		zap.String("outcome", string(outcome)),
	)
	return outcome, nil
}

func (s *Service) MembershipsForUser(ctx context.Context, userID snowflake.ID) ([]domain.Member, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidActor
	}
	items, err := s.repo.ListMembershipsByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(items))
	for _, item := range items {
		if item != nil {
			members = append(members, *item)
		}
	}
	return members, nil
}

func houseSlug(name string, id snowflake.ID, attempt int) string {
	base := slug.Make(name)
	if base == "" {
		base = "house"
	}
	if attempt == 0 {
		return base
	}
	suffix := id.String()
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return fmt.Sprintf("%s-%s", base, suffix)
}

func newJoinCode() (string, error) {
	buf := make([]byte, joinCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
