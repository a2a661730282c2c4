// Package seed bootstraps a default admin user and demo house so a fresh
// self-hosted install is usable without manual setup.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/dinetab/messbook/internal/auth/domain"
	"github.com/dinetab/messbook/internal/auth/password"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"gorm.io/gorm"
)

const (
	demoHouseName     = "Demo House"
	demoHouseSlug     = "demo-house"
	demoHouseJoinCode = "DEMO1234"

	defaultAdminEmail    = "admin@messbook.local"
	defaultAdminPassword = "changeme"
	defaultAdminDisplay  = "Messbook Admin"
)

// EnsureDemoHouse seeds the default admin user and a demo house with the
// admin as its manager. Safe to run on every startup.
func EnsureDemoHouse(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ensureAdminUserTx(ctx, tx, node)
		if err != nil {
			return err
		}

		house, err := ensureDemoHouseTx(ctx, tx, node)
		if err != nil {
			return err
		}

		var member housedomain.Member
		err = tx.WithContext(ctx).
			Where("house_id = ? AND user_id = ?", house.ID, user.ID).
			First(&member).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		member = housedomain.Member{
			ID:        node.Generate(),
			HouseID:   house.ID,
			UserID:    user.ID,
			Name:      user.DisplayName,
			Role:      housedomain.RoleManager,
			Status:    housedomain.StatusActive,
			JoinedAt:  now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.WithContext(ctx).Create(&member).Error
	})
}

func ensureAdminUserTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (authdomain.User, error) {
	var user authdomain.User
	err := tx.WithContext(ctx).Where("email = ?", defaultAdminEmail).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, err
	}

	hashed, err := password.Hash(defaultAdminPassword)
	if err != nil {
		return user, err
	}

	now := time.Now().UTC()
	user = authdomain.User{
		ID:           node.Generate(),
		ExternalID:   defaultAdminEmail,
		DisplayName:  defaultAdminDisplay,
		Email:        strings.ToLower(defaultAdminEmail),
		PasswordHash: &hashed,
		IsDefault:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func ensureDemoHouseTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (housedomain.House, error) {
	var house housedomain.House
	err := tx.WithContext(ctx).Where("slug = ?", demoHouseSlug).First(&house).Error
	if err == nil {
		return house, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return house, err
	}

	now := time.Now().UTC()
	house = housedomain.House{
		ID:        node.Generate(),
		Name:      demoHouseName,
		Slug:      demoHouseSlug,
		JoinCode:  demoHouseJoinCode,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&house).Error; err != nil {
		return house, err
	}
	return house, nil
}
