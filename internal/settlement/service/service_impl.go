// Package service implements the settlement report computations.
package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	closuredomain "github.com/dinetab/messbook/internal/closure/domain"
	depositdomain "github.com/dinetab/messbook/internal/deposit/domain"
	expensedomain "github.com/dinetab/messbook/internal/expense/domain"
	housedomain "github.com/dinetab/messbook/internal/house/domain"
	"github.com/dinetab/messbook/internal/housecontext"
	mealdomain "github.com/dinetab/messbook/internal/meal/domain"
	"github.com/dinetab/messbook/internal/period"
	"github.com/dinetab/messbook/internal/settlement/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	HouseRepo   housedomain.Repository
	MealRepo    mealdomain.Repository
	ExpenseRepo expensedomain.Repository
	DepositRepo depositdomain.Repository
	ClosureRepo closuredomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	houseRepo   housedomain.Repository
	mealRepo    mealdomain.Repository
	expenseRepo expensedomain.Repository
	depositRepo depositdomain.Repository
	closureRepo closuredomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("settlement.service"),
		houseRepo:   p.HouseRepo,
		mealRepo:    p.MealRepo,
		expenseRepo: p.ExpenseRepo,
		depositRepo: p.DepositRepo,
		closureRepo: p.ClosureRepo,
	}
}

func (s *Service) MonthlyReport(ctx context.Context, req domain.MonthlyReportRequest) (domain.MonthlyReport, error) {
	houseID, month, err := s.resolve(ctx, req.Year, req.Month)
	if err != nil {
		return domain.MonthlyReport{}, err
	}
	from, to := month.Window()

	totalExpenses, err := s.expenseRepo.SumForHouse(ctx, s.db, houseID, from, to)
	if err != nil {
		return domain.MonthlyReport{}, err
	}
	totalMeals, err := s.mealRepo.SumForHouse(ctx, s.db, houseID, from, to)
	if err != nil {
		return domain.MonthlyReport{}, err
	}
	rate := domain.ComputeMealRate(totalExpenses, totalMeals)

	mealsByMember, err := s.mealRepo.SumByMember(ctx, s.db, houseID, from, to)
	if err != nil {
		return domain.MonthlyReport{}, err
	}
	depositsByMember, err := s.depositRepo.SumByMember(ctx, s.db, houseID, from, to)
	if err != nil {
		return domain.MonthlyReport{}, err
	}

	meals := make(map[snowflake.ID]decimal.Decimal, len(mealsByMember))
	for _, sum := range mealsByMember {
		meals[sum.MemberID] = sum.Total
	}
	deposits := make(map[snowflake.ID]decimal.Decimal, len(depositsByMember))
	totalDeposits := decimal.Zero
	for _, sum := range depositsByMember {
		deposits[sum.MemberID] = sum.Total
		totalDeposits = totalDeposits.Add(sum.Total)
	}

	roster, err := s.houseRepo.ListMembers(ctx, s.db, houseID, housedomain.ListMemberFilter{
		Status: housedomain.StatusActive,
	})
	if err != nil {
		return domain.MonthlyReport{}, err
	}

	lines := make([]domain.MemberSettlement, 0, len(roster))
	for _, member := range roster {
		memberMeals := meals[member.ID]
		memberDeposits := deposits[member.ID]
		cost := memberMeals.Mul(rate)
		lines = append(lines, domain.MemberSettlement{
			MemberID: member.ID,
			Name:     member.Name,
			Meals:    memberMeals,
			Deposits: memberDeposits,
			MealCost: cost,
			Balance:  memberDeposits.Sub(cost),
		})
	}

	closure, err := s.closureRepo.Find(ctx, s.db, houseID, month)
	if err != nil {
		return domain.MonthlyReport{}, err
	}

	return domain.MonthlyReport{
		HouseID:       houseID,
		Year:          month.Year,
		Month:         int(month.Month),
		Status:        closuredomain.StatusOf(closure),
		TotalExpenses: totalExpenses,
		TotalMeals:    totalMeals,
		TotalDeposits: totalDeposits,
		MealRate:      rate,
		Members:       lines,
	}, nil
}

func (s *Service) ExpenseBreakdown(ctx context.Context, req domain.ExpenseBreakdownRequest) (domain.ExpenseBreakdown, error) {
	houseID, month, err := s.resolve(ctx, req.Year, req.Month)
	if err != nil {
		return domain.ExpenseBreakdown{}, err
	}
	from, to := month.Window()

	sums, err := s.expenseRepo.SumByCategory(ctx, s.db, houseID, from, to)
	if err != nil {
		return domain.ExpenseBreakdown{}, err
	}
	total, err := s.expenseRepo.SumForHouse(ctx, s.db, houseID, from, to)
	if err != nil {
		return domain.ExpenseBreakdown{}, err
	}

	shares := make([]domain.CategoryShare, 0, len(sums))
	for _, sum := range sums {
		if sum.Total.IsZero() {
			continue
		}
		shares = append(shares, domain.CategoryShare{
			Category: sum.Category,
			Total:    sum.Total,
		})
	}

	return domain.ExpenseBreakdown{
		HouseID:    houseID,
		Year:       month.Year,
		Month:      int(month.Month),
		Categories: shares,
		Total:      total,
	}, nil
}

// resolve pulls the house from context, validates the period and checks the
// house row exists.
func (s *Service) resolve(ctx context.Context, year, monthNum int) (snowflake.ID, period.Month, error) {
	houseID, ok := housecontext.HouseIDFromContext(ctx)
	if !ok {
		return 0, period.Month{}, housedomain.ErrInvalidHouse
	}
	month, err := period.New(year, monthNum)
	if err != nil {
		return 0, period.Month{}, err
	}
	house, err := s.houseRepo.FindHouseByID(ctx, s.db, houseID)
	if err != nil {
		return 0, period.Month{}, err
	}
	if house == nil {
		return 0, period.Month{}, housedomain.ErrNotFound
	}
	return houseID, month, nil
}
