package merchants

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/internal/commission"
	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/enums"
	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
	"github.com/jiahaoliu/minimall-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines merchant onboarding operations.
type Service interface {
	Apply(ctx context.Context, input ApplyInput) (*models.MerchantApplication, error)
	GetMyApplication(ctx context.Context, userID uuid.UUID) (*models.MerchantApplication, error)
	Review(ctx context.Context, input ReviewInput) (*ReviewResult, error)
	ListPending(ctx context.Context, params pagination.Params) (*ApplicationsPageDTO, error)
	GetMerchantInfo(ctx context.Context, userID uuid.UUID) (*MerchantInfoDTO, error)
	RemainingEarlyAdopterSlots(ctx context.Context) (*SlotsDTO, error)
}

// ServiceParams groups dependencies for the merchants service.
type ServiceParams struct {
	Repo           Repository
	CommissionRepo commission.Repository
	DB             txRunner
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	repo           Repository
	commissionRepo commission.Repository
	db             txRunner
	logg           *logger.Logger
	now            func() time.Time
}

// NewService builds a merchants service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchants repo is required")
	}
	if params.CommissionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission repo is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:           params.Repo,
		commissionRepo: params.CommissionRepo,
		db:             params.DB,
		logg:           params.Logger,
		now:            now,
	}, nil
}

// Apply files a merchant application for a user who does not yet own a store
// and has no application already waiting for review.
func (s *service) Apply(ctx context.Context, input ApplyInput) (*models.MerchantApplication, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	if _, err := s.repo.FindStoreByOwnerID(ctx, input.UserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "user already owns a store")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	pending, err := s.repo.HasPendingApplication(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending applications")
	}
	if pending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an application is already under review")
	}

	application := applicationFromInput(input)
	if err := s.repo.CreateApplication(ctx, application); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"application_id": application.ID,
		"user_id":        input.UserID,
	}), "merchant application submitted")
	return application, nil
}

// GetMyApplication returns the user's most recent application.
func (s *service) GetMyApplication(ctx context.Context, userID uuid.UUID) (*models.MerchantApplication, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	application, err := s.repo.FindLatestApplicationByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	return application, nil
}

// Review settles a pending application. Approval opens the store, claims an
// early-adopter slot when one is still free, and seeds the commission ledger,
// all in one transaction.
func (s *service) Review(ctx context.Context, input ReviewInput) (*ReviewResult, error) {
	if input.ApplicationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id is required")
	}
	if input.ReviewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewer id is required")
	}
	if !input.Approve && strings.TrimSpace(input.RejectReason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reject reason is required")
	}

	var result *ReviewResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		application, err := repo.FindApplicationByID(ctx, input.ApplicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "application not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
		}
		if application.Status != enums.ApplicationStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "application has already been reviewed")
		}

		now := s.now()
		if !input.Approve {
			reason := strings.TrimSpace(input.RejectReason)
			columns := map[string]any{
				"status":        enums.ApplicationStatusRejected,
				"reviewed_by":   input.ReviewerID,
				"reviewed_at":   now,
				"reject_reason": reason,
			}
			if err := repo.UpdateApplication(ctx, application, columns); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
			}
			application.Status = enums.ApplicationStatusRejected
			application.ReviewedBy = &input.ReviewerID
			application.ReviewedAt = &now
			application.RejectReason = &reason
			result = &ReviewResult{Application: application}
			return nil
		}

		approved, err := s.approve(ctx, repo, application, input.ReviewerID, now)
		if err != nil {
			return err
		}
		result = approved
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"application_id": input.ApplicationID,
		"reviewer_id":    input.ReviewerID,
		"approved":       input.Approve,
	}), "merchant application reviewed")
	return result, nil
}

func (s *service) approve(ctx context.Context, repo Repository, application *models.MerchantApplication, reviewerID uuid.UUID, now time.Time) (*ReviewResult, error) {
	if _, err := repo.FindStoreByOwnerID(ctx, application.UserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "applicant already owns a store")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	store := &models.Store{
		Name:    application.StoreName,
		OwnerID: application.UserID,
		Address: application.StoreAddress,
		Phone:   &application.ContactPhone,
		Rating:  decimal.Zero,
		Status:  enums.StoreStatusActive,
	}
	if err := repo.CreateStore(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}

	claimed, err := repo.ClaimEarlyAdopterSlot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim early adopter slot")
	}

	ledger := &models.MerchantLedger{
		StoreID:               store.ID,
		UserID:                application.UserID,
		IsEarlyAdopter:        claimed,
		CommissionRatePercent: commission.ResolveRate(decimal.Zero, false, nil, now),
		MonthSales:            decimal.Zero,
		TotalSales:            decimal.Zero,
		TotalCommission:       decimal.Zero,
		Balance:               decimal.Zero,
		FrozenBalance:         decimal.Zero,
		Deposit:               decimal.Zero,
	}
	if claimed {
		expiry := now.AddDate(0, commission.EarlyAdopterFreeMonths, 0)
		ledger.EarlyAdopterExpiresAt = &expiry
		ledger.CommissionRatePercent = commission.ResolveRate(decimal.Zero, true, &expiry, now)
	}
	if err := repo.CreateLedger(ctx, ledger); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create merchant ledger")
	}

	columns := map[string]any{
		"status":      enums.ApplicationStatusApproved,
		"reviewed_by": reviewerID,
		"reviewed_at": now,
	}
	if err := repo.UpdateApplication(ctx, application, columns); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
	}
	application.Status = enums.ApplicationStatusApproved
	application.ReviewedBy = &reviewerID
	application.ReviewedAt = &now

	return &ReviewResult{
		Application:  application,
		Store:        store,
		EarlyAdopter: claimed,
	}, nil
}

// ListPending returns the admin review queue, oldest first.
func (s *service) ListPending(ctx context.Context, params pagination.Params) (*ApplicationsPageDTO, error) {
	normalized := params.Normalize()
	items, err := s.repo.ListApplicationsByStatus(ctx, enums.ApplicationStatusPending, normalized.Offset(), normalized.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	total, err := s.repo.CountApplicationsByStatus(ctx, enums.ApplicationStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count applications")
	}
	return &ApplicationsPageDTO{
		Items:      items,
		Pagination: pagination.NewMeta(normalized, total),
	}, nil
}

// GetMerchantInfo returns the store and ledger view for a merchant user.
func (s *service) GetMerchantInfo(ctx context.Context, userID uuid.UUID) (*MerchantInfoDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	store, err := s.repo.FindStoreByOwnerID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	ledger, err := s.commissionRepo.FindLedgerByStoreID(ctx, store.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "merchant ledger not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant ledger")
	}

	return &MerchantInfoDTO{
		Store:                 store,
		CommissionRatePercent: ledger.CommissionRatePercent,
		IsEarlyAdopter:        ledger.IsEarlyAdopter,
		EarlyAdopterExpiresAt: ledger.EarlyAdopterExpiresAt,
		MonthSales:            ledger.MonthSales,
		TotalSales:            ledger.TotalSales,
		TotalCommission:       ledger.TotalCommission,
		Balance:               ledger.Balance,
		FrozenBalance:         ledger.FrozenBalance,
		Deposit:               ledger.Deposit,
	}, nil
}

// RemainingEarlyAdopterSlots reports how much of the early-adopter pool is left.
func (s *service) RemainingEarlyAdopterSlots(ctx context.Context) (*SlotsDTO, error) {
	slots, err := s.repo.GetEarlyAdopterSlots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load early adopter slots")
	}
	remaining := slots.Capacity - slots.Claimed
	if remaining < 0 {
		remaining = 0
	}
	return &SlotsDTO{
		Capacity:  slots.Capacity,
		Claimed:   slots.Claimed,
		Remaining: remaining,
	}, nil
}
