package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jiahaoliu/minimall-backend/api/responses"
	"github.com/jiahaoliu/minimall-backend/api/validators"
	"github.com/jiahaoliu/minimall-backend/internal/commission"
	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
)

type applySalePayload struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// CommissionTiers lists the published commission bands. Public.
func CommissionTiers(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commission service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Tiers(ctx))
	}
}

// CommissionLedger returns a store's ledger. Admin only.
func CommissionLedger(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commission service unavailable"))
			return
		}

		storeID, err := uuid.Parse(chi.URLParam(r, "storeId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		ledger, err := svc.GetLedger(ctx, storeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ledger)
	}
}

// CommissionApplySale settles a sale against a store's ledger. Admin only.
func CommissionApplySale(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commission service unavailable"))
			return
		}

		storeID, err := uuid.Parse(chi.URLParam(r, "storeId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		var payload applySalePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ApplySale(ctx, storeID, payload.Amount)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
