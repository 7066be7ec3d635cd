package scope

import (
	"context"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/internal/actor"
	dbpkg "github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
)

type occupancyChecker interface {
	HasActiveForUser(ctx context.Context, tenantID, userID, unitID uuid.UUID) (bool, error)
}

// Validator resolves buildings and units for an actor. Anything outside
// the actor's tenant, or outside a resident's occupied units, resolves
// to the same not-found error so callers cannot probe for existence.
type Validator struct {
	repo        Repository
	occupancies occupancyChecker
}

// NewValidator builds a scope validator.
func NewValidator(repo Repository, occupancies occupancyChecker) *Validator {
	return &Validator{repo: repo, occupancies: occupancies}
}

// ErrNotFound is returned for every scope failure, regardless of cause.
func ErrNotFound() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
}

// ResolveBuilding loads a building visible to the actor.
func (v *Validator) ResolveBuilding(ctx context.Context, act actor.Actor, buildingID uuid.UUID) (*models.Building, error) {
	b, err := v.repo.FindBuilding(ctx, act.TenantID, buildingID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, ErrNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading building")
	}
	return b, nil
}

// ResolveUnit loads a unit visible to the actor. Staff see every unit
// in their tenant; residents and owners only units they actively hold.
func (v *Validator) ResolveUnit(ctx context.Context, act actor.Actor, buildingID, unitID uuid.UUID) (*models.Unit, error) {
	u, err := v.repo.FindUnit(ctx, act.TenantID, buildingID, unitID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, ErrNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading unit")
	}
	return v.checkUnitAccess(ctx, act, u)
}

// ResolveUnitByID is ResolveUnit for routes that carry no building,
// such as the per-unit ledger.
func (v *Validator) ResolveUnitByID(ctx context.Context, act actor.Actor, unitID uuid.UUID) (*models.Unit, error) {
	u, err := v.repo.FindUnitByID(ctx, act.TenantID, unitID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, ErrNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading unit")
	}
	return v.checkUnitAccess(ctx, act, u)
}

func (v *Validator) checkUnitAccess(ctx context.Context, act actor.Actor, u *models.Unit) (*models.Unit, error) {
	if act.IsStaff() {
		return u, nil
	}

	ok, err := v.occupancies.HasActiveForUser(ctx, act.TenantID, act.UserID, u.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking occupancy")
	}
	if !ok {
		return nil, ErrNotFound()
	}
	return u, nil
}
