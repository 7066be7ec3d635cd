package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mariagaitan/condoflow-backend/api/middleware"
	"github.com/mariagaitan/condoflow-backend/internal/actor"
	"github.com/mariagaitan/condoflow-backend/internal/charges"
	"github.com/mariagaitan/condoflow-backend/internal/scope"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	"github.com/mariagaitan/condoflow-backend/pkg/pagination"
)

type fakeScopeRepo struct {
	tenantID uuid.UUID
	building *models.Building
	unit     *models.Unit
}

func (f *fakeScopeRepo) FindBuilding(_ context.Context, tenantID, buildingID uuid.UUID) (*models.Building, error) {
	if f.building != nil && tenantID == f.tenantID && buildingID == f.building.ID {
		return f.building, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScopeRepo) FindUnit(_ context.Context, tenantID, buildingID, unitID uuid.UUID) (*models.Unit, error) {
	if f.unit != nil && tenantID == f.tenantID && buildingID == f.unit.BuildingID && unitID == f.unit.ID {
		return f.unit, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScopeRepo) FindUnitByID(_ context.Context, tenantID, unitID uuid.UUID) (*models.Unit, error) {
	if f.unit != nil && tenantID == f.tenantID && unitID == f.unit.ID {
		return f.unit, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeOccupancyChecker struct{ allowed bool }

func (f *fakeOccupancyChecker) HasActiveForUser(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (bool, error) {
	return f.allowed, nil
}

type stubChargesService struct {
	charges.Service
	created  *charges.CreateChargeRequest
	lastUnit *models.Unit
	dto      charges.ChargeDTO
}

func (s *stubChargesService) Create(_ context.Context, _ actor.Actor, unit *models.Unit, req charges.CreateChargeRequest) (*charges.ChargeDTO, error) {
	s.created = &req
	s.lastUnit = unit
	return &s.dto, nil
}

func (s *stubChargesService) List(_ context.Context, _ actor.Actor, _ *models.Building, _ charges.ListFilter, _ pagination.Page) ([]charges.ChargeDTO, int64, error) {
	return []charges.ChargeDTO{s.dto}, 1, nil
}

type chargesTestEnv struct {
	tenantID uuid.UUID
	building *models.Building
	unit     *models.Unit
	svc      *stubChargesService
	router   chi.Router
}

func newChargesTestEnv(t *testing.T, act actor.Actor) *chargesTestEnv {
	t.Helper()

	buildingID := uuid.New()
	env := &chargesTestEnv{
		tenantID: act.TenantID,
		building: &models.Building{ID: buildingID, TenantID: act.TenantID},
		unit:     &models.Unit{ID: uuid.New(), TenantID: act.TenantID, BuildingID: buildingID},
	}
	env.svc = &stubChargesService{dto: charges.ChargeDTO{ID: uuid.New(), UnitID: env.unit.ID, BuildingID: buildingID}}

	scopes := scope.NewValidator(
		&fakeScopeRepo{tenantID: act.TenantID, building: env.building, unit: env.unit},
		&fakeOccupancyChecker{allowed: true},
	)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithActor(req.Context(), act)))
		})
	})
	r.Route("/api/v1/buildings/{buildingID}/charges", func(r chi.Router) {
		r.Post("/", ChargeCreate(env.svc, scopes))
		r.Get("/", ChargeList(env.svc, scopes))
	})
	env.router = r
	return env
}

func staffTestActor() actor.Actor {
	return actor.Actor{
		UserID:       uuid.New(),
		TenantID:     uuid.New(),
		MembershipID: uuid.New(),
		Roles:        []enums.MemberRole{enums.MemberRoleAdmin},
	}
}

func TestChargeCreateResolvesUnitAndReturns201(t *testing.T) {
	act := staffTestActor()
	env := newChargesTestEnv(t, act)

	body := fmt.Sprintf(
		`{"unit_id":%q,"type":"maintenance","period":"2026-08","concept":"August fee","amount_cents":60000,"currency":"MXN"}`,
		env.unit.ID,
	)
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/buildings/"+env.building.ID.String()+"/charges",
		strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.NotNil(t, env.svc.created)
	require.Equal(t, int64(60000), env.svc.created.AmountCents)
	require.NotNil(t, env.svc.lastUnit)
	require.Equal(t, env.unit.ID, env.svc.lastUnit.ID)
}

func TestChargeCreateUnknownBuildingIsNotFound(t *testing.T) {
	act := staffTestActor()
	env := newChargesTestEnv(t, act)

	body := fmt.Sprintf(`{"unit_id":%q,"type":"maintenance","period":"2026-08","concept":"x","amount_cents":100,"currency":"MXN"}`, env.unit.ID)
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/buildings/"+uuid.NewString()+"/charges",
		strings.NewReader(body))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Nil(t, env.svc.created)
}

func TestChargeCreateMalformedBuildingIDIsNotFound(t *testing.T) {
	// Malformed ids get the same uniform 404 as missing rows.
	act := staffTestActor()
	env := newChargesTestEnv(t, act)

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/buildings/not-a-uuid/charges",
		strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestChargeListReturnsItemsAndMeta(t *testing.T) {
	act := staffTestActor()
	env := newChargesTestEnv(t, act)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/buildings/"+env.building.ID.String()+"/charges?limit=10", nil)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data struct {
			Items []json.RawMessage `json:"items"`
			Meta  struct {
				Total int64 `json:"total"`
			} `json:"meta"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.Len(t, payload.Data.Items, 1)
	require.Equal(t, int64(1), payload.Data.Meta.Total)
}

func TestChargeCreateWithoutActorIsUnauthorized(t *testing.T) {
	env := newChargesTestEnv(t, staffTestActor())

	scopes := scope.NewValidator(
		&fakeScopeRepo{tenantID: env.tenantID, building: env.building, unit: env.unit},
		&fakeOccupancyChecker{allowed: true},
	)
	r := chi.NewRouter()
	r.Post("/api/v1/buildings/{buildingID}/charges", ChargeCreate(env.svc, scopes))

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/buildings/"+env.building.ID.String()+"/charges",
		strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}
