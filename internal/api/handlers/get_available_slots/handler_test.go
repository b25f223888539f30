package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/logger"
)

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func newRouter(uc *fakeUseCase) *mux.Router {
	h := NewHandler(uc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/providers/{providerId}/available-slots", h.Handle)
	r.HandleFunc("/public/organizations/{organizationId}/providers/{providerId}/available-slots", h.Handle)
	return r
}

func TestHandle(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	start := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		ProviderID:      5,
		Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Timezone:        "UTC+3",
		Location:        loc,
		HasAvailability: true,
		Slots: []domain.Slot{
			{Start: start, End: start.Add(time.Hour), DurationMinutes: 60, Available: true},
			{Start: start.Add(30 * time.Minute), End: start.Add(90 * time.Minute), DurationMinutes: 60, Reason: domain.SlotReasonBlocked, BlockTitle: "Lunch"},
		},
	}}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/providers/5/available-slots?date=2025-03-10&duration=60", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(5), uc.got.ProviderID)
	assert.Zero(t, uc.got.OrganizationID)
	assert.Equal(t, 60, uc.got.DurationMinutes)

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Slots, 2)
	assert.Equal(t, "09:00", body.Slots[0].LocalTime)
	assert.True(t, body.Slots[0].Available)
	assert.Equal(t, "blocked", body.Slots[1].Reason)
	assert.Equal(t, "Lunch", body.Slots[1].BlockTitle)
}

func TestHandle_PublicHidesBlockTitles(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Slots: []domain.Slot{{Start: start, End: start.Add(time.Hour), Reason: domain.SlotReasonBlocked, BlockTitle: "Vacation"}},
	}}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/public/organizations/2/providers/5/available-slots?date=2025-03-10&duration=60", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), uc.got.OrganizationID)

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Slots, 1)
	assert.Empty(t, body.Slots[0].BlockTitle)
	assert.Equal(t, "blocked", body.Slots[0].Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		err        error
		wantStatus int
	}{
		{name: "bad provider", url: "/providers/x/available-slots?date=2025-03-10&duration=60", wantStatus: http.StatusBadRequest},
		{name: "missing date", url: "/providers/5/available-slots?duration=60", wantStatus: http.StatusBadRequest},
		{name: "bad date", url: "/providers/5/available-slots?date=10.03.2025&duration=60", wantStatus: http.StatusBadRequest},
		{name: "missing duration", url: "/providers/5/available-slots?date=2025-03-10", wantStatus: http.StatusBadRequest},
		{name: "not offered", url: "/providers/5/available-slots?date=2025-03-10&duration=50", err: getAvailableSlots.ErrDurationNotOffered, wantStatus: http.StatusBadRequest},
		{name: "not found", url: "/providers/5/available-slots?date=2025-03-10&duration=60", err: getAvailableSlots.ErrProviderNotFound, wantStatus: http.StatusNotFound},
		{name: "public disabled", url: "/public/organizations/1/providers/5/available-slots?date=2025-03-10&duration=60", err: getAvailableSlots.ErrPublicBookingDisabled, wantStatus: http.StatusForbidden},
		{name: "internal", url: "/providers/5/available-slots?date=2025-03-10&duration=60", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(&fakeUseCase{err: tt.err}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
