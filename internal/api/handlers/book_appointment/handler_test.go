package book_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/middleware"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	bookAppointment "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/book_appointment"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/logger"
)

const validBody = `{"patientId": 9, "startAt": "2025-03-10T09:00:00Z", "durationMinutes": 60}`

type fakeUseCase struct {
	got *bookAppointment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *bookAppointment.Request) (*bookAppointment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &bookAppointment.Response{
		ID:              100,
		ProviderID:      req.ProviderID,
		PatientID:       req.PatientID,
		ScheduledAt:     req.StartAt,
		EndsAt:          req.StartAt.Add(time.Duration(req.DurationMinutes) * time.Minute),
		DurationMinutes: req.DurationMinutes,
		Status:          domain.StatusScheduled,
		Source:          req.Source,
	}, nil
}

func serve(uc *fakeUseCase, userID, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/providers/{providerId}/appointments", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/providers/4/appointments", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, userID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(uc, "4", validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, int64(4), uc.got.ProviderID)
	assert.Equal(t, domain.SourceProvider, uc.got.Source)

	var body AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(100), body.ID)
	assert.Equal(t, "scheduled", body.Status)
	assert.Equal(t, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), body.EndsAt.UTC())
}

func TestHandle_OtherProviderForbidden(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(uc, "5", validBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_Occupied(t *testing.T) {
	rec := serve(&fakeUseCase{err: &scheduling.SlotUnavailableError{Reason: domain.SlotReasonOccupied, ConflictingAppointmentID: 7}}, "4", validBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body handlers.SlotUnavailableResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "occupied", body.Reason)
	require.NotNil(t, body.ConflictingAppointmentID)
	assert.Equal(t, int64(7), *body.ConflictingAppointmentID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad body", body: `{"patientId":`, wantStatus: http.StatusBadRequest},
		{name: "past", body: validBody, err: &scheduling.SlotUnavailableError{Reason: domain.SlotReasonPastTime}, wantStatus: http.StatusUnprocessableEntity},
		{name: "blocked", body: validBody, err: &scheduling.SlotUnavailableError{Reason: domain.SlotReasonBlocked, BlockTitle: "x"}, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid", body: validBody, err: bookAppointment.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "patient missing", body: validBody, err: bookAppointment.ErrPatientNotFound, wantStatus: http.StatusNotFound},
		{name: "mismatch", body: validBody, err: bookAppointment.ErrPatientOrganizationMismatch, wantStatus: http.StatusUnprocessableEntity},
		{name: "internal", body: validBody, err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, "4", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
