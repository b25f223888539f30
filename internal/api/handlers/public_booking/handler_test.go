package public_booking

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

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	publicBooking "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/public_booking"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/logger"
)

const validBody = `{"startAt": "2025-03-10T09:00:00Z", "durationMinutes": 30, "fullName": "Anna Petrova", "email": "anna@example.com"}`

type fakeUseCase struct {
	got *publicBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *publicBooking.Request) (*publicBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &publicBooking.Response{
		AppointmentID:   31,
		ProviderID:      req.ProviderID,
		PatientID:       77,
		ScheduledAt:     req.StartAt,
		EndsAt:          req.StartAt.Add(30 * time.Minute),
		DurationMinutes: req.DurationMinutes,
		Status:          domain.StatusScheduled,
	}, nil
}

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/public/organizations/{organizationId}/providers/{providerId}/appointments",
		NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/public/organizations/2/providers/6/appointments", strings.NewReader(body)))
	return rec
}

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(uc, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, int64(2), uc.got.OrganizationID)
	assert.Equal(t, int64(6), uc.got.ProviderID)
	assert.Equal(t, "Anna Petrova", uc.got.Visitor.FullName)
	require.NotNil(t, uc.got.Visitor.Email)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, float64(31), body["appointmentId"])
	assert.NotContains(t, body, "patientId")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad body", body: `[]`, wantStatus: http.StatusBadRequest},
		{name: "occupied", body: validBody, err: &scheduling.SlotUnavailableError{Reason: domain.SlotReasonOccupied, ConflictingAppointmentID: 3}, wantStatus: http.StatusConflict},
		{name: "past", body: validBody, err: &scheduling.SlotUnavailableError{Reason: domain.SlotReasonPastTime}, wantStatus: http.StatusUnprocessableEntity},
		{name: "not found", body: validBody, err: publicBooking.ErrProviderNotFound, wantStatus: http.StatusNotFound},
		{name: "disabled", body: validBody, err: publicBooking.ErrPublicBookingDisabled, wantStatus: http.StatusForbidden},
		{name: "contacts", body: validBody, err: publicBooking.ErrInvalidPatientData, wantStatus: http.StatusBadRequest},
		{name: "invalid", body: validBody, err: publicBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", body: validBody, err: errors.New("patient service down"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
