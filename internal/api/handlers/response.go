package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
)

const (
	msgInternalError   = "внутренняя ошибка сервера"
	msgTooManyRequests = "слишком много запросов, попробуйте позже"

	msgSlotPastTime       = "выбранное время уже прошло"
	msgSlotNoAvailability = "специалист не принимает в выбранное время"
	msgSlotBlocked        = "выбранное время заблокировано"
	msgSlotOccupied       = "выбранный временной слот уже занят"
)

// ErrInvalidID возвращается для нечислового или неположительного ID в пути
var ErrInvalidID = errors.New("handlers: invalid id")

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SlotUnavailableResponse тело ответа для недоступного слота
type SlotUnavailableResponse struct {
	Code                     int    `json:"code"`
	Message                  string `json:"message"`
	Reason                   string `json:"reason"`
	BlockTitle               string `json:"blockTitle,omitempty"`
	ConflictingAppointmentID *int64 `json:"conflictingAppointmentId,omitempty"`
}

// DecodeJSON декодирует тело запроса
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// PathID извлекает положительный ID из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidID, name, raw)
	}
	return id, nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondUnprocessable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnprocessableEntity, message)
}

func RespondTooManyRequests(w http.ResponseWriter) {
	RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondSlotUnavailable отвечает на недоступный слот.
// occupied - 409 (конфликт с другой записью), остальные причины - 422.
// Возвращает false, если err не является *scheduling.SlotUnavailableError.
func RespondSlotUnavailable(w http.ResponseWriter, err error) bool {
	var unavailable *scheduling.SlotUnavailableError
	if !errors.As(err, &unavailable) {
		return false
	}

	resp := SlotUnavailableResponse{
		Code:    http.StatusUnprocessableEntity,
		Message: SlotReasonMessage(unavailable.Reason),
		Reason:  string(unavailable.Reason),
	}
	switch unavailable.Reason {
	case domain.SlotReasonBlocked:
		resp.BlockTitle = unavailable.BlockTitle
	case domain.SlotReasonOccupied:
		resp.Code = http.StatusConflict
		if unavailable.ConflictingAppointmentID > 0 {
			id := unavailable.ConflictingAppointmentID
			resp.ConflictingAppointmentID = &id
		}
	}

	RespondJSON(w, resp.Code, resp)
	return true
}

// SlotReasonMessage текст для пользователя по причине недоступности слота
func SlotReasonMessage(reason domain.SlotReason) string {
	switch reason {
	case domain.SlotReasonPastTime:
		return msgSlotPastTime
	case domain.SlotReasonNoAvailability:
		return msgSlotNoAvailability
	case domain.SlotReasonBlocked:
		return msgSlotBlocked
	case domain.SlotReasonOccupied:
		return msgSlotOccupied
	default:
		return ""
	}
}
