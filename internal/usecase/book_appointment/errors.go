package book_appointment

import "errors"

// Недоступный слот возвращается как *scheduling.SlotUnavailableError
// (errors.Is с scheduling.ErrPastTime, ErrNoAvailability, ErrBlocked, ErrOccupied).
var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("book_appointment: provider not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("book_appointment: patient not found")

	// ErrPatientOrganizationMismatch возвращается, когда пациент относится к другой организации
	ErrPatientOrganizationMismatch = errors.New("book_appointment: patient belongs to another organization")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
