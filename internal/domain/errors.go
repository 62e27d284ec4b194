package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Conflict kinds surfaced as 409 responses.
const (
	ConflictInsufficientSeats = "insufficient_seats"
	ConflictSeatConflict      = "seat_conflict"
	ConflictInvalidTransition = "invalid_status_transition"
)

// Validation kinds.
const (
	ValidationGeneric           = "validation_error"
	ValidationSeatCountMismatch = "seat_count_mismatch"
)

// DomainError keeps backward compatibility for generic codes.
type DomainError struct {
	Code string
	Err  error
}

func (e DomainError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "data tidak ditemukan"
	}
	return fmt.Sprintf("%s tidak ditemukan", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// FieldError is one field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Field  string
	Msg    string
	Kind   string
	Fields []FieldError
	Err    error
}

func (e ValidationError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return strings.Join(parts, "; ")
	}
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// FieldErrors returns the field list, falling back to the single Field/Msg pair.
func (e ValidationError) FieldErrors() []FieldError {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	if e.Field == "" && e.Msg == "" {
		return nil
	}
	return []FieldError{{Field: e.Field, Message: e.Msg}}
}

// Code returns the validation kind, defaulting to validation_error.
func (e ValidationError) Code() string {
	if e.Kind == "" {
		return ValidationGeneric
	}
	return e.Kind
}

// InvalidIDError reports an identifier that is not a well-formed system id.
type InvalidIDError struct {
	Resource string
	Value    string
}

func (e InvalidIDError) Error() string {
	if e.Resource == "" {
		return "id tidak valid"
	}
	return fmt.Sprintf("id %s tidak valid", e.Resource)
}

// DuplicateError reports a uniqueness violation (email, human codes).
type DuplicateError struct {
	Resource string
	Field    string
	Value    string
	Err      error
}

func (e DuplicateError) Error() string {
	if e.Field == "email" {
		return "email sudah terdaftar"
	}
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s %q sudah digunakan", e.Field, e.Value)
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s sudah ada", e.Resource)
	}
	return "data duplikat"
}

func (e DuplicateError) Unwrap() error { return e.Err }

// Code distinguishes duplicate emails from other unique keys.
func (e DuplicateError) Code() string {
	if e.Field == "email" {
		return "duplicate_email"
	}
	return "duplicate_key"
}

type ConflictError struct {
	Resource string
	Kind     string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// Code returns the conflict kind, defaulting to conflict.
func (e ConflictError) Code() string {
	if e.Kind == "" {
		return "conflict"
	}
	return e.Kind
}

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg == "" {
		return "akses ditolak"
	}
	return e.Msg
}

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg == "" {
		return "tidak terautentikasi"
	}
	return e.Msg
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// Detail returns the raw cause for the 500 response body.
func (e InternalError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func InsufficientSeats(requested, available int) error {
	return ConflictError{
		Resource: "jadwal",
		Kind:     ConflictInsufficientSeats,
		Msg:      fmt.Sprintf("kursi tidak cukup (diminta %d, tersedia %d)", requested, available),
	}
}

func SeatConflict(seats ...string) error {
	msg := "kursi sudah dipesan, silakan pilih kursi lain"
	if len(seats) > 0 {
		msg = fmt.Sprintf("kursi %s sudah dipesan, silakan pilih kursi lain", strings.Join(seats, ", "))
	}
	return ConflictError{Resource: "kursi", Kind: ConflictSeatConflict, Msg: msg}
}

func InvalidStatusTransition(from, to BookingStatus) error {
	return ConflictError{
		Resource: "pemesanan",
		Kind:     ConflictInvalidTransition,
		Msg:      fmt.Sprintf("perubahan status %s -> %s tidak diizinkan", from, to),
	}
}

func SeatCountMismatch(passengers, seats int) error {
	return ValidationError{
		Field: "nomor_kursi",
		Kind:  ValidationSeatCountMismatch,
		Msg:   fmt.Sprintf("jumlah kursi (%d) harus sama dengan jumlah penumpang (%d)", seats, passengers),
	}
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// IsConflictKind reports whether err is a ConflictError of the given kind.
func IsConflictKind(err error, kind string) bool {
	var target ConflictError
	return errors.As(err, &target) && target.Kind == kind
}

func IsDuplicate(err error) bool {
	var target DuplicateError
	return errors.As(err, &target)
}

func IsInvalidID(err error) bool {
	var target InvalidIDError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}
