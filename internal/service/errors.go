package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified, please check your inbox")
	ErrAccountBlocked     = errors.New("user account is blocked")
	ErrInvalidLink        = errors.New("link is invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("old password is incorrect")

	ErrCompanyNotFound = errors.New("insurance company not found")
	ErrTariffNotFound  = errors.New("tariff not found")
	ErrTariffMismatch  = errors.New("tariff does not belong to the selected company")

	ErrContractNotFound = errors.New("no contract found")
	ErrInvalidFile      = errors.New("only PDF files are accepted")
	ErrFileTooLarge     = errors.New("file exceeds the upload limit")

	ErrUpstream = errors.New("upstream service failed")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
