package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"

	"tradefair/internal/domain"
)

// Postgres error codes the domain cares about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInvalidText         = "22P02"
	codeNoDataFound         = "P0002"
	classConnection         = "08"
)

// classify turns a driver error into a *domain.StoreError carrying an ErrorKind.
// Errors that are not driver errors are returned unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.StoreError{Kind: domain.KindNotFound, Op: op, Err: err}
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return &domain.StoreError{Kind: domain.KindUnavailable, Op: op, Err: err}
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	kind := domain.KindUnknown
	switch pqErr.Code {
	case codeUniqueViolation:
		kind = domain.KindUniqueViolation
	case codeForeignKeyViolation:
		kind = domain.KindForeignKeyViolation
	case codeCheckViolation, codeNotNullViolation, codeInvalidText:
		kind = domain.KindCheckViolation
	case codeNoDataFound:
		kind = domain.KindNotFound
	default:
		if pqErr.Code.Class() == classConnection {
			kind = domain.KindUnavailable
		}
	}
	return &domain.StoreError{Kind: kind, Op: op, Constraint: pqErr.Constraint, Err: err}
}

// isKind reports whether the driver error err classifies as kind.
func isKind(err error, kind domain.ErrorKind) bool {
	return domain.KindOf(classify("", err)) == kind
}
