// Package services defines the business logic for projects, features,
// products, and the audit log. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

var (
	// ErrProjectNotFound indicates that the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrFeatureNotFound indicates that the requested product feature does
	// not exist.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrProductNotFound indicates that the requested catalog product does
	// not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrUnknownFeatureRef is returned when a project references a feature
	// id that does not resolve to a real product feature.
	ErrUnknownFeatureRef = errors.New("project references an unknown feature id")

	// ErrInvalidStatus is returned when a project status is outside the
	// allowed set.
	ErrInvalidStatus = errors.New("invalid project status")

	// ErrInvalidAuditEntry is returned when an audit entry has an action or
	// entity type outside the allowed sets.
	ErrInvalidAuditEntry = errors.New("invalid audit entry")

	// ErrEmptyName is returned when a create/update payload carries a blank
	// name after normalization.
	ErrEmptyName = errors.New("name is empty")

	// ErrUnknownCategory is returned when a category reorder names a category
	// that does not exist.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrEmptyCategoryOrder is returned when a category reorder carries no
	// usable names.
	ErrEmptyCategoryOrder = errors.New("category order is empty")
)
