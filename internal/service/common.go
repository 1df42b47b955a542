package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/repository"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

func notFound(entity string) error {
	return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// loadError maps a repository lookup failure onto a 404 or 500.
func loadError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	return internalError(err, "failed to load "+strings.ToLower(entity))
}

// fieldTaken is the uniqueness failure reported for single-column keys.
func fieldTaken(field string) error {
	return appErrors.Field(appErrors.ErrValidation, field, fmt.Sprintf("The %s has already been taken.", strings.ReplaceAll(field, "_", " ")))
}

func duplicate(message string) error {
	return appErrors.Clone(appErrors.ErrDuplicate, message)
}

// persistError maps write failures. Constraint violations listed in
// constraints get the same answer the pre-write checks would have given.
func persistError(err error, entity, action string, constraints map[string]error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	if name := repository.ConstraintName(err); name != "" {
		if mapped, ok := constraints[name]; ok {
			return mapped
		}
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return duplicate(entity + " already exists")
		case errors.Is(err, repository.ErrForeignKey):
			return appErrors.Clone(appErrors.ErrNotFound, "Related record not found")
		}
	}
	return internalError(err, "failed to "+action)
}

func validate(v *validation.Validator, payload interface{}) error {
	return v.Struct(payload, appErrors.ErrValidation)
}

func defaultValidator(v *validation.Validator) *validation.Validator {
	if v == nil {
		return validation.New()
	}
	return v
}

// mustDate parses a value already checked by the date validator.
func mustDate(raw string) models.Date {
	d, _ := models.ParseDate(raw)
	return d
}

func optionalDate(raw *string) *models.Date {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	d := mustDate(*raw)
	return &d
}

// uniqueIDs drops zero and repeated ids.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func indexByID[T any](items []T, id func(*T) int64) map[int64]*T {
	index := make(map[int64]*T, len(items))
	for i := range items {
		index[id(&items[i])] = &items[i]
	}
	return index
}
