package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindHTTPStatus(t *testing.T) {
	cases := []struct {
		kind   ErrorKind
		status int
	}{
		{KindInvalidIdentifier, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindAccessDenied, http.StatusForbidden},
		{KindDuplicateName, http.StatusBadRequest},
		{KindValidationFailed, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindUnexpected, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.kind.HTTPStatus())
		})
	}
}

func TestConformanceTable(t *testing.T) {
	cases := []struct {
		err     DomainError
		status  int
		message string
	}{
		{ErrCollectionNotFound, http.StatusNotFound, "Collection non trouvée"},
		{ErrSelfShare, http.StatusBadRequest, "Vous ne pouvez pas vous partager une collection à vous-même"},
		{ErrCollectionAccessDenied, http.StatusForbidden, "Accès refusé à cette collection"},
		{ErrDuplicateCollectionName, http.StatusBadRequest, "Une collection avec ce nom existe déjà"},
		{ErrInvalidCollectionID, http.StatusBadRequest, "ID de collection invalide"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "Identifiants invalides"},
		{ErrShareStatusDenied, http.StatusForbidden, "Accès refusé : seul l'invité peut modifier le statut du partage"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Kind.HTTPStatus())
			assert.Equal(t, tc.message, tc.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Run("finds wrapped domain errors", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", ErrShareNotFound)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.True(t, errors.Is(err, ErrShareNotFound))
	})

	t.Run("treats type mismatch as validation failure", func(t *testing.T) {
		err := &WorkTypeMismatchError{IDs: []string{"a"}}
		assert.Equal(t, KindValidationFailed, KindOf(err))
	})

	t.Run("defaults to unexpected", func(t *testing.T) {
		assert.Equal(t, KindUnexpected, KindOf(errors.New("boom")))
	})
}

func TestWorkTypeMismatchError(t *testing.T) {
	err := &WorkTypeMismatchError{IDs: []string{"id1", "id2"}}
	assert.Equal(t, WorkTypeMismatchPrefix+"id1, id2", err.Error())

	var target *WorkTypeMismatchError
	wrapped := fmt.Errorf("create: %w", err)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, []string{"id1", "id2"}, target.IDs)
}
