package handler

import (
	"fmt"
	"net/http"
	"testing"

	"backend/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"duplicate code", &service.DuplicateCodeError{Code: "1.1.01"}, http.StatusConflict},
		{"duplicate entry number", &service.DuplicateEntryNumberError{EntryNumber: "JE-000001"}, http.StatusConflict},
		{"unknown account", &service.UnknownAccountError{AccountID: "9.9"}, http.StatusNotFound},
		{"unknown entry", &service.UnknownEntryError{EntryID: "abc"}, http.StatusNotFound},
		{"invalid hierarchy", &service.InvalidHierarchyError{Code: "7.1.01", ParentCode: "7.1"}, http.StatusBadRequest},
		{"unbalanced entry", &service.UnbalancedEntryError{}, http.StatusBadRequest},
		{"plain validation", &service.ValidationError{Msg: "invalid entry_date"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("posting failed: %w", &service.ValidationError{Msg: "bad amount"}), http.StatusBadRequest},
		{"invariant violation", &service.InternalInvariantError{Detail: "diverged"}, http.StatusInternalServerError},
		{"wrapped infrastructure failure", fmt.Errorf("failed to aggregate period movements: timeout"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, statusForError(tc.err))
		})
	}
}
