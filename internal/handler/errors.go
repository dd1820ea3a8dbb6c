package handler

import (
	"errors"
	"net/http"

	"backend/internal/service"

	"github.com/gin-gonic/gin"
)

// statusForError maps the ledger's error taxonomy to HTTP status codes:
// validation errors are the caller's to fix (4xx), invariant violations are
// ours (500).
func statusForError(err error) int {
	var (
		duplicateCode  *service.DuplicateCodeError
		duplicateEntry *service.DuplicateEntryNumberError
		hierarchy      *service.InvalidHierarchyError
		unknownAccount *service.UnknownAccountError
		unknownEntry   *service.UnknownEntryError
		invalidAccount *service.InvalidAccountError
		groupPosting   *service.PostingToGroupAccountError
		unbalancedLine *service.UnbalancedLineError
		unbalanced     *service.UnbalancedEntryError
		dateRange      *service.InvalidDateRangeError
		period         *service.InvalidPeriodError
		validation     *service.ValidationError
	)

	switch {
	case errors.As(err, &duplicateCode), errors.As(err, &duplicateEntry):
		return http.StatusConflict
	case errors.As(err, &unknownAccount), errors.As(err, &unknownEntry):
		return http.StatusNotFound
	case errors.As(err, &hierarchy),
		errors.As(err, &invalidAccount),
		errors.As(err, &groupPosting),
		errors.As(err, &unbalancedLine),
		errors.As(err, &unbalanced),
		errors.As(err, &dateRange),
		errors.As(err, &period),
		errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		// Anything outside the validation taxonomy is an infrastructure or
		// engine failure, the caller cannot fix it.
		return http.StatusInternalServerError
	}
}

// currentUserID returns the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
