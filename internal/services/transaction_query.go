package services

import (
	"strings"

	"household-ledger/internal/dto"
	"household-ledger/internal/models"

	"github.com/google/uuid"
)

// ParseTransactionQuery converts query parameters into repository filters.
// A nil MemberID asks for every member; the session decides what is actually
// returned. A year selects the whole calendar year unless explicit dates are
// given.
func ParseTransactionQuery(q dto.TransactionQuery) (models.TransactionFilters, error) {
	var parsed models.TransactionFilters

	memberID, err := ParseMemberFilter(q.MemberID)
	if err != nil {
		return parsed, err
	}
	parsed.MemberID = memberID

	if q.Year != 0 {
		start, end := models.YearRange(q.Year)
		parsed.StartDate = &start
		parsed.EndDate = &end
	}

	if q.StartDate != "" {
		start, err := models.ParseDate(q.StartDate)
		if err != nil {
			return parsed, newValidationError("startDate", KindInvalid, "startDate must be YYYY-MM-DD")
		}
		parsed.StartDate = &start
	}

	if q.EndDate != "" {
		end, err := models.ParseDate(q.EndDate)
		if err != nil {
			return parsed, newValidationError("endDate", KindInvalid, "endDate must be YYYY-MM-DD")
		}
		parsed.EndDate = &end
	}

	if parsed.StartDate != nil && parsed.EndDate != nil && parsed.EndDate.Before(*parsed.StartDate) {
		return parsed, newValidationError("endDate", KindInvalid, "endDate must not be before startDate")
	}

	if q.Type != "" {
		txType := strings.ToLower(q.Type)
		if !models.IsValidTransactionType(txType) {
			return parsed, newValidationError("type", KindInvalid, "type must be credit or debit")
		}
		parsed.Type = txType
	}

	parsed.Limit = q.Limit

	return parsed, nil
}

// ParseMemberFilter accepts "", "all" or a member UUID.
func ParseMemberFilter(value string) (*uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == models.MemberFilterAll {
		return nil, nil
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return nil, newValidationError("memberId", KindInvalid, "memberId must be a member id or \"all\"")
	}
	return &id, nil
}
