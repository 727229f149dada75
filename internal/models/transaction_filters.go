package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberFilterAll is the admin-only filter value that removes member scoping.
const MemberFilterAll = "all"

// TransactionFilters contains filtering options for transaction queries.
// A nil MemberID means every member; scoping for non-admin sessions is
// applied by the service before the filter reaches the repository.
type TransactionFilters struct {
	MemberID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Type      string
	Limit     int
}
