package domain

import "time"

// SortField names a column transactions can be ordered by.
type SortField string

const (
	SortByDate      SortField = "date"
	SortByAmount    SortField = "amount"
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByID        SortField = "id"
)

// TransactionFilter is a fully resolved search: defaults are applied before
// it reaches storage. Start and End are inclusive calendar dates.
type TransactionFilter struct {
	Start      time.Time
	End        time.Time
	Keyword    string
	SortField  SortField
	Descending bool
}
