package domain

import (
	"fmt"
	"strings"
)

// Kind tells incomes and expenses apart. Categories and ledger entries both
// carry one.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Kinds lists every valid kind.
var Kinds = []Kind{KindIncome, KindExpense}

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindIncome, KindExpense:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

func (k Kind) String() string { return string(k) }

// Plural is the collection name used in routes, sheets and mail subjects.
func (k Kind) Plural() string { return string(k) + "s" }
