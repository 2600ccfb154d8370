package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind says whether a transaction adds to or draws from the balance.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind converts "income"/"expense" (any case) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single income or expense record.
type Transaction struct {
	ID          string
	Date        time.Time
	Kind        Kind
	Amount      decimal.Decimal // never negative; Kind carries the sign
	Category    string
	Title       string
	Description string
}

// Signed returns the amount with income positive and expense negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the fields the aggregation depends on.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	if t.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Value: t.Amount.String(), Err: ErrInvalidAmount}
	}
	if !t.Kind.Valid() {
		return &ValidationError{Field: "type", Value: string(t.Kind), Err: ErrInvalidKind}
	}
	return nil
}
