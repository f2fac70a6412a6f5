package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

func ParseTransactionKind(raw string) (TransactionKind, error) {
	kind := TransactionKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case TransactionIncome, TransactionExpense:
		return kind, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidKind, raw)
	}
}

type Transaction struct {
	ID        ID              `json:"id"`
	AccountID ID              `json:"account_id"`
	Kind      TransactionKind `json:"type"`
	Name      string          `json:"name"`
	Amount    Money           `json:"sum"`
	CreatedAt Timestamp       `json:"created_at"`
}

// TimestampLayout is the server's created_at format.
const TimestampLayout = "2006-01-02 15:04:05"

type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(TimestampLayout, strings.TrimSpace(*raw))
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, strings.TrimSpace(*raw))
		if err != nil {
			return fmt.Errorf("decode timestamp %q: %w", *raw, err)
		}
	}
	t.Time = parsed
	return nil
}

// Human formats the timestamp as "10 March 2019 at 03:20".
func (t Timestamp) Human() string {
	if t.IsZero() {
		return "unknown date"
	}
	return fmt.Sprintf("%d %s %d at %s", t.Day(), t.Month(), t.Year(), t.Format("15:04"))
}
