package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvista-dev/finvista/internal/model"
)

// ErrAPIFailure is returned when a feed envelope reports success: false.
var ErrAPIFailure = errors.New("backend reported failure")

// apiDateLayouts are tried in order when reading a feed date.
var apiDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// JSONParser reads the backend's income/expense JSON.
// DefaultKind is used for records that carry no type field, as the
// get-incomes and get-expenses endpoints return.
type JSONParser struct {
	DefaultKind model.Kind
}

// apiRecord is one record as the backend returns it.
type apiRecord struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// apiEnvelope wraps records in the backend's { success, incomes } style response.
type apiEnvelope struct {
	Success      *bool       `json:"success"`
	Message      string      `json:"message"`
	Incomes      []apiRecord `json:"incomes"`
	Expenses     []apiRecord `json:"expenses"`
	Transactions []apiRecord `json:"transactions"`
}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse reads a bare array of records or an envelope object.
func (p *JSONParser) Parse(r io.Reader) ([]model.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []apiRecord
	if data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decoding JSON records: %w", err)
		}
	} else {
		var env apiEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decoding JSON envelope: %w", err)
		}
		if env.Success != nil && !*env.Success {
			return nil, fmt.Errorf("%w: %s", ErrAPIFailure, env.Message)
		}
		records = append(records, env.Incomes...)
		records = append(records, env.Expenses...)
		records = append(records, env.Transactions...)
		// Envelope keys carry the type when records do not.
		for i := range records {
			if records[i].Type != "" {
				continue
			}
			switch {
			case i < len(env.Incomes):
				records[i].Type = string(model.KindIncome)
			case i < len(env.Incomes)+len(env.Expenses):
				records[i].Type = string(model.KindExpense)
			}
		}
	}

	if len(records) == 0 {
		return nil, nil
	}
	txns := make([]model.Transaction, 0, len(records))
	for i, rec := range records {
		txn, err := p.convert(rec)
		if err != nil {
			return nil, model.AtRow(err, i+1)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (p *JSONParser) convert(rec apiRecord) (model.Transaction, error) {
	kind := p.DefaultKind
	if rec.Type != "" {
		k, err := model.ParseKind(rec.Type)
		if err != nil {
			return model.Transaction{}, &model.ValidationError{Field: "type", Value: rec.Type, Err: model.ErrInvalidKind}
		}
		kind = k
	}
	if kind == "" {
		return model.Transaction{}, &model.ValidationError{Field: "type", Err: model.ErrInvalidKind}
	}

	amount, err := parseAPIAmount(rec.Amount)
	if err != nil {
		return model.Transaction{}, err
	}

	date, err := parseAPIDate(rec.Date)
	if err != nil {
		return model.Transaction{}, err
	}

	txn := model.Transaction{
		ID:          rec.ID,
		Date:        date,
		Kind:        kind,
		Amount:      amount,
		Category:    rec.Category,
		Title:       rec.Title,
		Description: rec.Description,
	}
	if err := txn.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

// parseAPIAmount accepts a JSON number or a numeric string.
func parseAPIAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Decimal{}, &model.ValidationError{Field: "amount", Err: model.ErrInvalidAmount}
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &model.ValidationError{Field: "amount", Value: s, Err: model.ErrInvalidAmount}
	}
	return d, nil
}

func parseAPIDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &model.ValidationError{Field: "date", Err: model.ErrInvalidDate}
	}
	for _, layout := range apiDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &model.ValidationError{Field: "date", Value: s, Err: model.ErrInvalidDate}
}

// WriteJSON writes txns as a bare array in the backend's record shape, with
// the type field set so the file reads back without a default kind.
func WriteJSON(w io.Writer, txns []model.Transaction) error {
	records := make([]apiRecord, len(txns))
	for i, txn := range txns {
		records[i] = apiRecord{
			ID:          txn.ID,
			Title:       txn.Title,
			Amount:      json.RawMessage(txn.Amount.String()),
			Date:        txn.Date.Format(time.RFC3339),
			Type:        string(txn.Kind),
			Category:    txn.Category,
			Description: txn.Description,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding JSON records: %w", err)
	}
	return nil
}
