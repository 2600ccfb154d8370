package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvista-dev/finvista/internal/model"
)

// Header is the CSV header for transaction files.
const Header = "id,date,type,amount,category,title,description"

const (
	numFields  = 7
	dateFormat = "2006-01-02"
	colID      = 0
	colDate    = 1
	colType    = 2
	colAmount  = 3
	colCat     = 4
	colTitle   = 5
	colDesc    = 6
)

// CSVParser reads the native transaction CSV format.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a transaction CSV.
func (p *CSVParser) Parse(r io.Reader) ([]model.Transaction, error) {
	return ReadTransactions(r)
}

// ReadTransactions reads all transactions from a CSV reader. The first row is the header.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, model.AtRow(err, i+2)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a CSV writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	row[colDate] = txn.Date.Format(dateFormat)
	row[colType] = string(txn.Kind)
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colCat] = txn.Category
	row[colTitle] = txn.Title
	row[colDesc] = txn.Description
	return row
}

// UnmarshalTransaction converts a CSV row to a validated Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, strings.TrimSpace(record[colDate]))
	if err != nil {
		return model.Transaction{}, &model.ValidationError{Field: "date", Value: record[colDate], Err: model.ErrInvalidDate}
	}

	kind, err := model.ParseKind(record[colType])
	if err != nil {
		return model.Transaction{}, &model.ValidationError{Field: "type", Value: record[colType], Err: model.ErrInvalidKind}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[colAmount]))
	if err != nil {
		return model.Transaction{}, &model.ValidationError{Field: "amount", Value: record[colAmount], Err: model.ErrInvalidAmount}
	}

	txn := model.Transaction{
		ID:          record[colID],
		Date:        date,
		Kind:        kind,
		Amount:      amount,
		Category:    record[colCat],
		Title:       record[colTitle],
		Description: record[colDesc],
	}
	if err := txn.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}
