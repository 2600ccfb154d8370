package budget

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finvista-dev/finvista/internal/model"
)

const dateFormat = "2006-01-02"

// file is the on-disk layout of budgets.yaml.
type file struct {
	Budgets []record `yaml:"budgets"`
}

type record struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Category  string `yaml:"category"`
	Amount    string `yaml:"amount"`
	Period    string `yaml:"period"`
	AutoRenew bool   `yaml:"auto_renew"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

// Load reads budgets from a YAML file. A missing file holds no budgets.
func Load(path string) ([]model.Budget, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading budgets: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing budgets: %w", err)
	}

	budgets := make([]model.Budget, 0, len(f.Budgets))
	for i, rec := range f.Budgets {
		b, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("budget %d (%s): %w", i+1, rec.Title, err)
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

// Save writes budgets to a YAML file, creating its directory.
func Save(path string, budgets []model.Budget) error {
	f := file{Budgets: make([]record, len(budgets))}
	for i, b := range budgets {
		f.Budgets[i] = toRecord(b)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling budgets: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating budgets dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing budgets: %w", err)
	}
	return nil
}

func toRecord(b model.Budget) record {
	return record{
		ID:        b.ID,
		Title:     b.Title,
		Category:  b.Category,
		Amount:    b.Amount.StringFixed(2),
		Period:    string(b.Period),
		AutoRenew: b.AutoRenew,
		StartDate: b.StartDate.Format(dateFormat),
		EndDate:   b.EndDate.Format(dateFormat),
	}
}

func fromRecord(rec record) (model.Budget, error) {
	amount, err := decimal.NewFromString(rec.Amount)
	if err != nil {
		return model.Budget{}, fmt.Errorf("parsing amount %q: %w", rec.Amount, err)
	}
	period, err := ParsePeriod(rec.Period)
	if err != nil {
		return model.Budget{}, err
	}
	start, err := time.Parse(dateFormat, rec.StartDate)
	if err != nil {
		return model.Budget{}, fmt.Errorf("parsing start_date %q: %w", rec.StartDate, err)
	}
	end, err := time.Parse(dateFormat, rec.EndDate)
	if err != nil {
		return model.Budget{}, fmt.Errorf("parsing end_date %q: %w", rec.EndDate, err)
	}

	b := model.Budget{
		ID:        rec.ID,
		Title:     rec.Title,
		Category:  rec.Category,
		Amount:    amount,
		Period:    period,
		AutoRenew: rec.AutoRenew,
		StartDate: start,
		EndDate:   end,
	}
	if err := Validate(b); err != nil {
		return model.Budget{}, err
	}
	return b, nil
}
