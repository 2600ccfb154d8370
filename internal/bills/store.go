package bills

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

type file struct {
	Bills []record `yaml:"bills"`
}

type record struct {
	ID           string `yaml:"id"`
	Type         string `yaml:"type"`
	Amount       string `yaml:"amount"`
	DueDate      string `yaml:"due_date"`
	ReminderDays *int   `yaml:"reminder_days,omitempty"`
	Recurrence   string `yaml:"recurrence"`
	Paid         bool   `yaml:"paid"`
	Description  string `yaml:"description,omitempty"`
}

// Load reads bills from a YAML file. A missing file holds no bills, and a
// bill without reminder_days gets DefaultReminderDays.
func Load(path string) ([]model.Bill, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading bills: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing bills: %w", err)
	}

	out := make([]model.Bill, 0, len(f.Bills))
	for i, rec := range f.Bills {
		b, err := rec.bill()
		if err != nil {
			return nil, fmt.Errorf("bill %d (%s): %w", i+1, rec.Type, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// Save writes bills to a YAML file, creating its directory.
func Save(path string, bills []model.Bill) error {
	f := file{Bills: make([]record, len(bills))}
	for i, b := range bills {
		days := b.ReminderDays
		f.Bills[i] = record{
			ID:           b.ID,
			Type:         b.Type,
			Amount:       b.Amount.StringFixed(2),
			DueDate:      b.DueDate.Format(dateFormat),
			ReminderDays: &days,
			Recurrence:   string(b.Recurrence),
			Paid:         b.Paid,
			Description:  b.Description,
		}
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling bills: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating bills dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing bills: %w", err)
	}
	return nil
}

func (rec record) bill() (model.Bill, error) {
	amount, err := decimal.NewFromString(rec.Amount)
	if err != nil {
		return model.Bill{}, fmt.Errorf("parsing amount %q: %w", rec.Amount, err)
	}
	due, err := time.Parse(dateFormat, rec.DueDate)
	if err != nil {
		return model.Bill{}, fmt.Errorf("parsing due_date %q: %w", rec.DueDate, err)
	}
	recurrence, err := ParseRecurrence(rec.Recurrence)
	if err != nil {
		return model.Bill{}, err
	}
	days := DefaultReminderDays
	if rec.ReminderDays != nil {
		days = *rec.ReminderDays
	}

	b := model.Bill{
		ID:           rec.ID,
		Type:         rec.Type,
		Amount:       amount,
		DueDate:      due,
		ReminderDays: days,
		Recurrence:   recurrence,
		Paid:         rec.Paid,
		Description:  rec.Description,
	}
	if err := Validate(b); err != nil {
		return model.Bill{}, err
	}
	return b, nil
}
