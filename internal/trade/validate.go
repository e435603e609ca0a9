package trade

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/vikasavnish/hunterbot/internal/models"
)

// Violation is a single failed field check.
type Violation struct {
	RowID   string `json:"id"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("row %s: %s %s", v.RowID, v.Field, v.Message)
}

// ValidationError collects every violation found in a list of rows.
type ValidationError struct {
	Violations []Violation
	err        error
}

func (e *ValidationError) Error() string {
	return "trade: invalid instructions: " + e.err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// Validate applies the checks the trade form enforces natively: symbol is
// required, prices are not negative, lot size is at least MinLotSize.
func Validate(rows []models.TradeInstruction) error {
	var err error
	for _, r := range rows {
		err = multierr.Append(err, validateRow(r))
	}
	if err == nil {
		return nil
	}

	verr := &ValidationError{err: err}
	for _, e := range multierr.Errors(err) {
		if v, ok := e.(Violation); ok {
			verr.Violations = append(verr.Violations, v)
		}
	}
	return verr
}

func validateRow(r models.TradeInstruction) error {
	var err error
	if strings.TrimSpace(r.Symbol) == "" {
		err = multierr.Append(err, Violation{r.ID, FieldSymbol, "is required"})
	}
	if r.EntryPrice < 0 {
		err = multierr.Append(err, Violation{r.ID, FieldEntryPrice, "must not be negative"})
	}
	if r.ExitPrice < 0 {
		err = multierr.Append(err, Violation{r.ID, FieldExitPrice, "must not be negative"})
	}
	if r.StopLoss < 0 {
		err = multierr.Append(err, Violation{r.ID, FieldStopLoss, "must not be negative"})
	}
	if r.LotSize < MinLotSize {
		err = multierr.Append(err, Violation{r.ID, FieldLotSize, fmt.Sprintf("must be at least %.2f", MinLotSize)})
	}
	return err
}
