// Package trade holds the trade form state: the draft list of instructions,
// its validation, the mock bot generator and the display projection.
package trade

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vikasavnish/hunterbot/internal/models"
)

var (
	ErrRowNotFound  = errors.New("trade: row not found")
	ErrUnknownField = errors.New("trade: unknown field")
	ErrInvalidValue = errors.New("trade: invalid value")
)

// MinLotSize is the smallest lot a row may carry, also the default for new rows.
const MinLotSize = 0.01

// Editable field names
const (
	FieldSymbol     = "symbol"
	FieldEntryPrice = "entryPrice"
	FieldExitPrice  = "exitPrice"
	FieldStopLoss   = "stopLoss"
	FieldLotSize    = "lotSize"
)

// Draft is the ordered list of rows being edited on the trade form.
// It always holds at least one row. Draft is not safe for concurrent use.
type Draft struct {
	rows   []models.TradeInstruction
	nextID int
}

// NewDraft creates a draft with a single blank row.
func NewDraft() *Draft {
	d := &Draft{}
	d.rows = []models.TradeInstruction{d.blank()}
	return d
}

func (d *Draft) blank() models.TradeInstruction {
	d.nextID++
	return models.TradeInstruction{
		ID:      strconv.Itoa(d.nextID),
		LotSize: MinLotSize,
	}
}

// Rows returns a copy of the current rows.
func (d *Draft) Rows() []models.TradeInstruction {
	out := make([]models.TradeInstruction, len(d.rows))
	copy(out, d.rows)
	return out
}

// Len returns the number of rows.
func (d *Draft) Len() int {
	return len(d.rows)
}

// Add appends a default-valued row with the next sequential id.
func (d *Draft) Add() models.TradeInstruction {
	row := d.blank()
	d.rows = append(d.rows, row)
	return row
}

// Remove deletes the row with the given id. Removing the last remaining row
// is a no-op.
func (d *Draft) Remove(id string) error {
	if len(d.rows) <= 1 {
		return nil
	}
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	d.rows = append(d.rows[:i], d.rows[i+1:]...)
	return nil
}

// Edit merges a single field into the row with the given id.
// Numeric fields accept float64 or numeric strings.
func (d *Draft) Edit(id, field string, value interface{}) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}

	row := d.rows[i]
	switch field {
	case FieldSymbol:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string", ErrInvalidValue, field)
		}
		row.Symbol = s
	case FieldEntryPrice, FieldExitPrice, FieldStopLoss, FieldLotSize:
		n, err := parseNumber(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
		}
		switch field {
		case FieldEntryPrice:
			row.EntryPrice = n
		case FieldExitPrice:
			row.ExitPrice = n
		case FieldStopLoss:
			row.StopLoss = n
		case FieldLotSize:
			row.LotSize = n
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	d.rows[i] = row
	return nil
}

// Replace swaps the whole list. Rows keep their ids unless the id is empty or
// repeats an earlier row, in which case a fresh sequential id is assigned.
// An empty replacement leaves a single blank row.
func (d *Draft) Replace(rows []models.TradeInstruction) {
	for _, r := range rows {
		if n, err := strconv.Atoi(r.ID); err == nil && n > d.nextID {
			d.nextID = n
		}
	}

	seen := make(map[string]bool, len(rows))
	out := make([]models.TradeInstruction, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" || seen[r.ID] {
			d.nextID++
			r.ID = strconv.Itoa(d.nextID)
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	if len(out) == 0 {
		out = append(out, d.blank())
	}
	d.rows = out
}

// Submit validates the rows and hands a copy of them to fn exactly once.
// fn is not called when validation fails.
func (d *Draft) Submit(fn func([]models.TradeInstruction)) error {
	if err := Validate(d.rows); err != nil {
		return err
	}
	fn(d.Rows())
	return nil
}

func (d *Draft) index(id string) int {
	for i := range d.rows {
		if d.rows[i].ID == id {
			return i
		}
	}
	return -1
}

func parseNumber(value interface{}) (float64, error) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, errors.New("empty number")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		n = f
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		n = f
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errors.New("not a finite number")
	}
	return n, nil
}
