package trade

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vikasavnish/hunterbot/internal/models"
)

func TestNewDraftHasOneBlankRow(t *testing.T) {
	d := NewDraft()
	rows := d.Rows()
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].ID != "1" {
		t.Errorf("Expected first id to be 1, got %s", rows[0].ID)
	}
	if rows[0].LotSize != MinLotSize {
		t.Errorf("Expected default lot size %.2f, got %.2f", MinLotSize, rows[0].LotSize)
	}
}

func TestAddAppendsFreshID(t *testing.T) {
	d := NewDraft()
	seen := map[string]bool{"1": true}

	for i := 0; i < 5; i++ {
		before := d.Len()
		row := d.Add()
		if d.Len() != before+1 {
			t.Fatalf("Expected length %d, got %d", before+1, d.Len())
		}
		if seen[row.ID] {
			t.Fatalf("Duplicate id %s", row.ID)
		}
		seen[row.ID] = true
	}

	rows := d.Rows()
	if rows[len(rows)-1].ID != "6" {
		t.Errorf("Expected last id to be 6, got %s", rows[len(rows)-1].ID)
	}
}

func TestRemoveLastRowIsNoop(t *testing.T) {
	d := NewDraft()
	if err := d.Remove("1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", d.Len())
	}
}

func TestRemove(t *testing.T) {
	d := NewDraft()
	d.Add()
	d.Add()

	if err := d.Remove("2"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	rows := d.Rows()
	if len(rows) != 2 || rows[0].ID != "1" || rows[1].ID != "3" {
		t.Fatalf("Unexpected rows after remove: %+v", rows)
	}

	if err := d.Remove("42"); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("Expected ErrRowNotFound, got %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Expected length 2 after failed remove, got %d", d.Len())
	}

	// ids are never reused
	if row := d.Add(); row.ID != "4" {
		t.Errorf("Expected id 4, got %s", row.ID)
	}
}

func TestEditLeavesOtherRowsUnchanged(t *testing.T) {
	d := NewDraft()
	d.Add()
	d.Add()
	before := d.Rows()

	if err := d.Edit("2", FieldSymbol, " EURUSD "); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if err := d.Edit("2", FieldEntryPrice, "1.0850"); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if err := d.Edit("2", FieldExitPrice, 1.09); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}

	after := d.Rows()
	if !reflect.DeepEqual(before[0], after[0]) || !reflect.DeepEqual(before[2], after[2]) {
		t.Fatalf("Edit touched other rows: before=%+v after=%+v", before, after)
	}

	want := models.TradeInstruction{ID: "2", Symbol: " EURUSD ", EntryPrice: 1.085, ExitPrice: 1.09, LotSize: MinLotSize}
	if after[1] != want {
		t.Errorf("Expected %+v, got %+v", want, after[1])
	}
}

func TestEditErrors(t *testing.T) {
	d := NewDraft()

	if err := d.Edit("9", FieldSymbol, "X"); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("Expected ErrRowNotFound, got %v", err)
	}
	if err := d.Edit("1", "comment", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
	if err := d.Edit("1", FieldLotSize, "abc"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue, got %v", err)
	}
	if err := d.Edit("1", FieldLotSize, ""); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue for empty string, got %v", err)
	}
	if err := d.Edit("1", FieldSymbol, 12.0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue for numeric symbol, got %v", err)
	}
	if got := d.Rows()[0]; got.LotSize != MinLotSize || got.Symbol != "" {
		t.Errorf("Failed edits changed the row: %+v", got)
	}
}

func TestReplace(t *testing.T) {
	d := NewDraft()
	d.Replace([]models.TradeInstruction{
		{ID: "7", Symbol: "A", LotSize: 1},
		{ID: "7", Symbol: "B", LotSize: 1},
		{Symbol: "C", LotSize: 1},
	})

	rows := d.Rows()
	ids := []string{rows[0].ID, rows[1].ID, rows[2].ID}
	if !reflect.DeepEqual(ids, []string{"7", "8", "9"}) {
		t.Fatalf("Unexpected ids after replace: %v", ids)
	}
	if row := d.Add(); row.ID != "10" {
		t.Errorf("Expected next id 10, got %s", row.ID)
	}

	d.Replace(nil)
	if d.Len() != 1 {
		t.Errorf("Expected one blank row after empty replace, got %d", d.Len())
	}
}

func TestSubmitInvokesCallbackOnceWithRows(t *testing.T) {
	d := NewDraft()
	d.Replace([]models.TradeInstruction{
		{ID: "1", Symbol: "EURUSD", EntryPrice: 100, ExitPrice: 110, StopLoss: 95, LotSize: 0.5},
		{ID: "2", Symbol: "GBPUSD", EntryPrice: 110, ExitPrice: 100, StopLoss: 115, LotSize: 0.01},
	})
	want := d.Rows()

	calls := 0
	var got []models.TradeInstruction
	err := d.Submit(func(rows []models.TradeInstruction) {
		calls++
		got = rows
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("Expected callback once, got %d", calls)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestSubmitRejectsInvalidRows(t *testing.T) {
	d := NewDraft()
	d.Add()
	_ = d.Edit("2", FieldSymbol, "EURUSD")
	_ = d.Edit("2", FieldLotSize, 0.001)
	_ = d.Edit("2", FieldStopLoss, -1.0)

	called := false
	err := d.Submit(func([]models.TradeInstruction) { called = true })
	if called {
		t.Fatal("Callback must not run for an invalid draft")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("Expected 3 violations, got %+v", verr.Violations)
	}
	if verr.Violations[0].RowID != "1" || verr.Violations[0].Field != FieldSymbol {
		t.Errorf("Unexpected first violation: %+v", verr.Violations[0])
	}
}

func TestEditKeepsSymbolAsEnteredAndSubmitRejectsBlank(t *testing.T) {
	d := NewDraft()
	if err := d.Edit("1", FieldSymbol, "   "); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	_ = d.Edit("1", FieldLotSize, 0.1)

	if got := d.Rows()[0].Symbol; got != "   " {
		t.Errorf("Expected symbol stored as entered, got %q", got)
	}

	called := false
	err := d.Submit(func([]models.TradeInstruction) { called = true })
	if called {
		t.Fatal("Callback must not run for a blank symbol")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Violations) != 1 || verr.Violations[0].Field != FieldSymbol {
		t.Errorf("Expected a single symbol violation, got %v", err)
	}
}
