package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vikasavnish/hunterbot/internal/models"
	"github.com/vikasavnish/hunterbot/internal/strategies"
	"github.com/vikasavnish/hunterbot/internal/trade"
)

type deskFixture struct {
	desk      DeskService
	journal   JournalService
	publisher *recordingPublisher
	cancel    context.CancelFunc
}

func newDeskFixture(t *testing.T) *deskFixture {
	return newDeskFixtureWithDelay(t, 10*time.Millisecond)
}

func newDeskFixtureWithDelay(t *testing.T, delay time.Duration) *deskFixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	journal := NewJournalService(newTestDB(t))
	publisher := &recordingPublisher{}
	desk := NewDeskService(ctx, trade.NewBot(delay), strategies.Default(), journal, publisher, zerolog.Nop())
	t.Cleanup(desk.Wait)

	return &deskFixture{desk: desk, journal: journal, publisher: publisher, cancel: cancel}
}

func TestDeskManualSubmit(t *testing.T) {
	f := newDeskFixture(t)
	ctx := context.Background()

	view := f.desk.Open()
	if len(view.Draft) != 1 {
		t.Fatalf("Expected one blank row, got %d", len(view.Draft))
	}
	if view.Mode != ModeManual {
		t.Errorf("Expected manual mode, got %s", view.Mode)
	}
	rowID := view.Draft[0].ID

	edits := map[string]interface{}{
		"symbol":     "EURUSD",
		"entryPrice": "1.0850",
		"exitPrice":  1.0920,
		"stopLoss":   1.0810,
		"lotSize":    0.1,
	}
	for field, value := range edits {
		if _, err := f.desk.EditRow(view.ID, rowID, field, value); err != nil {
			t.Fatalf("EditRow(%s): %v", field, err)
		}
	}

	trades, err := f.desk.Submit(ctx, view.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if trades[0].Symbol != "EURUSD" || trades[0].Direction != models.DirectionLong {
		t.Errorf("Unexpected trade: %+v", trades[0])
	}

	got, err := f.desk.Trades(view.ID)
	if err != nil {
		t.Fatalf("Trades: %v", err)
	}
	if len(got) != 1 || got[0].ID != rowID {
		t.Errorf("Expected submitted list to hold row %s, got %+v", rowID, got)
	}

	subs, err := f.journal.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(subs) != 1 || subs[0].Source != models.SourceManual {
		t.Fatalf("Expected one manual journal entry, got %+v", subs)
	}
	if len(f.publisher.ofType(models.MessageTradesSubmitted)) != 1 {
		t.Error("Expected one trades_submitted message")
	}
}

func TestDeskSubmitInvalidKeepsPreviousTrades(t *testing.T) {
	f := newDeskFixture(t)
	ctx := context.Background()

	view := f.desk.Open()
	rowID := view.Draft[0].ID
	f.desk.EditRow(view.ID, rowID, "symbol", "EURUSD")
	f.desk.EditRow(view.ID, rowID, "lotSize", 0.5)
	if _, err := f.desk.Submit(ctx, view.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	f.desk.EditRow(view.ID, rowID, "symbol", "")
	_, err := f.desk.Submit(ctx, view.ID)
	var verr *trade.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	trades, _ := f.desk.Trades(view.ID)
	if len(trades) != 1 || trades[0].Symbol != "EURUSD" {
		t.Errorf("Expected previous trades to survive, got %+v", trades)
	}
	if len(f.publisher.ofType(models.MessageTradesSubmitted)) != 1 {
		t.Error("Expected failed submit not to publish")
	}
}

func TestDeskRows(t *testing.T) {
	f := newDeskFixture(t)

	view := f.desk.Open()
	added, err := f.desk.AddRow(view.ID)
	if err != nil {
		t.Fatalf("AddRow: %v", err)
	}

	rows, err := f.desk.RemoveRow(view.ID, added.ID)
	if err != nil {
		t.Fatalf("RemoveRow: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	rows, err = f.desk.RemoveRow(view.ID, rows[0].ID)
	if err != nil {
		t.Fatalf("RemoveRow last: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected last row to be kept, got %d", len(rows))
	}

	if _, err := f.desk.EditRow(view.ID, "nope", "symbol", "X"); !errors.Is(err, trade.ErrRowNotFound) {
		t.Errorf("Expected ErrRowNotFound, got %v", err)
	}
	if _, err := f.desk.EditRow(view.ID, rows[0].ID, "colour", "X"); !errors.Is(err, trade.ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}

	replaced, err := f.desk.ReplaceRows(view.ID, trade.Samples())
	if err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}
	if len(replaced) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(replaced))
	}
}

func TestDeskUnknownSession(t *testing.T) {
	f := newDeskFixture(t)

	if _, err := f.desk.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := f.desk.Submit(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Submit: expected ErrSessionNotFound, got %v", err)
	}
	if err := f.desk.Close("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Close: expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeskSetMode(t *testing.T) {
	f := newDeskFixture(t)
	view := f.desk.Open()

	got, err := f.desk.SetMode(view.ID, ModeBot)
	if err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if got.Mode != ModeBot {
		t.Errorf("Expected bot mode, got %s", got.Mode)
	}
	if _, err := f.desk.SetMode(view.ID, "auto"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Expected ErrInvalidMode, got %v", err)
	}
}

func TestDeskGenerateBot(t *testing.T) {
	f := newDeskFixture(t)
	view := f.desk.Open()

	started, err := f.desk.GenerateBot(view.ID, "breakout")
	if err != nil {
		t.Fatalf("GenerateBot: %v", err)
	}
	if !started.Generating || started.Strategy != "breakout" || started.Mode != ModeBot {
		t.Errorf("Unexpected view while generating: %+v", started)
	}
	if _, err := f.desk.GenerateBot(view.ID, "breakout"); !errors.Is(err, ErrBotBusy) {
		t.Errorf("Expected ErrBotBusy, got %v", err)
	}

	f.desk.Wait()

	after, err := f.desk.Get(view.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Generating {
		t.Error("Expected generation to be finished")
	}
	if len(after.Trades) != 3 {
		t.Fatalf("Expected 3 bot trades, got %d", len(after.Trades))
	}
	for i, want := range trade.Samples() {
		if after.Trades[i].TradeInstruction != want {
			t.Errorf("trade %d: expected %+v, got %+v", i, want, after.Trades[i].TradeInstruction)
		}
		if after.Draft[i] != want {
			t.Errorf("draft %d: expected %+v, got %+v", i, want, after.Draft[i])
		}
	}

	subs, _ := f.journal.List(context.Background(), 0)
	if len(subs) != 1 || subs[0].Source != models.SourceBot || subs[0].Strategy != "breakout" {
		t.Errorf("Expected one bot journal entry, got %+v", subs)
	}
	if len(f.publisher.ofType(models.MessageBotGenerating)) != 1 {
		t.Error("Expected one bot_generating message")
	}
	for _, m := range append(f.publisher.ofType(models.MessageBotGenerating), f.publisher.ofType(models.MessageTradesSubmitted)...) {
		if m.SessionID != view.ID {
			t.Errorf("Expected %s message addressed to %s, got %q", m.Type, view.ID, m.SessionID)
		}
	}
	if len(f.publisher.ofType(models.MessageTradesSubmitted)) != 1 {
		t.Error("Expected one trades_submitted message")
	}
}

func TestDeskGenerateBotUnknownStrategy(t *testing.T) {
	f := newDeskFixture(t)
	view := f.desk.Open()

	if _, err := f.desk.GenerateBot(view.ID, "martingale"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Expected ErrUnknownStrategy, got %v", err)
	}
}

func TestDeskGenerateBotDroppedAfterClose(t *testing.T) {
	f := newDeskFixture(t)
	view := f.desk.Open()

	if _, err := f.desk.GenerateBot(view.ID, ""); err != nil {
		t.Fatalf("GenerateBot: %v", err)
	}
	if err := f.desk.Close(view.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	f.desk.Wait()

	if n := len(f.publisher.ofType(models.MessageTradesSubmitted)); n != 0 {
		t.Errorf("Expected no submission for a closed session, got %d", n)
	}
}

func TestDeskGenerateBotCancelled(t *testing.T) {
	f := newDeskFixtureWithDelay(t, time.Minute)
	view := f.desk.Open()

	if _, err := f.desk.GenerateBot(view.ID, "momentum"); err != nil {
		t.Fatalf("GenerateBot: %v", err)
	}
	f.cancel()
	f.desk.Wait()

	after, _ := f.desk.Get(view.ID)
	if after.Generating {
		t.Error("Expected generating to be cleared after cancel")
	}
	if len(after.Trades) != 0 {
		t.Errorf("Expected no trades after cancel, got %d", len(after.Trades))
	}
}

func TestDeskExpire(t *testing.T) {
	f := newDeskFixture(t)
	impl := f.desk.(*deskService)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	impl.now = func() time.Time { return now }

	stale := f.desk.Open()
	now = now.Add(20 * time.Minute)
	fresh := f.desk.Open()
	now = now.Add(20 * time.Minute)

	if n := f.desk.Expire(30 * time.Minute); n != 1 {
		t.Fatalf("Expected 1 expired session, got %d", n)
	}
	if _, err := f.desk.Get(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected stale session to be gone")
	}
	if _, err := f.desk.Get(fresh.ID); err != nil {
		t.Error("Expected fresh session to survive")
	}
	if f.desk.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", f.desk.Count())
	}
}
