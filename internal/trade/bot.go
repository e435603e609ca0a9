package trade

import (
	"context"
	"time"

	"github.com/vikasavnish/hunterbot/internal/models"
)

// DefaultBotDelay is how long the mock bot "thinks" before answering.
const DefaultBotDelay = 1500 * time.Millisecond

var samples = []models.TradeInstruction{
	{ID: "bot-1", Symbol: "EURUSD", EntryPrice: 1.0850, ExitPrice: 1.0920, StopLoss: 1.0810, LotSize: 0.10},
	{ID: "bot-2", Symbol: "GBPUSD", EntryPrice: 1.2700, ExitPrice: 1.2620, StopLoss: 1.2750, LotSize: 0.05},
	{ID: "bot-3", Symbol: "XAUUSD", EntryPrice: 2350, ExitPrice: 2375, StopLoss: 2338, LotSize: 0.01},
}

// Samples returns a copy of the canned bot trades.
func Samples() []models.TradeInstruction {
	out := make([]models.TradeInstruction, len(samples))
	copy(out, samples)
	return out
}

// Bot is the mock strategy generator. It ignores the strategy it is given and
// always answers with Samples after a fixed delay.
type Bot struct {
	delay time.Duration
}

// NewBot creates a bot; a non-positive delay falls back to DefaultBotDelay.
func NewBot(delay time.Duration) *Bot {
	if delay <= 0 {
		delay = DefaultBotDelay
	}
	return &Bot{delay: delay}
}

// Delay reports the configured generation delay.
func (b *Bot) Delay() time.Duration {
	return b.delay
}

// Generate waits for the bot delay and returns the sample trades.
// The only error is the context ending before the delay elapses.
func (b *Bot) Generate(ctx context.Context, strategy string) ([]models.TradeInstruction, error) {
	timer := time.NewTimer(b.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}
	return Samples(), nil
}
