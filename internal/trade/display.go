package trade

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/vikasavnish/hunterbot/internal/models"
)

// Badge is the cosmetic readiness marker shown next to each trade
type Badge string

const (
	BadgeReady   Badge = "ready"
	BadgeHunting Badge = "hunting"
)

// DisplayRow is a submitted instruction as the trade screen renders it
type DisplayRow struct {
	models.TradeInstruction
	Direction  models.Direction `json:"direction"`
	Badge      Badge            `json:"badge"`
	RiskReward float64          `json:"riskReward"`
}

// Project renders rows for display. Badges are re-rolled on every call.
func Project(rows []models.TradeInstruction) []DisplayRow {
	return ProjectWith(rows, func() bool { return rand.IntN(2) == 0 })
}

// ProjectWith is Project with the readiness roll supplied by the caller.
func ProjectWith(rows []models.TradeInstruction, ready func() bool) []DisplayRow {
	out := make([]DisplayRow, 0, len(rows))
	for _, r := range rows {
		badge := BadgeHunting
		if ready() {
			badge = BadgeReady
		}
		out = append(out, DisplayRow{
			TradeInstruction: r,
			Direction:        r.Direction(),
			Badge:            badge,
			RiskReward:       RiskReward(r),
		})
	}
	return out
}

// RiskReward is |exit-entry| / |entry-stop| rounded to two places,
// or 0 when the stop sits on the entry.
func RiskReward(t models.TradeInstruction) float64 {
	entry := decimal.NewFromFloat(t.EntryPrice)
	risk := entry.Sub(decimal.NewFromFloat(t.StopLoss)).Abs()
	if risk.IsZero() {
		return 0
	}
	reward := decimal.NewFromFloat(t.ExitPrice).Sub(entry).Abs()
	rr, _ := reward.DivRound(risk, 2).Float64()
	return rr
}
