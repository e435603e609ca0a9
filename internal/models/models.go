package models

import (
	"time"
)

// Direction is the side implied by an instruction's exit relative to its entry
type Direction string

const (
	DirectionLong    Direction = "LONG"
	DirectionShort   Direction = "SHORT"
	DirectionNeutral Direction = ""
)

// TradeInstruction represents one row of the trade form
type TradeInstruction struct {
	ID         string  `json:"id" yaml:"id"`
	Symbol     string  `json:"symbol" yaml:"symbol"`
	EntryPrice float64 `json:"entryPrice" yaml:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice" yaml:"exitPrice"`
	StopLoss   float64 `json:"stopLoss" yaml:"stopLoss"`
	LotSize    float64 `json:"lotSize" yaml:"lotSize"`
}

// Direction derives LONG/SHORT from the exit and entry prices.
// Equal prices are neutral.
func (t TradeInstruction) Direction() Direction {
	switch {
	case t.ExitPrice > t.EntryPrice:
		return DirectionLong
	case t.ExitPrice < t.EntryPrice:
		return DirectionShort
	default:
		return DirectionNeutral
	}
}

// Submission sources
const (
	SourceManual = "manual"
	SourceBot    = "bot"
)

// Submission is a journal entry written every time a list of instructions is submitted
type Submission struct {
	ID           uint                   `gorm:"primaryKey" json:"id"`
	SessionID    string                 `gorm:"index" json:"sessionId"`
	Source       string                 `json:"source"`
	Strategy     string                 `json:"strategy,omitempty"`
	Instructions []SubmittedInstruction `gorm:"constraint:OnDelete:CASCADE" json:"instructions"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// SubmittedInstruction is a row of a Submission
type SubmittedInstruction struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SubmissionID uint      `gorm:"index" json:"-"`
	RowID        string    `json:"id"`
	Symbol       string    `json:"symbol"`
	EntryPrice   float64   `json:"entryPrice"`
	ExitPrice    float64   `json:"exitPrice"`
	StopLoss     float64   `json:"stopLoss"`
	LotSize      float64   `json:"lotSize"`
	Direction    Direction `json:"direction"`
}

// Message represents a WebSocket message. A message with a SessionID is only
// delivered to clients watching that session.
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Content   interface{} `json:"content"`
}

// WebSocket message types
const (
	MessageTradesSubmitted = "trades_submitted"
	MessageBotGenerating   = "bot_generating"
)
