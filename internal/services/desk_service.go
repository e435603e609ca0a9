package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vikasavnish/hunterbot/internal/metrics"
	"github.com/vikasavnish/hunterbot/internal/models"
	"github.com/vikasavnish/hunterbot/internal/strategies"
	"github.com/vikasavnish/hunterbot/internal/trade"
	"github.com/vikasavnish/hunterbot/internal/websocket"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBotBusy         = errors.New("bot is already generating")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrInvalidMode     = errors.New("invalid mode")
)

// Mode is the trade screen's entry mode
type Mode string

const (
	ModeManual Mode = "manual"
	ModeBot    Mode = "bot"
)

// SessionView is what the trade screen renders for a session
type SessionView struct {
	ID         string                    `json:"id"`
	Mode       Mode                      `json:"mode"`
	Draft      []models.TradeInstruction `json:"draft"`
	Generating bool                      `json:"generating"`
	Strategy   string                    `json:"strategy,omitempty"`
	Trades     []trade.DisplayRow        `json:"trades"`
}

// SubmittedEvent is the content of a trades_submitted notification
type SubmittedEvent struct {
	SessionID string             `json:"sessionId"`
	Source    string             `json:"source"`
	Strategy  string             `json:"strategy,omitempty"`
	Trades    []trade.DisplayRow `json:"trades"`
}

// DeskService defines the trade screen operations. Each session owns a draft
// and the list of trades last submitted from it.
type DeskService interface {
	Open() SessionView
	Get(id string) (SessionView, error)
	Close(id string) error
	SetMode(id string, mode Mode) (SessionView, error)
	AddRow(id string) (models.TradeInstruction, error)
	RemoveRow(id, rowID string) ([]models.TradeInstruction, error)
	EditRow(id, rowID, field string, value interface{}) (models.TradeInstruction, error)
	ReplaceRows(id string, rows []models.TradeInstruction) ([]models.TradeInstruction, error)
	Submit(ctx context.Context, id string) ([]trade.DisplayRow, error)
	GenerateBot(id, strategy string) (SessionView, error)
	Trades(id string) ([]trade.DisplayRow, error)
	Expire(idle time.Duration) int
	Count() int
	Wait()
}

type session struct {
	mu         sync.Mutex
	id         string
	mode       Mode
	draft      *trade.Draft
	submitted  []models.TradeInstruction
	generating bool
	strategy   string
	lastSeen   time.Time
}

// deskService implements the DeskService interface
type deskService struct {
	ctx       context.Context
	bot       *trade.Bot
	catalog   *strategies.Catalog
	journal   JournalService
	publisher websocket.Publisher
	log       zerolog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
	wg       sync.WaitGroup
}

// NewDeskService creates a new desk service. Bot generations are abandoned
// when ctx ends.
func NewDeskService(
	ctx context.Context,
	bot *trade.Bot,
	catalog *strategies.Catalog,
	journal JournalService,
	publisher websocket.Publisher,
	log zerolog.Logger,
) DeskService {
	return &deskService{
		ctx:       ctx,
		bot:       bot,
		catalog:   catalog,
		journal:   journal,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

// Open starts a new session with a single blank row
func (d *deskService) Open() SessionView {
	s := &session{
		id:       uuid.NewString(),
		mode:     ModeManual,
		draft:    trade.NewDraft(),
		lastSeen: d.now(),
	}

	d.mu.Lock()
	d.sessions[s.id] = s
	d.mu.Unlock()
	metrics.ActiveSessions.Inc()

	d.log.Debug().Str("session", s.id).Msg("session opened")

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Get returns the current view of a session
func (d *deskService) Get(id string) (SessionView, error) {
	s, err := d.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Close discards a session and everything in it
func (d *deskService) Close(id string) error {
	d.mu.Lock()
	_, ok := d.sessions[id]
	delete(d.sessions, id)
	d.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	metrics.ActiveSessions.Dec()
	d.log.Debug().Str("session", id).Msg("session closed")
	return nil
}

// SetMode switches between manual entry and the bot
func (d *deskService) SetMode(id string, mode Mode) (SessionView, error) {
	if mode != ModeManual && mode != ModeBot {
		return SessionView{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	s, err := d.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return s.view(), nil
}

// AddRow appends a blank row to the draft
func (d *deskService) AddRow(id string) (models.TradeInstruction, error) {
	s, err := d.lookup(id)
	if err != nil {
		return models.TradeInstruction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Add(), nil
}

// RemoveRow drops a row from the draft, keeping at least one
func (d *deskService) RemoveRow(id, rowID string) ([]models.TradeInstruction, error) {
	s, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.draft.Remove(rowID); err != nil {
		return nil, err
	}
	return s.draft.Rows(), nil
}

// EditRow sets one field on one row of the draft
func (d *deskService) EditRow(id, rowID, field string, value interface{}) (models.TradeInstruction, error) {
	s, err := d.lookup(id)
	if err != nil {
		return models.TradeInstruction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.draft.Edit(rowID, field, value); err != nil {
		return models.TradeInstruction{}, err
	}
	for _, r := range s.draft.Rows() {
		if r.ID == rowID {
			return r, nil
		}
	}
	return models.TradeInstruction{}, trade.ErrRowNotFound
}

// ReplaceRows swaps the whole draft
func (d *deskService) ReplaceRows(id string, rows []models.TradeInstruction) ([]models.TradeInstruction, error) {
	s, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Replace(rows)
	return s.draft.Rows(), nil
}

// Submit validates the draft and submits it as the session's trade list
func (d *deskService) Submit(ctx context.Context, id string) ([]trade.DisplayRow, error) {
	s, err := d.lookup(id)
	if err != nil {
		return nil, err
	}

	var submitted []models.TradeInstruction
	s.mu.Lock()
	err = s.draft.Submit(func(rows []models.TradeInstruction) {
		s.submitted = rows
		submitted = rows
	})
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return d.submitted(ctx, id, models.SourceManual, "", submitted), nil
}

// GenerateBot starts the mock bot for a session. The draft is replaced and
// submitted once the bot answers.
func (d *deskService) GenerateBot(id, strategy string) (SessionView, error) {
	strat, ok := d.catalog.Lookup(strategy)
	if !ok {
		return SessionView{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	s, err := d.lookup(id)
	if err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return SessionView{}, ErrBotBusy
	}
	s.generating = true
	s.mode = ModeBot
	s.strategy = strat.Key
	view := s.view()
	s.mu.Unlock()

	metrics.BotGenerationsTotal.WithLabelValues(strat.Key).Inc()
	d.publisher.Publish(models.Message{
		Type:      models.MessageBotGenerating,
		SessionID: id,
		Content:   map[string]string{"sessionId": id, "strategy": strat.Key},
	})

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.runBot(s, strat.Key)
	}()

	return view, nil
}

func (d *deskService) runBot(s *session, strategy string) {
	rows, err := d.bot.Generate(d.ctx, strategy)

	var submitted []models.TradeInstruction
	s.mu.Lock()
	s.generating = false
	if err == nil {
		s.draft.Replace(rows)
		err = s.draft.Submit(func(rows []models.TradeInstruction) {
			s.submitted = rows
			submitted = rows
		})
	}
	s.mu.Unlock()

	if err != nil {
		d.log.Warn().Err(err).Str("session", s.id).Msg("bot generation abandoned")
		return
	}
	if cur, lerr := d.lookup(s.id); lerr != nil || cur != s {
		// session went away while the bot was thinking
		return
	}
	d.submitted(d.ctx, s.id, models.SourceBot, strategy, submitted)
}

// submitted is where manual and bot submissions converge
func (d *deskService) submitted(ctx context.Context, id, source, strategy string, rows []models.TradeInstruction) []trade.DisplayRow {
	display := trade.Project(rows)

	metrics.SubmissionsTotal.WithLabelValues(source).Inc()
	for _, r := range rows {
		metrics.InstructionsTotal.WithLabelValues(metrics.DirectionLabel(string(r.Direction()))).Inc()
	}

	if err := d.journal.Record(ctx, newSubmission(id, source, strategy, rows)); err != nil {
		d.log.Error().Err(err).Str("session", id).Msg("failed to journal submission")
	}

	d.publisher.Publish(models.Message{
		Type:      models.MessageTradesSubmitted,
		SessionID: id,
		Content:   SubmittedEvent{
			SessionID: id,
			Source:    source,
			Strategy:  strategy,
			Trades:    display,
		},
	})

	d.log.Info().
		Str("session", id).
		Str("source", source).
		Str("strategy", strategy).
		Int("trades", len(rows)).
		Msg("trades submitted")

	return display
}

// Trades returns the display projection of the last submitted list
func (d *deskService) Trades(id string) ([]trade.DisplayRow, error) {
	s, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return trade.Project(s.submitted), nil
}

// Expire closes sessions that have not been touched for longer than idle.
// Sessions with a bot generation in flight are kept.
func (d *deskService) Expire(idle time.Duration) int {
	cutoff := d.now().Add(-idle)

	d.mu.Lock()
	defer d.mu.Unlock()

	expired := 0
	for id, s := range d.sessions {
		s.mu.Lock()
		stale := !s.generating && s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(d.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		metrics.ActiveSessions.Sub(float64(expired))
	}
	return expired
}

// Count returns the number of open sessions
func (d *deskService) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// Wait blocks until every running bot generation has finished
func (d *deskService) Wait() {
	d.wg.Wait()
}

func (d *deskService) lookup(id string) (*session, error) {
	d.mu.RLock()
	s, ok := d.sessions[id]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	s.lastSeen = d.now()
	s.mu.Unlock()
	return s, nil
}

// view must be called with s.mu held
func (s *session) view() SessionView {
	return SessionView{
		ID:         s.id,
		Mode:       s.mode,
		Draft:      s.draft.Rows(),
		Generating: s.generating,
		Strategy:   s.strategy,
		Trades:     trade.Project(s.submitted),
	}
}

func newSubmission(sessionID, source, strategy string, rows []models.TradeInstruction) *models.Submission {
	sub := &models.Submission{
		SessionID:    sessionID,
		Source:       source,
		Strategy:     strategy,
		Instructions: make([]models.SubmittedInstruction, 0, len(rows)),
	}
	for _, r := range rows {
		sub.Instructions = append(sub.Instructions, models.SubmittedInstruction{
			RowID:      r.ID,
			Symbol:     r.Symbol,
			EntryPrice: r.EntryPrice,
			ExitPrice:  r.ExitPrice,
			StopLoss:   r.StopLoss,
			LotSize:    r.LotSize,
			Direction:  r.Direction(),
		})
	}
	return sub
}
