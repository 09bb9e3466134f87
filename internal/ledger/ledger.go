// ABOUTME: Ledger ties the meal ledger, daily aggregates, combos and weights together.
// ABOUTME: All reads and writes go through an explicitly passed storage.Repository.
package ledger

import (
	"errors"
	"time"

	"github.com/harperreed/nutrition/internal/logger"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
)

// ErrInvalidInput is returned for writes that would create meaningless rows,
// such as a non-positive weight or an empty combo.
var ErrInvalidInput = errors.New("invalid input")

// Ledger is the write and read API over one storage handle.
type Ledger struct {
	repo storage.Repository
	log  *logger.Logger
	now  func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *logger.Logger) Option {
	return func(lg *Ledger) {
		lg.log = logger.OrNop(l)
	}
}

// WithClock sets the clock used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(lg *Ledger) {
		if now != nil {
			lg.now = now
		}
	}
}

// New returns a Ledger over repo.
func New(repo storage.Repository, opts ...Option) *Ledger {
	l := &Ledger{
		repo: repo,
		log:  logger.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Repository returns the underlying storage handle.
func (l *Ledger) Repository() storage.Repository {
	return l.repo
}

// Today returns the current day according to the ledger's clock.
func (l *Ledger) Today() models.Date {
	return models.DateOf(l.now())
}
