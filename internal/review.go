package internal

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReviewState is the position of a ReviewSession in the import workflow
type ReviewState int

const (
	AwaitingFile ReviewState = iota
	AwaitingCategorization
	ReviewDone
)

func (s ReviewState) String() string {
	switch s {
	case AwaitingFile:
		return "awaiting file"
	case AwaitingCategorization:
		return "awaiting categorization"
	case ReviewDone:
		return "done"
	default:
		return fmt.Sprintf("ReviewState(%d)", int(s))
	}
}

// ReviewSession walks the rows of one statement, one at a time. Each row is
// either saved as a transaction or deleted from the working set. The index
// only ever moves forward, and nothing is kept when a session is abandoned.
type ReviewSession struct {
	ID uuid.UUID

	writer       TransactionWriter
	categories   map[string]Category
	decimalComma bool

	rows    []StatementRow
	index   int
	state   ReviewState
	saved   int
	deleted int
}

// NewReviewSession creates a session in the AwaitingFile state. decimalComma
// controls how amounts typed during the review are parsed.
func NewReviewSession(writer TransactionWriter, decimalComma bool) (*ReviewSession, error) {
	categories, err := writer.Categories()
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	byName := make(map[string]Category, len(categories))
	for _, cat := range categories {
		byName[cat.Name] = cat
	}

	return &ReviewSession{
		ID:           uuid.New(),
		writer:       writer,
		categories:   byName,
		decimalComma: decimalComma,
		state:        AwaitingFile,
	}, nil
}

// Load starts the review of rows. Rows whose import hash is already stored
// are flagged as duplicates but stay in the working set.
func (s *ReviewSession) Load(rows []StatementRow) error {
	if s.state != AwaitingFile {
		return fmt.Errorf("cannot load a statement while %s", s.state)
	}

	working := make([]StatementRow, len(rows))
	copy(working, rows)
	for i := range working {
		exists, err := s.writer.ImportHashExists(working[i].Hash)
		if err != nil {
			return err
		}
		working[i].Duplicate = exists
	}

	s.rows = working
	s.index = 0
	s.state = AwaitingCategorization
	s.advance()

	log.Debug().Str("session", s.ID.String()).Int("rows", len(working)).Msg("review started")
	return nil
}

func (s *ReviewSession) State() ReviewState { return s.state }

// Index is the position of the current row in the working set
func (s *ReviewSession) Index() int { return s.index }

// Len is the size of the working set, which shrinks on Delete
func (s *ReviewSession) Len() int { return len(s.rows) }

func (s *ReviewSession) Remaining() int { return len(s.rows) - s.index }

func (s *ReviewSession) Saved() int { return s.saved }

func (s *ReviewSession) Deleted() int { return s.deleted }

// Rows returns a copy of the working set
func (s *ReviewSession) Rows() []StatementRow {
	rows := make([]StatementRow, len(s.rows))
	copy(rows, s.rows)
	return rows
}

// Categories returns the names a row may be saved under
func (s *ReviewSession) Categories() map[string]Category {
	return s.categories
}

// Current returns the row awaiting categorization
func (s *ReviewSession) Current() (StatementRow, error) {
	if err := s.checkActive(); err != nil {
		return StatementRow{}, err
	}
	return s.rows[s.index], nil
}

// Save parses amountText in the statement's number format and saves the
// current row with it. See SaveAmount.
func (s *ReviewSession) Save(amountText, category string) (Transaction, error) {
	if err := s.checkActive(); err != nil {
		return Transaction{}, err
	}

	amount, err := ParseAmount(amountText, s.decimalComma)
	if err != nil {
		return Transaction{}, err
	}
	return s.SaveAmount(amount, category)
}

// SaveAmount writes the current row as a transaction with the given amount and
// category, then moves to the next row. On any error the session is unchanged.
func (s *ReviewSession) SaveAmount(amount decimal.Decimal, category string) (Transaction, error) {
	if err := s.checkActive(); err != nil {
		return Transaction{}, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return Transaction{}, ErrNoCategorySelected
	}
	if _, ok := s.categories[category]; !ok {
		return Transaction{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	row := s.rows[s.index]
	tx := Transaction{
		Date:        DayOf(row.Date),
		Description: row.Description,
		Amount:      amount,
		Category:    category,
		Payee:       row.Payee,
		Month:       int(row.Date.Month()),
		Year:        row.Date.Year(),
		ImportHash:  row.Hash,
		ImportID:    s.ID.String(),
	}
	if err := s.writer.InsertTransaction(&tx); err != nil {
		return Transaction{}, err
	}

	s.index++
	s.saved++
	s.advance()
	return tx, nil
}

// Delete drops the current row without writing it. The index stays put and
// now points at the row that followed.
func (s *ReviewSession) Delete() error {
	if err := s.checkActive(); err != nil {
		return err
	}

	s.rows = append(s.rows[:s.index], s.rows[s.index+1:]...)
	s.deleted++
	s.advance()
	return nil
}

func (s *ReviewSession) checkActive() error {
	switch s.state {
	case AwaitingFile:
		return ErrReviewNotStarted
	case ReviewDone:
		return ErrReviewDone
	}
	return nil
}

func (s *ReviewSession) advance() {
	if s.index >= len(s.rows) {
		s.state = ReviewDone
		log.Debug().Str("session", s.ID.String()).Int("saved", s.saved).Int("deleted", s.deleted).Msg("review done")
	}
}
