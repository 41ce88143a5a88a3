// Package memory implements the authoring repositories in process memory.
// It backs STORAGE=memory and the service tests.
package memory

import (
	"context"
	"sync"

	models "docsmith/internal/domain/models/authoring"
	"docsmith/internal/domain/repositories"
)

type feedbackKey struct {
	documentID string
	sectionID  string
}

type state struct {
	projects     map[string]models.Project
	documents    map[string]*models.Document // by document id
	docByProject map[string]string
	refinements  []models.RefinementRecord
	feedback     map[feedbackKey]models.FeedbackRecord
	templates    map[string]models.Template
	seq          int64
}

func newState() *state {
	return &state{
		projects:     map[string]models.Project{},
		documents:    map[string]*models.Document{},
		docByProject: map[string]string{},
		feedback:     map[feedbackKey]models.FeedbackRecord{},
		templates:    map[string]models.Template{},
	}
}

func (s *state) clone() *state {
	out := &state{
		projects:     make(map[string]models.Project, len(s.projects)),
		documents:    make(map[string]*models.Document, len(s.documents)),
		docByProject: make(map[string]string, len(s.docByProject)),
		refinements:  append([]models.RefinementRecord(nil), s.refinements...),
		feedback:     make(map[feedbackKey]models.FeedbackRecord, len(s.feedback)),
		templates:    make(map[string]models.Template, len(s.templates)),
		seq:          s.seq,
	}
	for k, v := range s.projects {
		out.projects[k] = v
	}
	for k, v := range s.documents {
		out.documents[k] = v.Clone()
	}
	for k, v := range s.docByProject {
		out.docByProject[k] = v
	}
	for k, v := range s.feedback {
		out.feedback[k] = v
	}
	for k, v := range s.templates {
		out.templates[k] = v
	}
	return out
}

// Store holds all tables. Transactions are serialized: ExecTx holds txMu for
// the whole unit of work and restores a snapshot if it fails, which gives
// GetForUpdate its row-lock semantics. Writes outside a transaction also
// take txMu, so a rollback can only undo writes made by its own unit of work.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data *state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newState()}
}

// lockWrite takes the locks a mutating repository call needs and returns
// the matching unlock.
func (s *Store) lockWrite(ctx context.Context) (unlock func()) {
	joined := inTx(ctx)
	if !joined {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !joined {
			s.txMu.Unlock()
		}
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// TransactionManager returns a transaction manager over the store
func (s *Store) TransactionManager() repositories.TransactionManager {
	return &transactionManager{store: s}
}

type transactionManager struct {
	store *Store
}

// ExecTx runs fn exclusively; a non-nil error rolls the store back.
// Nested calls join the outer transaction.
func (tm *transactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s := tm.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}
