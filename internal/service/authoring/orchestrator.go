package authoring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	"docsmith/internal/domain/repositories"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
	domainllm "docsmith/internal/domain/services/llm"
)

// OrchestratorConfig tunes history retention and generation context.
type OrchestratorConfig struct {
	// HistoryLimit is how many ledger records are kept per section
	HistoryLimit int
	// ContextWindow is how many preceding generated sections go to the provider
	ContextWindow int
	// Now is the clock; nil means time.Now
	Now func() time.Time
}

// Orchestrator coordinates content, ledger and feedback for one section at
// a time. Each operation reads under a per-document lock, calls the
// provider without holding it, then applies all writes in one transaction
// under the lock again. A failed provider call writes nothing.
type Orchestrator struct {
	docs     authoringRepo.DocumentRepository
	tx       repositories.TransactionManager
	provider domainllm.ContentProvider
	content  *contentStore
	ledger   *ledger
	feedback *feedbackRegister
	locks    *keyedMutex
	window   int
	logger   *slog.Logger
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(
	docs authoringRepo.DocumentRepository,
	refinements authoringRepo.RefinementRepository,
	feedback authoringRepo.FeedbackRepository,
	tx repositories.TransactionManager,
	provider domainllm.ContentProvider,
	cfg OrchestratorConfig,
	logger *slog.Logger,
) *Orchestrator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	keep := cfg.HistoryLimit
	if keep <= 0 {
		keep = 3
	}
	return &Orchestrator{
		docs:     docs,
		tx:       tx,
		provider: provider,
		content:  &contentStore{docs: docs, now: now},
		ledger:   &ledger{repo: refinements, keep: keep, now: now},
		feedback: &feedbackRegister{repo: feedback},
		locks:    newKeyedMutex(),
		window:   cfg.ContextWindow,
		logger:   logger,
	}
}

// Generate fills a section that has no content yet. No ledger entry.
func (o *Orchestrator) Generate(ctx context.Context, project *models.Project, sectionID string) (*authoringSvc.SectionResult, error) {
	unlock := o.locks.Lock(project.ID)
	doc, err := o.docs.GetByProject(ctx, project.ID)
	if err != nil {
		unlock()
		return nil, err
	}
	section, ok := doc.Structure.Find(sectionID)
	if !ok {
		unlock()
		return nil, domain.NewSectionError(domain.ErrSectionNotFound, sectionID)
	}
	if doc.HasContent(sectionID) {
		unlock()
		return nil, domain.NewSectionError(domain.ErrContentExists, sectionID)
	}
	req := &domainllm.GenerateSectionRequest{
		Topic:        project.MainTopic,
		DocumentType: project.DocumentType,
		SectionTitle: section.Title,
		Preceding:    o.preceding(doc, sectionID),
	}
	unlock()

	// Detached: a committed write must not depend on the client staying connected
	ctx = context.WithoutCancel(ctx)

	text, err := o.provider.GenerateSection(ctx, req)
	if err != nil {
		o.logger.Error("section generation failed",
			"project_id", project.ID,
			"document_id", doc.ID,
			"section_id", sectionID,
			"error", err,
		)
		return nil, &domain.SectionError{Kind: domain.ErrGenerationFailed, SectionID: sectionID, Cause: err}
	}

	unlock = o.locks.Lock(project.ID)
	defer unlock()

	var updated *models.Document
	err = o.tx.ExecTx(ctx, func(txCtx context.Context) error {
		updated, err = o.content.Create(txCtx, doc.ID, sectionID, text)
		return err
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("section generated",
		"document_id", doc.ID,
		"section_id", sectionID,
		"version", updated.Version,
		"context_sections", len(req.Preceding),
	)
	return &authoringSvc.SectionResult{SectionID: sectionID, Content: text, Version: updated.Version}, nil
}

// Refine rewrites existing content. The content write, ledger append and
// trim, and feedback reset commit together or not at all.
func (o *Orchestrator) Refine(ctx context.Context, project *models.Project, sectionID, prompt string) (*authoringSvc.SectionResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt: cannot be blank", domain.ErrValidation)
	}

	unlock := o.locks.Lock(project.ID)
	doc, err := o.docs.GetByProject(ctx, project.ID)
	if err != nil {
		unlock()
		return nil, err
	}
	section, ok := doc.Structure.Find(sectionID)
	if !ok {
		unlock()
		return nil, domain.NewSectionError(domain.ErrSectionNotFound, sectionID)
	}
	existing, ok := o.content.Read(doc, sectionID)
	if !ok {
		unlock()
		return nil, domain.NewSectionError(domain.ErrNoContentToRefine, sectionID)
	}
	unlock()

	ctx = context.WithoutCancel(ctx)

	text, err := o.provider.RefineSection(ctx, &domainllm.RefineSectionRequest{
		Topic:        project.MainTopic,
		DocumentType: project.DocumentType,
		SectionTitle: section.Title,
		Existing:     existing,
		Instruction:  prompt,
	})
	if err != nil {
		o.logger.Error("section refinement failed",
			"document_id", doc.ID,
			"section_id", sectionID,
			"error", err,
		)
		return nil, &domain.SectionError{Kind: domain.ErrRefinementFailed, SectionID: sectionID, Cause: err}
	}

	unlock = o.locks.Lock(project.ID)
	defer unlock()

	var updated *models.Document
	var trimmed int
	err = o.tx.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = o.content.Replace(txCtx, doc.ID, sectionID, text)
		if err != nil {
			return err
		}
		if _, trimmed, err = o.ledger.Append(txCtx, doc.ID, sectionID, &prompt, nil); err != nil {
			return err
		}
		// The reaction was about the old text
		return o.feedback.Reset(txCtx, doc.ID, sectionID)
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("section refined",
		"document_id", doc.ID,
		"section_id", sectionID,
		"version", updated.Version,
		"ledger_trimmed", trimmed,
	)
	return &authoringSvc.SectionResult{SectionID: sectionID, Content: text, Version: updated.Version}, nil
}

// AddComment records a comment; content, version and feedback are untouched
func (o *Orchestrator) AddComment(ctx context.Context, project *models.Project, sectionID, comment string) (*models.RefinementRecord, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment: cannot be blank", domain.ErrValidation)
	}

	unlock := o.locks.Lock(project.ID)
	defer unlock()

	var rec *models.RefinementRecord
	err := o.withLockedSection(ctx, project.ID, sectionID, func(txCtx context.Context, doc *models.Document) error {
		var err error
		rec, _, err = o.ledger.Append(txCtx, doc.ID, sectionID, nil, &comment)
		return err
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("section comment added",
		"document_id", rec.DocumentID,
		"section_id", sectionID,
	)
	return rec, nil
}

// SetFeedback applies a like/dislike click; a nil reaction resets.
func (o *Orchestrator) SetFeedback(ctx context.Context, project *models.Project, sectionID string, reaction *models.Reaction) (*authoringSvc.FeedbackResult, error) {
	if reaction != nil {
		if _, err := models.ParseReaction(string(*reaction)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidReaction, err)
		}
	}

	unlock := o.locks.Lock(project.ID)
	defer unlock()

	result := &authoringSvc.FeedbackResult{SectionID: sectionID}
	err := o.withLockedSection(ctx, project.ID, sectionID, func(txCtx context.Context, doc *models.Document) error {
		rec, state, err := o.feedback.Set(txCtx, doc.ID, sectionID, reaction)
		if err != nil {
			return err
		}
		result.Record = rec
		result.State = state.String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug("section feedback set",
		"project_id", project.ID,
		"section_id", sectionID,
		"state", result.State,
	)
	return result, nil
}

// FeedbackMap returns section id -> reaction for sections with feedback
func (o *Orchestrator) FeedbackMap(ctx context.Context, project *models.Project) (map[string]models.Reaction, error) {
	doc, err := o.docs.GetByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return o.feedback.Map(ctx, doc.ID)
}

// History lists ledger records newest first
func (o *Orchestrator) History(ctx context.Context, project *models.Project, q authoringSvc.HistoryQuery) (*models.RefinementPage, error) {
	doc, err := o.docs.GetByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if q.SectionID != "" {
		if _, ok := doc.Structure.Find(q.SectionID); !ok {
			return nil, domain.NewSectionError(domain.ErrSectionNotFound, q.SectionID)
		}
	}
	return o.ledger.Page(ctx, doc.ID, q.SectionID, q.Offset, q.Limit)
}

// withLockedSection runs fn in a transaction holding the document row lock,
// after checking the section exists and has content.
func (o *Orchestrator) withLockedSection(ctx context.Context, projectID, sectionID string, fn func(context.Context, *models.Document) error) error {
	doc, err := o.docs.GetByProject(ctx, projectID)
	if err != nil {
		return err
	}
	return o.tx.ExecTx(ctx, func(txCtx context.Context) error {
		locked, err := o.docs.GetForUpdate(txCtx, doc.ID)
		if err != nil {
			return err
		}
		if _, ok := locked.Structure.Find(sectionID); !ok {
			return domain.NewSectionError(domain.ErrSectionNotFound, sectionID)
		}
		if !locked.HasContent(sectionID) {
			return domain.NewSectionError(domain.ErrNoContentToRefine, sectionID)
		}
		return fn(txCtx, locked)
	})
}

// preceding returns up to window generated sections placed before sectionID
func (o *Orchestrator) preceding(doc *models.Document, sectionID string) []domainllm.PrecedingSection {
	if o.window <= 0 {
		return nil
	}
	var before []domainllm.PrecedingSection
	for _, sec := range doc.Structure.Sorted() {
		if sec.ID == sectionID {
			break
		}
		if text, ok := doc.Content.Get(sec.ID); ok {
			before = append(before, domainllm.PrecedingSection{Title: sec.Title, Content: text})
		}
	}
	if len(before) > o.window {
		before = before[len(before)-o.window:]
	}
	return before
}
