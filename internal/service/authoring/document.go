package authoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docsmith/internal/config"
	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	"docsmith/internal/domain/repositories"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
	domainllm "docsmith/internal/domain/services/llm"
	llmsvc "docsmith/internal/service/llm"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sources reported with an outline suggestion
const (
	OutlineSourceAI       = "ai"
	OutlineSourceFallback = "fallback"
)

var outlineSuggestions = []string{
	"You can customize the generated structure before applying it",
	"Add or remove %ss as needed",
	"Edit titles to match your requirements",
}

// documentService implements the DocumentService interface
type documentService struct {
	projectRepo    authoringRepo.ProjectRepository
	docRepo        authoringRepo.DocumentRepository
	refinementRepo authoringRepo.RefinementRepository
	feedbackRepo   authoringRepo.FeedbackRepository
	txManager      repositories.TransactionManager
	outlines       domainllm.OutlineSuggester
	now            func() time.Time
	logger         *slog.Logger
}

// NewDocumentService creates a new document service. outlines may be nil,
// in which case suggestions always use the fallback outline.
func NewDocumentService(
	projectRepo authoringRepo.ProjectRepository,
	docRepo authoringRepo.DocumentRepository,
	refinementRepo authoringRepo.RefinementRepository,
	feedbackRepo authoringRepo.FeedbackRepository,
	txManager repositories.TransactionManager,
	outlines domainllm.OutlineSuggester,
	logger *slog.Logger,
) authoringSvc.DocumentService {
	return &documentService{
		projectRepo:    projectRepo,
		docRepo:        docRepo,
		refinementRepo: refinementRepo,
		feedbackRepo:   feedbackRepo,
		txManager:      txManager,
		outlines:       outlines,
		now:            time.Now,
		logger:         logger,
	}
}

// Configure creates the document or replaces its structure
func (s *documentService) Configure(ctx context.Context, projectID, userID string, req *authoringSvc.ConfigureDocumentRequest) (*models.Document, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID, userID); err != nil {
		return nil, err
	}

	structure, err := normalizeStructure(req.Structure)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var result *models.Document
	var created bool
	var pruned []string
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.docRepo.GetByProject(txCtx, projectID)
		if errors.Is(err, domain.ErrNotFound) {
			now := s.now()
			doc := &models.Document{
				ProjectID: projectID,
				Structure: structure,
				Content:   models.SectionContent{},
				Version:   1,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.docRepo.Create(txCtx, doc); err != nil {
				return err
			}
			result, created = doc, true
			return nil
		}
		if err != nil {
			return err
		}

		doc, err := s.docRepo.GetForUpdate(txCtx, existing.ID)
		if err != nil {
			return err
		}

		pruned = removedSections(doc.Structure, structure)
		if len(pruned) > 0 {
			content := doc.Content.Without(pruned...)
			if len(content) != len(doc.Content) {
				doc.Version++
			}
			doc.Content = content
			if err := s.refinementRepo.DeleteSections(txCtx, doc.ID, pruned); err != nil {
				return err
			}
			if err := s.feedbackRepo.DeleteSections(txCtx, doc.ID, pruned); err != nil {
				return err
			}
		}
		doc.Structure = structure
		doc.UpdatedAt = s.now()

		if err := s.docRepo.UpdateStructure(txCtx, doc); err != nil {
			return err
		}
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document configured",
		"project_id", projectID,
		"document_id", result.ID,
		"sections", len(structure),
		"created", created,
		"pruned", len(pruned),
		"version", result.Version,
	)
	return result, nil
}

// Reorder rewrites section orders to match the given id sequence
func (s *documentService) Reorder(ctx context.Context, projectID, userID string, req *authoringSvc.ReorderRequest) (*models.Document, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID, userID); err != nil {
		return nil, err
	}

	var result *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.docRepo.GetByProject(txCtx, projectID)
		if err != nil {
			return err
		}
		doc, err := s.docRepo.GetForUpdate(txCtx, existing.ID)
		if err != nil {
			return err
		}

		reordered, err := reorderStructure(doc.Structure, req.SectionIDs)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		doc.Structure = reordered
		doc.UpdatedAt = s.now()

		if err := s.docRepo.UpdateStructure(txCtx, doc); err != nil {
			return err
		}
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document reordered",
		"project_id", projectID,
		"document_id", result.ID,
	)
	return result, nil
}

// GetDocument returns the project's document
func (s *documentService) GetDocument(ctx context.Context, projectID, userID string) (*models.Document, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.docRepo.GetByProject(ctx, projectID)
}

// SuggestOutline asks the model for an outline, falling back to a fixed one
func (s *documentService) SuggestOutline(ctx context.Context, projectID, userID string, req *authoringSvc.SuggestOutlineRequest) (*authoringSvc.OutlineSuggestion, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(req.MainTopic)
	if topic == "" {
		topic = project.MainTopic
	}
	if len([]rune(topic)) > config.MaxMainTopicLength {
		return nil, fmt.Errorf("%w: main_topic: the length must be no more than %d", domain.ErrValidation, config.MaxMainTopicLength)
	}
	docType := project.DocumentType
	if req.DocumentType != "" && models.DocumentType(req.DocumentType) != docType {
		return nil, fmt.Errorf("%w: document_type: must match the project's type '%s'", domain.ErrValidation, docType)
	}

	suggestion := &authoringSvc.OutlineSuggestion{
		Suggestions: []string{
			outlineSuggestions[0],
			fmt.Sprintf(outlineSuggestions[1], docType.UnitName()),
			outlineSuggestions[2],
		},
	}

	if s.outlines != nil {
		structure, err := s.outlines.SuggestOutline(ctx, topic, docType)
		if err == nil {
			suggestion.Structure = structure
			suggestion.Source = OutlineSourceAI
			return suggestion, nil
		}
		s.logger.Warn("outline suggestion failed, using fallback",
			"project_id", projectID,
			"error", err,
		)
	}

	suggestion.Structure = llmsvc.FallbackOutline(docType)
	suggestion.Source = OutlineSourceFallback
	return suggestion, nil
}

// normalizeStructure trims ids and titles, validates, and sorts by order.
func normalizeStructure(in models.Structure) (models.Structure, error) {
	structure := make(models.Structure, len(in))
	for i, sec := range in {
		structure[i] = models.Section{
			ID:    strings.TrimSpace(sec.ID),
			Title: strings.TrimSpace(sec.Title),
			Order: sec.Order,
		}
	}

	err := validation.Validate(structure,
		validation.Required.Error("must contain at least one section"),
		validation.Length(1, config.MaxSections),
		validation.By(uniqueSections),
		validation.Each(validation.By(validateSection)),
	)
	if err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	return structure.Sorted(), nil
}

func validateSection(value interface{}) error {
	sec, ok := value.(models.Section)
	if !ok {
		return fmt.Errorf("must be a section")
	}
	return validation.ValidateStruct(&sec,
		validation.Field(&sec.ID,
			validation.Required,
			validation.RuneLength(1, config.MaxSectionIDLength),
		),
		validation.Field(&sec.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxSectionTitleLength),
		),
		validation.Field(&sec.Order, validation.Min(0)),
	)
}

func uniqueSections(value interface{}) error {
	structure, ok := value.(models.Structure)
	if !ok {
		return fmt.Errorf("must be a structure")
	}
	ids := make(map[string]bool, len(structure))
	orders := make(map[int]bool, len(structure))
	for _, sec := range structure {
		if ids[sec.ID] {
			return fmt.Errorf("duplicate section id '%s'", sec.ID)
		}
		if orders[sec.Order] {
			return fmt.Errorf("duplicate order %d", sec.Order)
		}
		ids[sec.ID] = true
		orders[sec.Order] = true
	}
	return nil
}

// removedSections lists ids present in old but not in updated
func removedSections(old, updated models.Structure) []string {
	var removed []string
	for _, sec := range old {
		if _, ok := updated.Find(sec.ID); !ok {
			removed = append(removed, sec.ID)
		}
	}
	return removed
}

// reorderStructure requires ids to be a permutation of the structure's ids
// and assigns orders 0..n-1 in that sequence.
func reorderStructure(structure models.Structure, ids []string) (models.Structure, error) {
	if len(ids) != len(structure) {
		return nil, fmt.Errorf("section_ids: expected %d ids, got %d", len(structure), len(ids))
	}
	seen := make(map[string]bool, len(ids))
	out := make(models.Structure, 0, len(ids))
	for i, id := range ids {
		sec, ok := structure.Find(id)
		if !ok {
			return nil, fmt.Errorf("section_ids: unknown section '%s'", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("section_ids: duplicate section '%s'", id)
		}
		seen[id] = true
		sec.Order = i
		out = append(out, sec)
	}
	return out, nil
}
