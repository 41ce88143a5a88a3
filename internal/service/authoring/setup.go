package authoring

import (
	"log/slog"

	"docsmith/internal/config"
	"docsmith/internal/domain/repositories"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
	domainllm "docsmith/internal/domain/services/llm"
)

// Repositories groups the storage dependencies of the authoring services
type Repositories struct {
	Projects    authoringRepo.ProjectRepository
	Documents   authoringRepo.DocumentRepository
	Refinements authoringRepo.RefinementRepository
	Feedback    authoringRepo.FeedbackRepository
	Templates   authoringRepo.TemplateRepository
	Tx          repositories.TransactionManager
}

// Services holds all authoring services
type Services struct {
	Project    authoringSvc.ProjectService
	Document   authoringSvc.DocumentService
	Section    authoringSvc.SectionService
	Generation authoringSvc.GenerationService
	Template   authoringSvc.TemplateService
}

// SetupServices wires the authoring services around one shared orchestrator
func SetupServices(
	repos Repositories,
	content domainllm.ContentProvider,
	outlines domainllm.OutlineSuggester,
	cfg *config.Config,
	logger *slog.Logger,
) *Services {
	orchestrator := NewOrchestrator(
		repos.Documents,
		repos.Refinements,
		repos.Feedback,
		repos.Tx,
		content,
		OrchestratorConfig{
			HistoryLimit:  cfg.RefinementHistoryLimit,
			ContextWindow: cfg.GenerationContextWindow,
		},
		logger,
	)

	logger.Info("authoring services initialized",
		"history_limit", cfg.RefinementHistoryLimit,
		"context_window", cfg.GenerationContextWindow,
	)

	return &Services{
		Project:    NewProjectService(repos.Projects, logger),
		Document:   NewDocumentService(repos.Projects, repos.Documents, repos.Refinements, repos.Feedback, repos.Tx, outlines, logger),
		Section:    NewSectionService(repos.Projects, orchestrator),
		Generation: NewGenerationService(repos.Projects, repos.Documents, orchestrator, logger),
		Template:   NewTemplateService(repos.Templates, repos.Tx, logger),
	}
}
