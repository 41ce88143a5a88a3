package authoring

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"docsmith/internal/config"
	models "docsmith/internal/domain/models/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
	domainllm "docsmith/internal/domain/services/llm"
	"docsmith/internal/repository/memory"
)

const testUser = "user-1"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider writes deterministic text and fails for section titles
// registered with fail. Like a real client it gives up on a cancelled ctx.
type fakeProvider struct {
	mu        sync.Mutex
	failWith  map[string]error
	generated []*domainllm.GenerateSectionRequest
	refined   []*domainllm.RefineSectionRequest
	// gate, when set, blocks every call until it is closed
	gate chan struct{}
	// entered, when set, receives the section title as a call starts
	entered chan string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{failWith: map[string]error{}}
}

func (p *fakeProvider) fail(sectionTitle string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith[sectionTitle] = err
}

func (p *fakeProvider) GenerateSection(ctx context.Context, req *domainllm.GenerateSectionRequest) (string, error) {
	if p.entered != nil {
		p.entered <- req.SectionTitle
	}
	if p.gate != nil {
		<-p.gate
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generated = append(p.generated, req)
	if err := p.failWith[req.SectionTitle]; err != nil {
		return "", err
	}
	return fmt.Sprintf("Content for %s", req.SectionTitle), nil
}

func (p *fakeProvider) RefineSection(ctx context.Context, req *domainllm.RefineSectionRequest) (string, error) {
	if p.entered != nil {
		p.entered <- req.SectionTitle
	}
	if p.gate != nil {
		<-p.gate
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refined = append(p.refined, req)
	if err := p.failWith[req.SectionTitle]; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s [%s]", req.Existing, req.Instruction), nil
}

func (p *fakeProvider) generateRequests() []*domainllm.GenerateSectionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*domainllm.GenerateSectionRequest(nil), p.generated...)
}

// fakeOutlines returns a fixed structure or error
type fakeOutlines struct {
	structure models.Structure
	err       error
	topic     string
}

func (f *fakeOutlines) SuggestOutline(ctx context.Context, topic string, docType models.DocumentType) (models.Structure, error) {
	f.topic = topic
	return f.structure, f.err
}

type harness struct {
	repos    Repositories
	services *Services
	provider *fakeProvider
	project  *models.Project
}

func testConfig() *config.Config {
	return &config.Config{
		RefinementHistoryLimit:  config.DefaultRefinementHistoryLimit,
		GenerationContextWindow: config.DefaultGenerationContextWindow,
	}
}

func newHarness(t *testing.T, outlines domainllm.OutlineSuggester) *harness {
	t.Helper()
	store := memory.NewStore()
	repos := Repositories{
		Projects:    memory.NewProjectRepository(store),
		Documents:   memory.NewDocumentRepository(store),
		Refinements: memory.NewRefinementRepository(store),
		Feedback:    memory.NewFeedbackRepository(store),
		Templates:   memory.NewTemplateRepository(store),
		Tx:          store.TransactionManager(),
	}
	provider := newFakeProvider()
	h := &harness{
		repos:    repos,
		services: SetupServices(repos, provider, outlines, testConfig(), discardLogger()),
		provider: provider,
	}

	project, err := h.services.Project.CreateProject(context.Background(), &authoringSvc.CreateProjectRequest{
		UserID:       testUser,
		Title:        "EV Batteries",
		DocumentType: string(models.DocumentTypeWord),
		MainTopic:    "Battery market outlook",
	})
	require.NoError(t, err)
	h.project = project
	return h
}

// configure saves the given section titles as section-1..n
func (h *harness) configure(t *testing.T, titles ...string) *models.Document {
	t.Helper()
	structure := make(models.Structure, len(titles))
	for i, title := range titles {
		structure[i] = models.Section{ID: fmt.Sprintf("section-%d", i+1), Title: title, Order: i}
	}
	doc, err := h.services.Document.Configure(context.Background(), h.project.ID, testUser,
		&authoringSvc.ConfigureDocumentRequest{Structure: structure})
	require.NoError(t, err)
	return doc
}

func (h *harness) document(t *testing.T) *models.Document {
	t.Helper()
	doc, err := h.repos.Documents.GetByProject(context.Background(), h.project.ID)
	require.NoError(t, err)
	return doc
}
