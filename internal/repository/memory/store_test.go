package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
)

type fixture struct {
	store       *Store
	projects    authoringRepo.ProjectRepository
	documents   authoringRepo.DocumentRepository
	refinements authoringRepo.RefinementRepository
	feedback    authoringRepo.FeedbackRepository
	project     *models.Project
	doc         *models.Document
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := NewStore()
	f := &fixture{
		store:       store,
		projects:    NewProjectRepository(store),
		documents:   NewDocumentRepository(store),
		refinements: NewRefinementRepository(store),
		feedback:    NewFeedbackRepository(store),
	}

	ctx := context.Background()
	f.project = &models.Project{
		UserID:       "user-1",
		Title:        "Report",
		DocumentType: models.DocumentTypeWord,
		MainTopic:    "Batteries",
	}
	require.NoError(t, f.projects.Create(ctx, f.project))

	f.doc = &models.Document{
		ProjectID: f.project.ID,
		Structure: models.Structure{
			{ID: "s1", Title: "One", Order: 0},
			{ID: "s2", Title: "Two", Order: 1},
		},
		Version: 1,
	}
	require.NoError(t, f.documents.Create(ctx, f.doc))
	return f
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.store.TransactionManager()

	boom := errors.New("boom")
	err := tm.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := f.documents.GetForUpdate(txCtx, f.doc.ID)
		require.NoError(t, err)
		doc.Content = doc.Content.With("s1", "text")
		doc.Version++
		require.NoError(t, f.documents.UpdateContent(txCtx, doc))
		require.NoError(t, f.refinements.Insert(txCtx, &models.RefinementRecord{
			DocumentID: f.doc.ID,
			SectionID:  "s1",
			CreatedAt:  time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	doc, err := f.documents.GetByProject(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version)
	assert.False(t, doc.HasContent("s1"))

	n, err := f.refinements.Count(ctx, f.doc.ID, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExecTx_RollbackKeepsWritesOutsideTheTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- f.store.TransactionManager().ExecTx(ctx, func(txCtx context.Context) error {
			close(entered)
			<-release
			return errors.New("boom")
		})
	}()
	<-entered

	other := &models.Project{
		UserID:       "user-2",
		Title:        "Other",
		DocumentType: models.DocumentTypePowerPoint,
		MainTopic:    "Solar",
	}
	created := make(chan error, 1)
	go func() { created <- f.projects.Create(ctx, other) }()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-created:
		t.Fatal("write outside the transaction finished while it was open")
	default:
	}

	close(release)
	require.Error(t, <-txDone)
	require.NoError(t, <-created)

	got, err := f.projects.GetByID(ctx, other.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "Other", got.Title)
}

func TestExecTx_CommitsAndNests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := f.store.TransactionManager()

	err := tm.ExecTx(ctx, func(txCtx context.Context) error {
		return tm.ExecTx(txCtx, func(inner context.Context) error {
			doc, err := f.documents.GetForUpdate(inner, f.doc.ID)
			if err != nil {
				return err
			}
			doc.Content = doc.Content.With("s2", "two")
			doc.Version++
			return f.documents.UpdateContent(inner, doc)
		})
	})
	require.NoError(t, err)

	doc, err := f.documents.GetByProject(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "two", doc.Content["s2"])
}

func TestGetForUpdate_RequiresTransaction(t *testing.T) {
	f := newFixture(t)
	_, err := f.documents.GetForUpdate(context.Background(), f.doc.ID)
	assert.Error(t, err)
}

func TestDocumentRepository_CreateTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	err := f.documents.Create(context.Background(), &models.Document{ProjectID: f.project.ID, Version: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDocumentRepository_ReturnsCopies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.documents.GetByProject(ctx, f.project.ID)
	require.NoError(t, err)
	doc.Content["s1"] = "leaked"
	doc.Structure[0].Title = "leaked"

	again, err := f.documents.GetByProject(ctx, f.project.ID)
	require.NoError(t, err)
	assert.False(t, again.HasContent("s1"))
	assert.Equal(t, "One", again.Structure[0].Title)
}

func TestFeedbackRepository_Save(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.feedback.Save(ctx, f.doc.ID, "s1", models.FeedbackLike))
	first, err := f.feedback.Get(ctx, f.doc.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.ReactionLike, first.Reaction)

	require.NoError(t, f.feedback.Save(ctx, f.doc.ID, "s1", models.FeedbackDislike))
	switched, err := f.feedback.Get(ctx, f.doc.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.ReactionDislike, switched.Reaction)
	assert.Equal(t, first.ID, switched.ID, "switching updates the row in place")

	require.NoError(t, f.feedback.Save(ctx, f.doc.ID, "s1", models.FeedbackNone))
	_, err = f.feedback.Get(ctx, f.doc.ID, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Clearing an absent row is a no-op
	require.NoError(t, f.feedback.Save(ctx, f.doc.ID, "s1", models.FeedbackNone))
}

func TestFeedbackRepository_SaveRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.feedback.Save(ctx, f.doc.ID, "s1", models.FeedbackState(7))
	assert.ErrorIs(t, err, domain.ErrInvalidReaction)

	err = f.feedback.Save(ctx, "missing-doc", "s1", models.FeedbackLike)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedbackRepository_OneRowPerSection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.feedback.Save(ctx, f.doc.ID, "s1", models.FeedbackLike))
	require.NoError(t, f.feedback.Save(ctx, f.doc.ID, "s2", models.FeedbackDislike))
	require.NoError(t, f.feedback.Save(ctx, f.doc.ID, "s1", models.FeedbackDislike))

	records, err := f.feedback.ListByDocument(ctx, f.doc.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "s1", records[0].SectionID)
	assert.Equal(t, models.ReactionDislike, records[0].Reaction)
	assert.Equal(t, "s2", records[1].SectionID)
}

func TestRefinementRepository_TrimKeepsNewest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Same timestamp for all; insertion order must still decide
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	prompts := []string{"p1", "p2", "p3", "p4", "p5"}
	for i := range prompts {
		require.NoError(t, f.refinements.Insert(ctx, &models.RefinementRecord{
			DocumentID: f.doc.ID,
			SectionID:  "s1",
			Prompt:     &prompts[i],
			CreatedAt:  at,
		}))
	}
	require.NoError(t, f.refinements.Insert(ctx, &models.RefinementRecord{
		DocumentID: f.doc.ID,
		SectionID:  "s2",
		Prompt:     &prompts[0],
		CreatedAt:  at,
	}))

	deleted, err := f.refinements.Trim(ctx, f.doc.ID, "s1", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	items, err := f.refinements.List(ctx, f.doc.ID, "s1", 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "p5", *items[0].Prompt)
	assert.Equal(t, "p4", *items[1].Prompt)
	assert.Equal(t, "p3", *items[2].Prompt)

	n, err := f.refinements.Count(ctx, f.doc.ID, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	deleted, err = f.refinements.Trim(ctx, f.doc.ID, "s1", 3)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRefinementRepository_ListPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		comment := string(rune('a' + i))
		require.NoError(t, f.refinements.Insert(ctx, &models.RefinementRecord{
			DocumentID: f.doc.ID,
			SectionID:  "s1",
			Comment:    &comment,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := f.refinements.List(ctx, f.doc.ID, "", 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c", *page[0].Comment)
	assert.Equal(t, "b", *page[1].Comment)

	empty, err := f.refinements.List(ctx, f.doc.ID, "", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prompt := "shorter"
	require.NoError(t, f.refinements.Insert(ctx, &models.RefinementRecord{
		DocumentID: f.doc.ID, SectionID: "s1", Prompt: &prompt, CreatedAt: time.Now(),
	}))
	require.NoError(t, f.feedback.Save(ctx, f.doc.ID, "s1", models.FeedbackLike))

	// Wrong owner reads as not found
	err := f.projects.Delete(ctx, f.project.ID, "someone-else")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.projects.Delete(ctx, f.project.ID, "user-1"))

	_, err = f.documents.GetByProject(ctx, f.project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, err := f.refinements.Count(ctx, f.doc.ID, "")
	require.NoError(t, err)
	assert.Zero(t, n)
	records, err := f.feedback.ListByDocument(ctx, f.doc.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProjectRepository_ListIsPerUserNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	newer := &models.Project{
		UserID:       "user-1",
		Title:        "Deck",
		DocumentType: models.DocumentTypePowerPoint,
		MainTopic:    "Onboarding",
		UpdatedAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, f.projects.Create(ctx, newer))
	other := &models.Project{UserID: "user-2", Title: "x", DocumentType: models.DocumentTypeWord, MainTopic: "y"}
	require.NoError(t, f.projects.Create(ctx, other))

	list, err := f.projects.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	_, err = f.projects.GetByID(ctx, other.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
