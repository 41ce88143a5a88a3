package authoring

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
)

func like() *models.Reaction    { r := models.ReactionLike; return &r }
func dislike() *models.Reaction { r := models.ReactionDislike; return &r }

func TestGenerateSection(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction", "Analysis")
	ctx := context.Background()

	res, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)
	assert.Equal(t, "Content for Introduction", res.Content)
	assert.Equal(t, 2, res.Version)

	doc := h.document(t)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "Content for Introduction", doc.Content["section-1"])
	assert.False(t, doc.HasContent("section-2"))

	// Generation does not write the ledger
	page, err := h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestGenerateSection_Errors(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()

	_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)

	_, err = h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	assert.ErrorIs(t, err, domain.ErrContentExists)

	_, err = h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-9")
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)

	_, err = h.services.Section.GenerateSection(ctx, h.project.ID, "intruder", "section-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, h.document(t).Version)
}

func TestGenerateSection_ProviderFailureWritesNothing(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	cause := errors.New("model unavailable")
	h.provider.fail("Introduction", cause)

	_, err := h.services.Section.GenerateSection(context.Background(), h.project.ID, testUser, "section-1")
	require.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)

	var secErr *domain.SectionError
	require.True(t, errors.As(err, &secErr))
	assert.Equal(t, "section-1", secErr.SectionID)

	doc := h.document(t)
	assert.Equal(t, 1, doc.Version)
	assert.False(t, doc.HasContent("section-1"))
}

func TestGenerateSection_SurvivesCancelledCaller(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Version)
	assert.True(t, h.document(t).HasContent("section-1"))
}

func TestGenerateSection_PrecedingWindow(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "One", "Two", "Three", "Four", "Five")
	ctx := context.Background()

	// Leave "Two" empty: it must not appear as context
	for _, id := range []string{"section-1", "section-3", "section-4"} {
		_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, id)
		require.NoError(t, err)
	}
	_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-5")
	require.NoError(t, err)

	reqs := h.provider.generateRequests()
	require.Len(t, reqs, 4)
	assert.Empty(t, reqs[0].Preceding)

	last := reqs[3]
	assert.Equal(t, "Five", last.SectionTitle)
	assert.Equal(t, "Battery market outlook", last.Topic)
	assert.Equal(t, models.DocumentTypeWord, last.DocumentType)
	require.Len(t, last.Preceding, 3)
	assert.Equal(t, "One", last.Preceding[0].Title)
	assert.Equal(t, "Three", last.Preceding[1].Title)
	assert.Equal(t, "Four", last.Preceding[2].Title)
	assert.Equal(t, "Content for Four", last.Preceding[2].Content)

	h.configure(t, "One", "Two", "Three", "Four", "Five", "Six")
	_, err = h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-6")
	require.NoError(t, err)
	reqs = h.provider.generateRequests()
	titles := []string{}
	for _, p := range reqs[len(reqs)-1].Preceding {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Three", "Four", "Five"}, titles)
}

func TestRefineSection(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()

	_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)
	_, err = h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", like())
	require.NoError(t, err)

	res, err := h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
		SectionID: "section-1",
		Prompt:    "  make it shorter  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Content for Introduction [make it shorter]", res.Content)
	assert.Equal(t, 3, res.Version)

	page, err := h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{SectionID: "section-1"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.NotNil(t, page.Items[0].Prompt)
	assert.Equal(t, "make it shorter", *page.Items[0].Prompt)
	assert.Nil(t, page.Items[0].Comment)

	// Refinement resets feedback
	fb, err := h.services.Section.FeedbackMap(ctx, h.project.ID, testUser)
	require.NoError(t, err)
	assert.Empty(t, fb)
}

func TestRefineSection_Errors(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()

	_, err := h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
		SectionID: "section-1", Prompt: "shorter",
	})
	assert.ErrorIs(t, err, domain.ErrNoContentToRefine)

	_, err = h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
		SectionID: "nope", Prompt: "shorter",
	})
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)

	_, err = h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
		SectionID: "section-1", Prompt: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 1, h.document(t).Version)
}

func TestRefineSection_ProviderFailureKeepsState(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()

	_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)
	_, err = h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", dislike())
	require.NoError(t, err)

	h.provider.fail("Introduction", errors.New("rate limited"))
	_, err = h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
		SectionID: "section-1", Prompt: "shorter",
	})
	require.ErrorIs(t, err, domain.ErrRefinementFailed)

	doc := h.document(t)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "Content for Introduction", doc.Content["section-1"])

	page, err := h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	fb, err := h.services.Section.FeedbackMap(ctx, h.project.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Reaction{"section-1": models.ReactionDislike}, fb)
}

func TestRefineSection_LedgerKeepsNewestThree(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction", "Analysis")
	ctx := context.Background()

	for _, id := range []string{"section-1", "section-2"} {
		_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, id)
		require.NoError(t, err)
	}
	_, err := h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
		SectionID: "section-2", Prompt: "other section",
	})
	require.NoError(t, err)

	prompts := []string{"p1", "p2", "p3", "p4", "p5"}
	var last *authoringSvc.SectionResult
	for _, p := range prompts {
		last, err = h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
			SectionID: "section-1", Prompt: p,
		})
		require.NoError(t, err)
	}
	// 1 + 2 generations + 6 refinements
	assert.Equal(t, 9, last.Version)

	page, err := h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{SectionID: "section-1"})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	got := []string{}
	for _, item := range page.Items {
		got = append(got, *item.Prompt)
	}
	assert.Equal(t, []string{"p5", "p4", "p3"}, got)

	other, err := h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{SectionID: "section-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, other.Total)
}

func TestAddComment(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()

	_, err := h.services.Section.AddComment(ctx, h.project.ID, testUser, &authoringSvc.CommentRequest{
		SectionID: "section-1", Comment: "needs numbers",
	})
	assert.ErrorIs(t, err, domain.ErrNoContentToRefine)

	_, err = h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)
	_, err = h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", like())
	require.NoError(t, err)

	rec, err := h.services.Section.AddComment(ctx, h.project.ID, testUser, &authoringSvc.CommentRequest{
		SectionID: "section-1", Comment: " needs numbers ",
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Comment)
	assert.Equal(t, "needs numbers", *rec.Comment)
	assert.Nil(t, rec.Prompt)
	assert.NotEmpty(t, rec.ID)

	// Comments leave content, version and feedback alone
	doc := h.document(t)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "Content for Introduction", doc.Content["section-1"])
	fb, err := h.services.Section.FeedbackMap(ctx, h.project.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionLike, fb["section-1"])

	_, err = h.services.Section.AddComment(ctx, h.project.ID, testUser, &authoringSvc.CommentRequest{
		SectionID: "section-1", Comment: "  ",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetFeedback_Toggle(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()
	_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)

	steps := []struct {
		name  string
		click *models.Reaction
		state string
	}{
		{name: "like", click: like(), state: "LIKE"},
		{name: "like again clears", click: like(), state: "NONE"},
		{name: "dislike", click: dislike(), state: "DISLIKE"},
		{name: "switch to like", click: like(), state: "LIKE"},
		{name: "null resets", click: nil, state: "NONE"},
		{name: "null on none is a no-op", click: nil, state: "NONE"},
	}

	for _, step := range steps {
		res, err := h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", step.click)
		require.NoError(t, err, step.name)
		assert.Equal(t, step.state, res.State, step.name)
		if step.state == "NONE" {
			assert.Nil(t, res.Record, step.name)
		} else {
			require.NotNil(t, res.Record, step.name)
			assert.Equal(t, step.state, models.StateOf(&res.Record.Reaction).String(), step.name)
		}
	}

	// Feedback never touches the version
	assert.Equal(t, 2, h.document(t).Version)
}

func TestSetFeedback_Errors(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()

	_, err := h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", like())
	assert.ErrorIs(t, err, domain.ErrNoContentToRefine)

	_, err = h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "ghost", like())
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)

	love := models.Reaction("love")
	_, err = h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", &love)
	assert.ErrorIs(t, err, domain.ErrInvalidReaction)
}

func TestSetFeedback_ConcurrentClicksOnDifferentSections(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "One", "Two", "Three", "Four")
	ctx := context.Background()

	ids := []string{"section-1", "section-2", "section-3", "section-4"}
	for _, id := range ids {
		_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, id)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := h.services.Section.SetFeedback(ctx, h.project.ID, testUser, id, like())
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	fb, err := h.services.Section.FeedbackMap(ctx, h.project.ID, testUser)
	require.NoError(t, err)
	assert.Len(t, fb, len(ids))
}

func TestSetFeedback_SimultaneousIdenticalClicks(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()
	_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)

	for round := 0; round < 20; round++ {
		var wg sync.WaitGroup
		results := make(chan *authoringSvc.FeedbackResult, 2)
		errs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", like())
				errs <- err
				results <- res
			}()
		}
		wg.Wait()
		close(errs)
		close(results)
		for err := range errs {
			require.NoError(t, err)
		}

		// One click sets LIKE, the other toggles it off, whichever lands first
		var states []string
		for res := range results {
			states = append(states, res.State)
		}
		assert.ElementsMatch(t, []string{"LIKE", "NONE"}, states, "round %d", round)

		fb, err := h.services.Section.FeedbackMap(ctx, h.project.ID, testUser)
		require.NoError(t, err)
		assert.Empty(t, fb, "round %d", round)
	}
}

func TestRefineSection_RacingFeedbackClick(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()
	_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)

	gate := make(chan struct{})
	h.provider.gate = gate
	h.provider.entered = make(chan string, 1)

	refined := make(chan error, 1)
	go func() {
		_, err := h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
			SectionID: "section-1", Prompt: "tighten",
		})
		refined <- err
	}()

	// The refine is waiting on the model; the section lock is free
	<-h.provider.entered
	res, err := h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", like())
	require.NoError(t, err)
	assert.Equal(t, "LIKE", res.State)

	close(gate)
	require.NoError(t, <-refined)

	// The refine committed last, so the click no longer applies
	fb, err := h.services.Section.FeedbackMap(ctx, h.project.ID, testUser)
	require.NoError(t, err)
	assert.Empty(t, fb)
	assert.Equal(t, "Content for Introduction [tighten]", h.document(t).Content["section-1"])

	// A click after the commit sticks
	h.provider.entered = nil
	_, err = h.services.Section.SetFeedback(ctx, h.project.ID, testUser, "section-1", dislike())
	require.NoError(t, err)
	fb, err = h.services.Section.FeedbackMap(ctx, h.project.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Reaction{"section-1": models.ReactionDislike}, fb)
}

func TestRefineSection_ConcurrentSectionsBothCommit(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "One", "Two")
	ctx := context.Background()

	for _, id := range []string{"section-1", "section-2"} {
		_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, id)
		require.NoError(t, err)
	}

	// Hold both provider calls until both requests are in flight
	gate := make(chan struct{})
	h.provider.gate = gate

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []string{"section-1", "section-2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := h.services.Section.RefineSection(ctx, h.project.ID, testUser, &authoringSvc.RefineRequest{
				SectionID: id, Prompt: "tighten",
			})
			errs <- err
		}(id)
	}
	close(gate)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	doc := h.document(t)
	assert.Equal(t, 5, doc.Version)
	assert.Equal(t, "Content for One [tighten]", doc.Content["section-1"])
	assert.Equal(t, "Content for Two [tighten]", doc.Content["section-2"])
}

func TestHistory(t *testing.T) {
	h := newHarness(t, nil)
	h.configure(t, "Introduction")
	ctx := context.Background()
	_, err := h.services.Section.GenerateSection(ctx, h.project.ID, testUser, "section-1")
	require.NoError(t, err)

	for _, c := range []string{"a", "b"} {
		_, err := h.services.Section.AddComment(ctx, h.project.ID, testUser, &authoringSvc.CommentRequest{
			SectionID: "section-1", Comment: c,
		})
		require.NoError(t, err)
	}

	page, err := h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a", *page.Items[0].Comment)

	_, err = h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{SectionID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)

	_, err = h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{Offset: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	page, err = h.services.Section.History(ctx, h.project.ID, testUser, authoringSvc.HistoryQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
}
