package reviewsentiment

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"doctor-reviews/internal/database/memstore"
	"doctor-reviews/internal/eventpublisher"
	"doctor-reviews/internal/eventpublisher/event"
	"doctor-reviews/internal/model"
	reviewRepository "doctor-reviews/internal/repository/review"
	sentimentRepository "doctor-reviews/internal/repository/reviewsentiments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordCounter struct{}

func (wordCounter) CountTokens(s string) int {
	return len(strings.Fields(s))
}

type fakePrompter struct {
	mu           sync.Mutex
	answer       string
	err          error
	instructions []string
}

func (p *fakePrompter) Complete(_ context.Context, instruction string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instructions = append(p.instructions, instruction)
	return p.answer, p.err
}

func (p *fakePrompter) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.instructions)
}

func (p *fakePrompter) instruction(i int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.instructions[i]
}

// gatedPrompter reports every completion on started and holds it until gate is closed.
type gatedPrompter struct {
	*fakePrompter
	started chan struct{}
	gate    chan struct{}
}

func (p *gatedPrompter) Complete(ctx context.Context, instruction string) (string, error) {
	p.started <- struct{}{}
	<-p.gate
	return p.fakePrompter.Complete(ctx, instruction)
}

type fakePublisher struct {
	mu  sync.Mutex
	sub event.EventWChannel
}

func (p *fakePublisher) Subscribe(s event.EventWChannel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sub = s
}

func (p *fakePublisher) Unsubscribe(event.EventWChannel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sub = nil
}

func (p *fakePublisher) subscriber(t *testing.T) event.EventWChannel {
	t.Helper()
	var sub event.EventWChannel
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		sub = p.sub
		return sub != nil
	}, time.Second, 5*time.Millisecond)
	return sub
}

type fixture struct {
	reviews    reviewRepository.ReviewRepository
	sentiments sentimentRepository.ReviewSentimentsRepository
	prompter   *fakePrompter
	publisher  *fakePublisher
	handler    *Handler
}

func newFixture(maxPromptTokens int) fixture {
	db := memstore.New()
	f := fixture{
		reviews:    reviewRepository.New(db),
		sentiments: sentimentRepository.New(db),
		prompter:   &fakePrompter{},
		publisher:  &fakePublisher{},
	}
	f.handler = New(f.publisher, f.reviews, f.sentiments, f.prompter, wordCounter{}, maxPromptTokens)
	return f
}

func (f fixture) addReview(t *testing.T, doctorId, patientId, comment string) model.Review {
	t.Helper()
	rw := model.Review{DoctorId: doctorId, PatientId: patientId, Rating: 4, Comment: comment}
	id, err := f.reviews.UpsertReview(context.Background(), rw)
	require.NoError(t, err)
	rw.ReviewId = id
	return rw
}

func TestHandle_SavesTopSentiments(t *testing.T) {
	f := newFixture(3000)
	f.prompter.answer = `{"data":[
		{"label":"Empathy","score":5},
		{"label":"Waiting Time","score":1},
		{"label":"Empathy","score":4},
		{"label":"Waiting Time","score":2},
		{"label":"Empathy","score":3},
		{"label":"Cost","score":2}
	]}`

	f.addReview(t, "D1", "P1", "very caring")
	f.addReview(t, "D1", "P2", "")
	f.addReview(t, "D1", "P3", "waited two hours")

	require.NoError(t, f.handler.handle(context.Background(), "D1"))

	require.Equal(t, 1, f.prompter.calls())
	prompt := f.prompter.instructions[0]
	assert.Contains(t, prompt, "~very caring")
	assert.Contains(t, prompt, "~waited two hours")

	saved, err := f.sentiments.GetById(context.Background(), "D1")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.ReviewsAnalyzed)
	assert.Equal(t, []model.Sentiment{
		{Label: "Empathy", Score: 4},
		{Label: "Waiting Time", Score: 1},
		{Label: "Cost", Score: 2},
	}, saved.Sentiments)
}

func TestHandle_NoCommentsSkipsAnalysis(t *testing.T) {
	f := newFixture(3000)
	f.addReview(t, "D1", "P1", "   ")

	require.NoError(t, f.handler.handle(context.Background(), "D1"))
	assert.Equal(t, 0, f.prompter.calls())
}

func TestHandle_BadAnswerSavesNothing(t *testing.T) {
	f := newFixture(3000)
	f.prompter.answer = "I cannot help with that"
	f.addReview(t, "D1", "P1", "fine")

	assert.Error(t, f.handler.handle(context.Background(), "D1"))

	_, err := f.sentiments.GetById(context.Background(), "D1")
	assert.Error(t, err)
}

func TestReviewComments_RespectsTokenBudget(t *testing.T) {
	f := newFixture(instructionTokens + 5)

	comments, count := f.handler.reviewComments([]model.Review{
		{Comment: "one two three"},
		{Comment: ""},
		{Comment: "four five"},
		{Comment: "six"},
	})

	assert.Equal(t, 2, count)
	assert.Equal(t, "~one two three\n~four five\n", comments)
}

func TestSelectTopFrequentlyMentionedSentiments(t *testing.T) {
	assert.Empty(t, selectTopFrequentlyMentionedSentiments(nil, 5))

	data := []sentimentScore{
		{"b", 4}, {"a", 2}, {"c", 5}, {"b", 2}, {"d", 1}, {"e", 1}, {"f", 3},
	}
	top := selectTopFrequentlyMentionedSentiments(data, 3)
	assert.Equal(t, []model.Sentiment{
		{Label: "b", Score: 3},
		{Label: "a", Score: 2},
		{Label: "c", Score: 5},
	}, top)
}

func TestEventHandler_AnalysesCommentedReviews(t *testing.T) {
	f := newFixture(3000)
	f.prompter.answer = `{"data":[{"label":"Listening","score":5}]}`

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.handler.EventHandler(ctx)

	sub := f.publisher.subscriber(t)
	silent := f.addReview(t, "D1", "P1", "")
	sub <- event.Event{Message: silent}

	commented := f.addReview(t, "D1", "P2", "listened to me")
	sub <- event.Event{Message: commented}

	require.Eventually(t, func() bool {
		saved, err := f.sentiments.GetById(context.Background(), "D1")
		return err == nil && len(saved.Sentiments) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, f.prompter.calls())
}

func TestEventHandler_ReanalysesReviewsArrivingDuringAnalysis(t *testing.T) {
	f := newFixture(3000)
	prompter := &gatedPrompter{
		fakePrompter: &fakePrompter{answer: `{"data":[{"label":"Empathy","score":5}]}`},
		started:      make(chan struct{}, 4),
		gate:         make(chan struct{}),
	}
	f.handler = New(f.publisher, f.reviews, f.sentiments, prompter, wordCounter{}, 3000)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.handler.EventHandler(ctx)

	sub := f.publisher.subscriber(t)
	sub <- event.Event{Message: f.addReview(t, "D1", "P1", "kind and patient")}

	select {
	case <-prompter.started:
	case <-time.After(time.Second):
		t.Fatal("analysis did not start")
	}

	sub <- event.Event{Message: f.addReview(t, "D1", "P2", "explained everything")}
	// events are taken one at a time, so the previous one has been scheduled once this is taken
	sub <- event.Event{Message: "ignored"}
	close(prompter.gate)

	require.Eventually(t, func() bool {
		saved, err := f.sentiments.GetById(context.Background(), "D1")
		return err == nil && saved.ReviewsAnalyzed == 2
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 2, prompter.calls())
	assert.Contains(t, prompter.instruction(1), "~explained everything")
}

func TestEventHandler_FailsWhenSubscriptionIsClosed(t *testing.T) {
	f := newFixture(3000)

	done := make(chan error, 1)
	go func() { done <- f.handler.EventHandler(context.Background()) }()

	close(f.publisher.subscriber(t))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, eventpublisher.ErrSubscriptionClosed)
	case <-time.After(time.Second):
		t.Fatal("handler did not stop")
	}
}
