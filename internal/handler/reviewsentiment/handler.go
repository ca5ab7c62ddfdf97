package reviewsentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"doctor-reviews/internal/eventpublisher"
	"doctor-reviews/internal/eventpublisher/event"
	"doctor-reviews/internal/gpt"
	"doctor-reviews/internal/model"
	reviewRepository "doctor-reviews/internal/repository/review"
	sentimentRepository "doctor-reviews/internal/repository/reviewsentiments"
	"doctor-reviews/internal/utils"

	"github.com/rs/zerolog/log"
)

type TokenCounter interface {
	CountTokens(s string) int
}

type ReviewLister interface {
	ListReviewsForDoctor(ctx context.Context, doctorId string) ([]model.Review, error)
}

// Handler labels the review comments of a doctor whenever one of its reviews changes and keeps
// the most mentioned labels with their average score.
type Handler struct {
	reviewEventPublisher eventpublisher.Publisher
	reviewRepo           ReviewLister
	sentimentRepo        sentimentRepository.IRepository
	prompter             gpt.Prompter
	tokenizer            TokenCounter
	maxPromptTokens      int
	reviewSubscriptionCh event.EventChannel

	// doctors with an analysis in flight; further events for them are coalesced into one rerun
	pendingMu sync.Mutex
	pending   map[string]bool
}

var _ ReviewLister = reviewRepository.ReviewRepository{}

func New(
	reviewEventPublisher eventpublisher.Publisher,
	reviewRepo ReviewLister,
	sentimentRepo sentimentRepository.IRepository,
	prompter gpt.Prompter,
	tokenizer TokenCounter,
	maxPromptTokens int) *Handler {

	return &Handler{
		reviewEventPublisher: reviewEventPublisher,
		reviewRepo:           reviewRepo,
		sentimentRepo:        sentimentRepo,
		prompter:             prompter,
		tokenizer:            tokenizer,
		maxPromptTokens:      maxPromptTokens,
		reviewSubscriptionCh: make(event.EventChannel),
		pending:              make(map[string]bool),
	}
}

func (h *Handler) subscribeToEvents() {
	h.reviewEventPublisher.Subscribe(h.eventChannel())
}

func (h *Handler) unsubscribeFromEvents() {
	h.reviewEventPublisher.Unsubscribe(h.eventChannel())
}

func (h *Handler) eventChannel() chan<- event.Event {
	return h.reviewSubscriptionCh
}

func (h *Handler) EventHandler(ctx context.Context) error {

	h.subscribeToEvents()
	defer h.unsubscribeFromEvents()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-h.reviewSubscriptionCh:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Error().Msg("sentiment handler: subscription closed by the publisher")
				return eventpublisher.ErrSubscriptionClosed
			}

			if e.Err != nil {
				log.Error().Err(e.Err).Msg("sentiment handler: error reading events")
				return e.Err
			}

			review, ok := e.Message.(model.Review)
			if !ok || strings.TrimSpace(review.Comment) == "" {
				continue
			}

			h.schedule(ctx, review.DoctorId)
		}
	}
}

// schedule runs one analysis per doctor at a time. An event that arrives while the doctor is
// being analyzed makes the running analysis go again once it finishes, so the latest comments
// are always covered.
func (h *Handler) schedule(ctx context.Context, doctorId string) {
	h.pendingMu.Lock()
	if _, running := h.pending[doctorId]; running {
		h.pending[doctorId] = true
		h.pendingMu.Unlock()
		return
	}
	h.pending[doctorId] = false
	h.pendingMu.Unlock()

	go func() {
		for {
			h.handle(ctx, doctorId)

			h.pendingMu.Lock()
			if !h.pending[doctorId] || ctx.Err() != nil {
				delete(h.pending, doctorId)
				h.pendingMu.Unlock()
				return
			}
			h.pending[doctorId] = false
			h.pendingMu.Unlock()
		}
	}()
}

func (h *Handler) handle(ctx context.Context, doctorId string) error {

	reviews, err := h.reviewRepo.ListReviewsForDoctor(ctx, doctorId)
	if err != nil {
		log.Error().Err(err).Msgf("review sentiment handler: failed to load reviews of %s", doctorId)
		return err
	}

	comments, analyzed := h.reviewComments(reviews)
	if analyzed == 0 {
		return nil
	}

	log.Debug().Msgf("sentiment analysis - doctorId %s", doctorId)
	sentimentScores, err := h.generateSentimentScores(ctx, comments)
	if err != nil {
		log.Error().Err(err).Msgf("review sentiment handler: failed to generate sentiments for %s", doctorId)
		return err
	}

	if err := h.sentimentRepo.Save(ctx, model.ReviewSentiments{
		DoctorId:        utils.StringToPointer(doctorId),
		Sentiments:      selectTopFrequentlyMentionedSentiments(sentimentScores, topSentiments),
		ReviewsAnalyzed: analyzed,
	}); err != nil {
		log.Error().Err(err).Msgf("review sentiment handler: failed to persist %s", doctorId)
		return err
	}

	return nil
}

func (h *Handler) generateSentimentScores(ctx context.Context, comments string) ([]sentimentScore, error) {
	answer, err := h.prompter.Complete(ctx, fmt.Sprintf(SENTIMENT_ANALYSIS_INSTRUCTION, comments))
	if err != nil {
		return nil, err
	}

	return responseToSentimentScore(answer)
}

// reviewComments joins the non-empty comments, newest first, as long as they fit in the
// prompt token budget. It returns the joined text and the number of comments in it.
func (h *Handler) reviewComments(reviews []model.Review) (string, int) {
	budget := h.maxPromptTokens - instructionTokens
	sb := strings.Builder{}
	count := 0

	for _, review := range reviews {
		comment := strings.TrimSpace(review.Comment)
		if comment == "" {
			continue
		}

		line := fmt.Sprintf("~%s\n", comment)
		tokens := h.tokenizer.CountTokens(line)
		if tokens > budget {
			break
		}
		budget -= tokens

		sb.WriteString(line)
		count++
	}

	return sb.String(), count
}

func responseToSentimentScore(responseAsString string) ([]sentimentScore, error) {

	data := response{}
	if err := json.Unmarshal([]byte(responseAsString), &data); err != nil {
		return []sentimentScore{}, fmt.Errorf("parse sentiment response: %w", err)
	}

	return data.Data, nil
}

// selectTopFrequentlyMentionedSentiments groups the scores by label and keeps the n most
// frequent labels with their average score. Ties are broken by label.
func selectTopFrequentlyMentionedSentiments(data []sentimentScore, n int) []model.Sentiment {

	top := []model.Sentiment{}
	if len(data) == 0 {
		return top
	}

	type labelStats struct {
		Label string
		Total int
		Count int
	}

	byLabel := make(map[string]*labelStats)
	for _, item := range data {
		stats, exists := byLabel[item.Label]
		if !exists {
			stats = &labelStats{Label: item.Label}
			byLabel[item.Label] = stats
		}
		stats.Total += item.Score
		stats.Count++
	}

	result := make([]*labelStats, 0, len(byLabel))
	for _, stats := range byLabel {
		result = append(result, stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})

	for i := 0; i < min(n, len(result)); i++ {
		top = append(top, model.Sentiment{
			Label: result[i].Label,
			Score: result[i].Total / result[i].Count,
		})
	}

	return top
}
