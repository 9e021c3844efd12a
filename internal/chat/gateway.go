package chat

import (
	"context"

	"go.uber.org/zap"

	"github.com/woodycollective/woodyswildguess/internal/huggingface"
	"github.com/woodycollective/woodyswildguess/internal/moderation"
)

// Classifier is the subset of the inference client the gateway needs.
type Classifier interface {
	AnalyzeToxicity(ctx context.Context, text string) ([][]huggingface.LabelScore, error)
	AnalyzeSentiment(ctx context.Context, text string) ([][]huggingface.LabelScore, error)
}

// Gateway runs each inbound chat message through classification and the
// moderation policy, then broadcasts the outcome to the room.
type Gateway struct {
	hub        *Hub
	classifier Classifier
	policy     *moderation.Policy
	logger     *zap.Logger
}

// NewGateway creates a new broadcast gateway
func NewGateway(hub *Hub, classifier Classifier, policy *moderation.Policy, logger *zap.Logger) *Gateway {
	return &Gateway{
		hub:        hub,
		classifier: classifier,
		policy:     policy,
		logger:     logger,
	}
}

// HandleMessage moderates and delivers one inbound message.
//
// Toxicity is checked first and is an absolute veto: a toxic message is
// replaced by the Toxicity Moderator's suppression notice and never
// delivered. Otherwise, a strictly one-sided positive or negative sentiment
// replaces the message with the Sentiment Moderator's annotation. Anything
// else is broadcast verbatim. A failed classification call is logged and
// scored as empty, so an inference outage degrades to plain passthrough
// instead of silencing the room.
func (g *Gateway) HandleMessage(ctx context.Context, author, text string) {
	if text == "" {
		return
	}

	g.logger.Debug("received message", zap.String("author", author))

	toxicity, err := g.classifier.AnalyzeToxicity(ctx, text)
	if err != nil {
		g.logger.Error("toxicity classification unavailable", zap.Error(err))
		toxicity = nil
	}

	if g.policy.IsToxic(toxicity) {
		g.logger.Info("message suppressed as toxic", zap.String("author", author))
		g.hub.Broadcast(Event{Author: ToxicityModerator, Text: suppressionNotice})
		return
	}

	sentiment, err := g.classifier.AnalyzeSentiment(ctx, text)
	if err != nil {
		g.logger.Error("sentiment classification unavailable", zap.Error(err))
		sentiment = nil
	}

	switch g.policy.Decide(toxicity, sentiment) {
	case moderation.AnnotatedPositive:
		g.logger.Info("message annotated as positive", zap.String("author", author))
		g.hub.Broadcast(Event{Author: SentimentModerator, Text: positiveAnnotation})

	case moderation.AnnotatedNegative:
		g.logger.Info("message annotated as negative", zap.String("author", author))
		g.hub.Broadcast(Event{Author: SentimentModerator, Text: negativeAnnotation})

	default:
		g.logger.Debug("message passed through", zap.String("author", author))
		g.hub.Broadcast(Event{Author: author, Text: text})
	}
}
