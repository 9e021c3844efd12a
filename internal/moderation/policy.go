// Package moderation implements the pure decision logic applied to classifier
// scores before a chat message is broadcast. It performs no I/O.
package moderation

import "github.com/woodycollective/woodyswildguess/internal/huggingface"

// Default confidence thresholds. A label only counts once it reaches its
// threshold; the thresholds are independent so they can be tuned per label.
const (
	DefaultToxicityThreshold   = 0.8
	DefaultPositivityThreshold = 0.8
	DefaultNegativityThreshold = 0.8
)

// Decision is the terminal state of a moderated message.
type Decision int

// Decision values, in the order the gateway applies them.
const (
	// Passthrough delivers the original message unmodified.
	Passthrough Decision = iota
	// Suppressed blocks the message and announces a toxicity notice instead.
	Suppressed
	// AnnotatedPositive replaces the message with a positive-sentiment note.
	AnnotatedPositive
	// AnnotatedNegative replaces the message with a negative-sentiment note.
	AnnotatedNegative
)

// String returns a human-readable name for the decision.
func (d Decision) String() string {
	switch d {
	case Suppressed:
		return "suppressed"
	case AnnotatedPositive:
		return "annotated_positive"
	case AnnotatedNegative:
		return "annotated_negative"
	default:
		return "passthrough"
	}
}

// Policy evaluates classifier scores against fixed thresholds.
type Policy struct {
	ToxicityThreshold   float64
	PositivityThreshold float64
	NegativityThreshold float64
}

// NewPolicy creates a policy with the default thresholds.
func NewPolicy() *Policy {
	return &Policy{
		ToxicityThreshold:   DefaultToxicityThreshold,
		PositivityThreshold: DefaultPositivityThreshold,
		NegativityThreshold: DefaultNegativityThreshold,
	}
}

// scanLabel walks the nested score sequences in response order and returns
// whether the first occurrence of label meets the threshold. Duplicate
// labels beyond the first are ignored; an absent label never matches.
func scanLabel(scores [][]huggingface.LabelScore, label string, threshold float64) bool {
	for _, scoreList := range scores {
		for _, labelScore := range scoreList {
			if labelScore.Label != label {
				continue
			}
			return labelScore.Score >= threshold
		}
	}
	return false
}

// IsToxic reports whether the scores carry a "toxic" label at or above the
// toxicity threshold.
func (p *Policy) IsToxic(scores [][]huggingface.LabelScore) bool {
	return scanLabel(scores, "toxic", p.ToxicityThreshold)
}

// IsSeverelyToxic reports whether the scores carry a "severe_toxic" label at
// or above the toxicity threshold.
func (p *Policy) IsSeverelyToxic(scores [][]huggingface.LabelScore) bool {
	return scanLabel(scores, "severe_toxic", p.ToxicityThreshold)
}

// IsPositive reports whether the scores carry a "positive" label at or above
// the positivity threshold.
func (p *Policy) IsPositive(scores [][]huggingface.LabelScore) bool {
	return scanLabel(scores, "positive", p.PositivityThreshold)
}

// IsNegative reports whether the scores carry a "negative" label at or above
// the negativity threshold.
func (p *Policy) IsNegative(scores [][]huggingface.LabelScore) bool {
	return scanLabel(scores, "negative", p.NegativityThreshold)
}

// IsNeutral reports whether the scores are neither positive nor negative.
func (p *Policy) IsNeutral(scores [][]huggingface.LabelScore) bool {
	return !p.IsPositive(scores) && !p.IsNegative(scores)
}

// Decide applies the full decision order to a message's toxicity and
// sentiment scores. Toxicity is an absolute veto. Sentiment is only
// annotated when strictly one-sided: if both positive and negative cross
// their thresholds the message falls through to plain passthrough.
func (p *Policy) Decide(toxicity, sentiment [][]huggingface.LabelScore) Decision {
	if p.IsToxic(toxicity) {
		return Suppressed
	}

	isPositive := p.IsPositive(sentiment)
	isNegative := p.IsNegative(sentiment)

	switch {
	case isPositive && !isNegative:
		return AnnotatedPositive
	case isNegative && !isPositive:
		return AnnotatedNegative
	default:
		return Passthrough
	}
}
