package router

import (
	"context"
	"strings"

	"github.com/footman-ai/footman/internal/budget"
	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/responder"
)

// Label is a classification verdict for one query.
type Label string

const (
	LabelTeamPlayer   Label = "TEAM_PLAYER"
	LabelNewsAnalysis Label = "NEWS_ANALYSIS"
	LabelPrediction   Label = "PREDICTION"
	LabelGeneral      Label = "GENERAL"

	// LabelFailure means the classifier produced no usable verdict.
	// It is terminal for the turn, never retried into a guess.
	LabelFailure Label = "FAILURE"
)

// classifyMaxTokens bounds the classifier reply; one label needs no more.
const classifyMaxTokens = 50

var allLabels = []Label{LabelTeamPlayer, LabelNewsAnalysis, LabelPrediction, LabelGeneral}

// Classify asks the model for exactly one label for the query. The
// history goes through the budgeter in classification mode, so at most
// the single most recent turn accompanies the query.
func (r *Router) Classify(ctx context.Context, query string, history []model.Message) (Label, error) {
	msgs := model.CopyMessages(history)
	if len(msgs) == 0 || msgs[0].Role != model.RoleSystem {
		msgs = append([]model.Message{{Role: model.RoleSystem, Content: classificationSystemPrompt}}, msgs...)
	}
	msgs = append(msgs, model.Message{Role: model.RoleUser, Content: query})
	msgs = budget.Fit(r.counter, msgs, r.cfg.RoutingCeiling, budget.ClassificationOptions())

	temp := 0.0
	resp, err := r.client.Complete(ctx, &model.Request{
		Messages:    msgs,
		Temperature: &temp,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		r.log.WithError(err).Error("classification call failed")
		return LabelFailure, err
	}
	return matchLabel(resp.Text), nil
}

// matchLabel maps raw classifier output to a label. The reply must name
// exactly one known label; zero or several means the verdict cannot be
// trusted.
func matchLabel(raw string) Label {
	upper := strings.ToUpper(raw)
	found := LabelFailure
	for _, label := range allLabels {
		if strings.Contains(upper, string(label)) {
			if found != LabelFailure {
				return LabelFailure
			}
			found = label
		}
	}
	return found
}

// RouteByClassification is the fallback routing strategy for models
// without reliable tool calling: classify first, then invoke the single
// matching capability with the original query and history.
func (r *Router) RouteByClassification(ctx context.Context, query string, history []model.Message) (*responder.Result, error) {
	label, err := r.Classify(ctx, query, history)
	if err != nil {
		return &responder.Result{Text: FatalMsg}, nil
	}
	if label == LabelFailure {
		return &responder.Result{Text: CannotAnswerMsg}, nil
	}

	name := strings.ToLower(string(label))
	res, ok := r.registry.Get(name)
	if !ok {
		r.log.WithField("label", label).Warn("no responder for label")
		return &responder.Result{Text: UnknownCapabilityMsg}, nil
	}
	return res.Handle(ctx, query, history)
}
