package responder

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/token"
)

const generalErrorMsg = "죄송합니다. 답변을 생성하는 중 문제가 발생했습니다. 잠시 후 다시 시도해주세요."

const generalSystemPrompt = "너는 '풋맨'이라는 이름의 친근한 축구 전문 챗봇이다. 축구에 대한 일반적인 대화나 인사에 자연스럽고 친근하게 답해라. 축구와 무관한 질문에는 축구 이야기로 부드럽게 화제를 돌려라."

// GeneralConfig configures the general chat responder.
type GeneralConfig struct {
	Ceiling int
}

// DefaultGeneralConfig returns the observed production ceiling. General
// chat carries no grounding data, so its budget is the smallest.
func DefaultGeneralConfig() GeneralConfig {
	return GeneralConfig{Ceiling: 1000}
}

// General handles greetings, small talk, and anything no specialized
// capability covers.
type General struct {
	gen generator
	cfg GeneralConfig
	log *logrus.Entry
}

// NewGeneral creates the general chat responder.
func NewGeneral(client model.Client, counter *token.Counter, cfg GeneralConfig) *General {
	return &General{
		gen: generator{client: client, counter: counter},
		cfg: cfg,
		log: logrus.WithField("responder", "general"),
	}
}

func (g *General) Name() string { return "general" }

func (g *General) Description() string {
	return "인사, 잡담, 그 외 다른 기능에 해당하지 않는 일반적인 대화에 답한다."
}

// Handle answers with the persona prompt and the budgeted history; no
// extraction or external data is involved.
func (g *General) Handle(ctx context.Context, query string, history []model.Message) (*Result, error) {
	result, err := g.gen.finalAnswer(ctx, generalSystemPrompt, history, query, g.cfg.Ceiling, nil)
	if err != nil {
		g.log.WithError(err).Warn("general answer generation failed")
		return &Result{Text: generalErrorMsg}, nil
	}
	return result, nil
}
