package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/footman-ai/footman/internal/football"
	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/token"
)

// FixtureProvider resolves which match a team plays on a given date.
type FixtureProvider interface {
	FixtureOn(ctx context.Context, date time.Time, teamName string) (*football.Fixture, error)
}

// Predictor produces an outcome verdict for one fixture.
type Predictor interface {
	Predict(ctx context.Context, matchDate time.Time, homeTeam, awayTeam string) (*football.Outcome, error)
}

// Fixed user-facing messages for the prediction capability.
const (
	predictionUnclearMsg   = "죄송합니다. 어떤 경기의 예측을 원하시는지 파악하기 어렵습니다. 팀 이름과 경기 날짜를 함께 알려주세요."
	predictionNoFixtureMsg = "해당 날짜에 예정된 경기를 찾을 수 없습니다. 날짜나 팀 이름을 확인해주세요."
	predictionNoDataMsg    = "해당 경기에 대한 예측 데이터를 찾을 수 없습니다. 다른 경기로 다시 시도해주세요."
	predictionErrorMsg     = "경기 예측 중 문제가 발생했습니다. 잠시 후 다시 시도해주세요."
)

const predictionSystemPrompt = "너는 축구 경기 예측 분석가다. 예측 모델의 결과를 바탕으로 승부 전망을 설명해라. 확률과 Elo 레이팅을 근거로 제시하되, 예측은 참고용임을 자연스럽게 전달해라."

const predictionExtractionSystem = "너는 사용자 질문에서 경기 예측에 필요한 팀과 날짜를 추출하는 AI다. 이전 대화 맥락을 참고해서 '그 팀', '그 경기' 같은 표현을 이해해야 한다."

const predictionExtractionTemplate = `사용자의 질문에서 승부 예측 대상 팀 이름과 경기 날짜 표현을 JSON으로 추출해.
- "team": 질문에 등장한 팀 이름 (한국어 그대로). 없으면 null.
- "date": 날짜 표현 원문 (예: "내일", "5월 11일", "2024-05-11"). 없으면 null.

예시:
- "내일 토트넘 경기 누가 이겨?" => {"team": "토트넘", "date": "내일"}
- "5월 11일 맨시티 경기 예측해줘" => {"team": "맨시티", "date": "5월 11일"}

사용자 질문: %s`

// PredictionConfig configures the prediction responder.
type PredictionConfig struct {
	Ceiling           int
	ExtractionCeiling int
	Temperature       float64
}

// DefaultPredictionConfig returns the observed production settings.
func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{Ceiling: 4000, ExtractionCeiling: 2000, Temperature: 0.5}
}

// Prediction forecasts match outcomes via the external prediction model.
type Prediction struct {
	gen       generator
	fixtures  FixtureProvider
	predictor Predictor
	cfg       PredictionConfig
	now       func() time.Time
	log       *logrus.Entry
}

// NewPrediction creates the match prediction responder.
func NewPrediction(client model.Client, counter *token.Counter, fixtures FixtureProvider, predictor Predictor, cfg PredictionConfig) *Prediction {
	return &Prediction{
		gen:       generator{client: client, counter: counter},
		fixtures:  fixtures,
		predictor: predictor,
		cfg:       cfg,
		now:       time.Now,
		log:       logrus.WithField("responder", "prediction"),
	}
}

func (p *Prediction) Name() string { return "prediction" }

func (p *Prediction) Description() string {
	return "특정 경기의 승부 예측, 승률 전망에 대한 질문에 답한다. 예: 다가오는 경기에서 어느 팀이 이길지."
}

type matchRef struct {
	Team *string `json:"team"`
	Date *string `json:"date"`
}

// Handle predicts the outcome of the referenced fixture.
func (p *Prediction) Handle(ctx context.Context, query string, history []model.Message) (*Result, error) {
	extractionMsgs := model.CopyMessages(history)
	if len(extractionMsgs) == 0 || extractionMsgs[0].Role != model.RoleSystem {
		extractionMsgs = append([]model.Message{{Role: model.RoleSystem, Content: predictionExtractionSystem}}, extractionMsgs...)
	}
	extractionMsgs = append(extractionMsgs, model.Message{
		Role:    model.RoleUser,
		Content: fmt.Sprintf(predictionExtractionTemplate, query),
	})

	var ref matchRef
	if !p.gen.extractJSON(ctx, extractionMsgs, p.cfg.ExtractionCeiling, &ref) || ref.Team == nil {
		return &Result{Text: predictionUnclearMsg}, nil
	}

	team := englishTeamName(*ref.Team)
	if team == "" {
		return &Result{Text: predictionUnclearMsg}, nil
	}

	dateText := query
	if ref.Date != nil && strings.TrimSpace(*ref.Date) != "" {
		dateText = *ref.Date
	}
	matchDate := parseMatchDate(dateText, p.now())
	if matchDate.IsZero() {
		return &Result{Text: predictionUnclearMsg}, nil
	}

	fixture, err := p.fixtures.FixtureOn(ctx, matchDate, team)
	if err != nil {
		p.log.WithError(err).Warn("fixture lookup failed")
		return &Result{Text: predictionErrorMsg}, nil
	}
	if fixture == nil {
		return &Result{Text: predictionNoFixtureMsg}, nil
	}

	outcome, err := p.predictor.Predict(ctx, matchDate, fixture.HomeTeam, fixture.AwayTeam)
	if err != nil {
		p.log.WithError(err).Warn("prediction failed")
		return &Result{Text: predictionErrorMsg}, nil
	}
	if outcome == nil {
		return &Result{Text: predictionNoDataMsg}, nil
	}

	groundedQuery := fmt.Sprintf(`사용자 질문: %s

다음은 예측 모델의 분석 결과입니다:
%s

이 결과를 바탕으로 경기 전망을 자연스럽게 설명해주세요.
확률과 레이팅 근거를 함께 전달하되, 예측은 참고용임을 언급해주세요.`, query, formatOutcome(outcome))

	result, err := p.gen.finalAnswer(ctx, predictionSystemPrompt, history, groundedQuery, p.cfg.Ceiling, temperature(p.cfg.Temperature))
	if err != nil {
		p.log.WithError(err).Warn("final answer generation failed")
		return &Result{Text: predictionErrorMsg}, nil
	}
	return result, nil
}

func formatOutcome(o *football.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "경기: %s (홈) vs %s (원정)\n", o.HomeTeam, o.AwayTeam)
	fmt.Fprintf(&b, "경기 날짜: %s\n", o.MatchDate)
	fmt.Fprintf(&b, "예측 결과: %s\n", o.Result)
	fmt.Fprintf(&b, "원정팀 승리 확률: %.1f%%\n", o.AwayWinProb*100)
	fmt.Fprintf(&b, "홈팀 승리 확률: %.1f%%\n", (1-o.AwayWinProb)*100)
	fmt.Fprintf(&b, "홈팀 Elo 레이팅: %.0f\n", o.HomeElo)
	fmt.Fprintf(&b, "원정팀 Elo 레이팅: %.0f", o.AwayElo)
	return b.String()
}
