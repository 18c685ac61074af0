package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/footman-ai/footman/internal/football"
	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/token"
)

// NewsProvider is the article search collaborator consumed by the news
// analysis responder.
type NewsProvider interface {
	Search(ctx context.Context, query string, n int) ([]football.Article, error)
}

// Fixed user-facing messages for the news capability.
const (
	newsUnclearMsg = "죄송합니다. 어떤 축구 소식을 찾으시는지 파악하기 어렵습니다. 관심 있는 선수나 팀, 주제를 알려주세요."
	newsEmptyMsg   = "관련된 최신 뉴스를 찾을 수 없습니다. 다른 키워드로 다시 질문해주세요."
	newsErrorMsg   = "뉴스 검색 중 문제가 발생했습니다. 잠시 후 다시 시도해주세요."
)

const newsSystemPrompt = "너는 축구 전문 기자다. 분석된 뉴스 기사들을 바탕으로 사용자에게 최신 축구 소식을 브리핑해라. 각 기사의 핵심과 분위기를 전달하고, 전체적인 흐름을 요약해라."

const newsKeywordSystem = "너는 사용자 질문에서 뉴스 검색에 쓸 핵심 키워드를 추출하는 AI다. 이전 대화 맥락을 참고해서 대명사나 생략된 주어를 구체적인 이름으로 바꿔라."

const newsKeywordTemplate = `아래 사용자 질문에서 축구 뉴스 검색에 사용할 핵심 키워드를 추출해.
키워드는 한 줄로, 검색 엔진에 바로 넣을 수 있는 형태로 만들어.
축구와 무관하거나 키워드를 뽑을 수 없다면 "None"만 출력해.

사용자 질문: %s

키워드:`

const newsArticleAnalysisTemplate = `다음 축구 뉴스 기사를 분석해서 JSON으로 반환해.
- "summary": 기사 핵심 내용 한두 문장 요약
- "sentiment": "긍정", "부정", "중립" 중 하나
- "comment": 축구 팬 관점의 짧은 코멘트
기사가 축구와 무관하거나 내용이 없다면 {"summary": null} 을 반환해.

제목: %s
내용: %s`

// usableArticles is how many analyzed articles a briefing needs.
const usableArticles = 3

// searchPageSize is how many candidates to pull per search. Analysis
// stops early once enough usable articles accumulate.
const searchPageSize = 5

// NewsConfig configures the news analysis responder.
type NewsConfig struct {
	Ceiling           int
	ExtractionCeiling int
}

// DefaultNewsConfig returns the observed production ceilings.
func DefaultNewsConfig() NewsConfig {
	return NewsConfig{Ceiling: 4000, ExtractionCeiling: 2000}
}

// News briefs the user on recent football news with per-article
// sentiment analysis.
type News struct {
	gen  generator
	news NewsProvider
	cfg  NewsConfig
	log  *logrus.Entry
}

// NewNews creates the news analysis responder.
func NewNews(client model.Client, counter *token.Counter, news NewsProvider, cfg NewsConfig) *News {
	return &News{
		gen:  generator{client: client, counter: counter},
		news: news,
		cfg:  cfg,
		log:  logrus.WithField("responder", "news_analysis"),
	}
}

func (n *News) Name() string { return "news_analysis" }

func (n *News) Description() string {
	return "축구 관련 최신 뉴스, 이적 소식, 근황에 대한 질문에 답한다. 예: 선수 이적설, 팀 관련 최근 소식."
}

type articleAnalysis struct {
	Summary   *string `json:"summary"`
	Sentiment string  `json:"sentiment"`
	Comment   string  `json:"comment"`
}

// Handle searches and analyzes recent news, then briefs the user.
func (n *News) Handle(ctx context.Context, query string, history []model.Message) (*Result, error) {
	keyword := n.extractKeyword(ctx, query, history)
	if keyword == "" {
		return &Result{Text: newsUnclearMsg}, nil
	}

	articles, err := n.news.Search(ctx, keyword, searchPageSize)
	if err != nil {
		n.log.WithError(err).Warn("news search failed")
		return &Result{Text: newsErrorMsg}, nil
	}
	if len(articles) == 0 {
		return &Result{Text: newsEmptyMsg}, nil
	}

	// Analyze newest first, stopping once enough articles prove usable.
	var analyzed []string
	for _, article := range articles {
		if len(analyzed) >= usableArticles {
			break
		}
		if strings.TrimSpace(article.Title) == "" {
			continue
		}

		msgs := []model.Message{
			{Role: model.RoleUser, Content: fmt.Sprintf(newsArticleAnalysisTemplate, article.Title, article.Description)},
		}
		var a articleAnalysis
		if !n.gen.extractJSON(ctx, msgs, n.cfg.ExtractionCeiling, &a) || a.Summary == nil || *a.Summary == "" {
			continue
		}
		analyzed = append(analyzed, fmt.Sprintf(
			"제목: %s\n요약: %s\n분위기: %s\n코멘트: %s\n링크: %s",
			article.Title, *a.Summary, a.Sentiment, a.Comment, article.URL,
		))
	}
	if len(analyzed) == 0 {
		return &Result{Text: newsEmptyMsg}, nil
	}

	groundedQuery := fmt.Sprintf(`사용자 질문: %s

다음은 검색되어 분석된 최신 뉴스 기사들입니다:

%s

이 기사들을 바탕으로 사용자에게 최신 소식을 자연스럽게 브리핑해주세요.
기사별 분위기와 전체 흐름을 함께 전달해주세요.`, query, strings.Join(analyzed, "\n\n"))

	result, err := n.gen.finalAnswer(ctx, newsSystemPrompt, history, groundedQuery, n.cfg.Ceiling, nil)
	if err != nil {
		n.log.WithError(err).Warn("briefing generation failed")
		return &Result{Text: newsErrorMsg}, nil
	}
	return result, nil
}

// extractKeyword returns the search keyword or "" when the query yields
// nothing searchable.
func (n *News) extractKeyword(ctx context.Context, query string, history []model.Message) string {
	msgs := model.CopyMessages(history)
	if len(msgs) == 0 || msgs[0].Role != model.RoleSystem {
		msgs = append([]model.Message{{Role: model.RoleSystem, Content: newsKeywordSystem}}, msgs...)
	}
	msgs = append(msgs, model.Message{Role: model.RoleUser, Content: fmt.Sprintf(newsKeywordTemplate, query)})

	keyword, ok := n.gen.extractText(ctx, msgs, n.cfg.ExtractionCeiling)
	if !ok {
		return ""
	}
	keyword = strings.Trim(strings.TrimSpace(keyword), `"'`)
	if keyword == "" || strings.EqualFold(keyword, "none") {
		return ""
	}
	return keyword
}
