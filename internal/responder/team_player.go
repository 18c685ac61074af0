// Package responder provides the team/player lookup responder.
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

// StatsProvider is the statistics collaborator consumed by the
// team/player responder.
type StatsProvider interface {
	PlayerStats(ctx context.Context, name string, season int, teamName string) (*football.PlayerStats, error)
	TeamStats(ctx context.Context, name string, season int) (*football.TeamStats, error)
}

// Fixed user-facing messages for the team/player capability.
const (
	teamPlayerUnclearMsg = "죄송합니다. 질문에서 어떤 선수나 팀 정보를 찾으시는지 명확하게 파악하기 어렵습니다. 구체적인 선수명이나 팀명을 알려주세요."
	teamPlayerEmptyMsg   = "요청하신 선수/팀의 통계 정보를 찾을 수 없습니다. 이름이나 시즌을 바꿔서 다시 질문해주세요."
	teamPlayerErrorMsg   = "선수/팀 정보 검색 중 문제가 발생했습니다. 잠시 후 다시 시도해주세요."
)

const teamPlayerSystemPrompt = "너는 축구 통계 전문가다. 조회된 선수/팀 데이터를 바탕으로 정확하고 간결하게 답변해라. 불필요한 서론 없이 핵심 정보만 전달해라."

const teamPlayerExtractionSystem = "너는 사용자 질문에서 핵심 정보를 추출하여 JSON으로 반환하는 AI다. 이전 대화 맥락을 참고해서 '그 선수', '그 팀' 같은 표현을 이해해야 한다."

const teamPlayerExtractionTemplate = `사용자의 질문에서 축구 선수 또는 팀의 이름과 관련 시즌(연도)을 JSON 형식으로 추출해.
질문이 선수에 대한 것이라면 "type": "player", 팀에 대한 것이라면 "type": "team"으로 지정해.
정보가 없다면 null로 처리해.

예시:
- "손흥민 최근 골 기록은?" => {"type": "player", "name": "Son Heung-min", "team": null, "season": null}
- "토트넘의 손흥민 2023-2024 시즌 기록" => {"type": "player", "name": "Son Heung-min", "team": "Tottenham", "season": 2023}
- "맨체스터 시티 2023년 성적 알려줘" => {"type": "team", "name": "Manchester City", "team": null, "season": 2023}

사용자 질문: %s`

// TeamPlayerConfig configures the team/player responder.
type TeamPlayerConfig struct {
	Ceiling           int // final-answer token ceiling
	ExtractionCeiling int
	Temperature       float64
}

// DefaultTeamPlayerConfig returns the observed production settings. The
// high temperature keeps stat recitals from sounding like a table dump.
func DefaultTeamPlayerConfig() TeamPlayerConfig {
	return TeamPlayerConfig{Ceiling: 4000, ExtractionCeiling: 2000, Temperature: 1.2}
}

// TeamPlayer answers questions about player and team statistics.
type TeamPlayer struct {
	gen   generator
	stats StatsProvider
	cfg   TeamPlayerConfig
	log   *logrus.Entry
}

// NewTeamPlayer creates the team/player responder.
func NewTeamPlayer(client model.Client, counter *token.Counter, stats StatsProvider, cfg TeamPlayerConfig) *TeamPlayer {
	return &TeamPlayer{
		gen:   generator{client: client, counter: counter},
		stats: stats,
		cfg:   cfg,
		log:   logrus.WithField("responder", "team_player"),
	}
}

// Name returns the capability identifier.
func (t *TeamPlayer) Name() string { return "team_player" }

// Description tells the routing model when to pick this capability.
func (t *TeamPlayer) Description() string {
	return "축구 선수나 팀의 기록, 통계, 성적에 대한 질문에 답한다. 예: 선수의 골 기록, 팀의 시즌 성적."
}

// entity is the strictly-validated extraction result. Anything that is
// neither a named player nor a named team degrades to the clarification
// message instead of being trusted.
type entity struct {
	Type   string  `json:"type"`
	Name   *string `json:"name"`
	Team   *string `json:"team"`
	Season *int    `json:"season"`
}

func (e *entity) valid() bool {
	if e.Type != "player" && e.Type != "team" {
		return false
	}
	return e.Name != nil && strings.TrimSpace(*e.Name) != ""
}

// Handle answers a team/player statistics question.
func (t *TeamPlayer) Handle(ctx context.Context, query string, history []model.Message) (*Result, error) {
	// Extraction: pull entity name/season out of free text, with the
	// history present so references like "그 선수" resolve.
	extractionMsgs := model.CopyMessages(history)
	if len(extractionMsgs) == 0 || extractionMsgs[0].Role != model.RoleSystem {
		extractionMsgs = append([]model.Message{{Role: model.RoleSystem, Content: teamPlayerExtractionSystem}}, extractionMsgs...)
	}
	extractionMsgs = append(extractionMsgs, model.Message{
		Role:    model.RoleUser,
		Content: fmt.Sprintf(teamPlayerExtractionTemplate, query),
	})

	var ent entity
	if !t.gen.extractJSON(ctx, extractionMsgs, t.cfg.ExtractionCeiling, &ent) || !ent.valid() {
		return &Result{Text: teamPlayerUnclearMsg}, nil
	}

	season := 0
	if ent.Season != nil {
		season = *ent.Season
	}

	var grounding string
	switch ent.Type {
	case "player":
		teamName := ""
		if ent.Team != nil {
			teamName = *ent.Team
		}
		stats, err := t.stats.PlayerStats(ctx, *ent.Name, season, teamName)
		if err != nil {
			t.log.WithError(err).Warn("player stats lookup failed")
			return &Result{Text: teamPlayerErrorMsg}, nil
		}
		if stats == nil {
			return &Result{Text: teamPlayerEmptyMsg}, nil
		}
		grounding = formatPlayerStats(stats)

	case "team":
		stats, err := t.stats.TeamStats(ctx, *ent.Name, season)
		if err != nil {
			t.log.WithError(err).Warn("team stats lookup failed")
			return &Result{Text: teamPlayerErrorMsg}, nil
		}
		if stats == nil {
			return &Result{Text: teamPlayerEmptyMsg}, nil
		}
		grounding = formatTeamStats(stats)
	}

	groundedQuery := fmt.Sprintf(`사용자 질문: %s

다음은 조회된 선수/팀 정보입니다:
%s

이 정보를 바탕으로 사용자 질문에 대해 상세하고 명확하게 답변해주세요.
이전 대화 내용과 연관이 있다면 그 맥락도 고려해서 답변해주세요.`, query, grounding)

	result, err := t.gen.finalAnswer(ctx, teamPlayerSystemPrompt, history, groundedQuery, t.cfg.Ceiling, temperature(t.cfg.Temperature))
	if err != nil {
		t.log.WithError(err).Warn("final answer generation failed")
		return &Result{Text: teamPlayerErrorMsg}, nil
	}
	return result, nil
}

func formatPlayerStats(s *football.PlayerStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "선수 이름: %s %s (%s)\n", s.FirstName, s.LastName, s.Name)
	fmt.Fprintf(&b, "나이: %d\n", s.Age)
	fmt.Fprintf(&b, "국적: %s\n", s.Nationality)
	if len(s.ByLeague) == 0 {
		b.WriteString("최근 시즌 통계 정보를 찾을 수 없습니다.\n")
		return strings.TrimSpace(b.String())
	}
	b.WriteString("\n--- 리그별 통계 ---\n")
	for _, ls := range s.ByLeague {
		fmt.Fprintf(&b, "리그: %s (%s)\n", ls.LeagueName, ls.LeagueCountry)
		fmt.Fprintf(&b, "소속팀: %s\n", ls.TeamName)
		fmt.Fprintf(&b, "출전 경기: %d, 출전 시간: %d분\n", ls.Appearances, ls.Minutes)
		fmt.Fprintf(&b, "득점: %d골, 어시스트: %d\n", ls.Goals, ls.Assists)
		fmt.Fprintf(&b, "경고: %d회, 퇴장: %d회\n\n", ls.YellowCards, ls.RedCards)
	}
	return strings.TrimSpace(b.String())
}

func formatTeamStats(s *football.TeamStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "팀 이름: %s\n", s.TeamName)
	fmt.Fprintf(&b, "리그: %s (%d 시즌)\n\n", s.LeagueName, s.Season)
	b.WriteString("--- 경기 기록 ---\n")
	fmt.Fprintf(&b, "총 경기: %d, 승: %d, 무: %d, 패: %d\n\n", s.Played, s.Wins, s.Draws, s.Losses)
	b.WriteString("--- 득실 기록 ---\n")
	fmt.Fprintf(&b, "득점: %d골, 실점: %d골\n", s.GoalsFor, s.GoalsAgainst)
	fmt.Fprintf(&b, "클린 시트: %d회, 득점 실패 경기: %d회\n", s.CleanSheets, s.FailedToScore)
	return strings.TrimSpace(b.String())
}
