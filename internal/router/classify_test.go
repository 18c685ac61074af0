package router

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/footman-ai/footman/internal/errors"
	"github.com/footman-ai/footman/internal/model"
)

func TestMatchLabel(t *testing.T) {
	t.Run("exact labels", func(t *testing.T) {
		assert.Equal(t, LabelTeamPlayer, matchLabel("TEAM_PLAYER"))
		assert.Equal(t, LabelNewsAnalysis, matchLabel("NEWS_ANALYSIS"))
		assert.Equal(t, LabelPrediction, matchLabel("PREDICTION"))
		assert.Equal(t, LabelGeneral, matchLabel("GENERAL"))
	})

	t.Run("case and surrounding text tolerated", func(t *testing.T) {
		assert.Equal(t, LabelTeamPlayer, matchLabel("답변: team_player 입니다"))
		assert.Equal(t, LabelGeneral, matchLabel("  General\n"))
	})

	t.Run("no label is a failure", func(t *testing.T) {
		assert.Equal(t, LabelFailure, matchLabel("축구 질문이네요"))
		assert.Equal(t, LabelFailure, matchLabel(""))
	})

	t.Run("multiple labels are a failure", func(t *testing.T) {
		assert.Equal(t, LabelFailure, matchLabel("TEAM_PLAYER 또는 PREDICTION"))
	})
}

func TestClassifySendsSingleTurn(t *testing.T) {
	var got *model.Request
	client := &fakeClient{
		completeFn: func(req *model.Request) (*model.Response, error) {
			got = req
			return &model.Response{Text: "TEAM_PLAYER"}, nil
		},
	}
	rt, _ := newTestRouter(t, client)

	history := []model.Message{
		{Role: model.RoleUser, Content: "첫 질문"},
		{Role: model.RoleAssistant, Content: "첫 답변"},
		{Role: model.RoleUser, Content: "둘째 질문"},
		{Role: model.RoleAssistant, Content: "둘째 답변"},
	}
	label, err := rt.Classify(context.Background(), "손흥민 골 기록은?", history)
	require.NoError(t, err)
	assert.Equal(t, LabelTeamPlayer, label)

	// Classification mode: system prompt plus exactly the most recent
	// message, older history trimmed away.
	require.NotNil(t, got)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, model.RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "손흥민 골 기록은?", got.Messages[1].Content)
	assert.Equal(t, classifyMaxTokens, got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.Zero(t, *got.Temperature)
}

func TestClassifyOverflowPlaceholder(t *testing.T) {
	var got *model.Request
	client := &fakeClient{
		completeFn: func(req *model.Request) (*model.Response, error) {
			got = req
			return &model.Response{Text: "GENERAL"}, nil
		},
	}
	rt, _ := newTestRouter(t, client)
	rt.cfg.RoutingCeiling = 60

	label, err := rt.Classify(context.Background(), strings.Repeat("아주 긴 질문 ", 500), nil)
	require.NoError(t, err)
	assert.Equal(t, LabelGeneral, label)

	// The oversized turn was replaced, not truncated mid-sentence.
	require.NotNil(t, got)
	last := got.Messages[len(got.Messages)-1]
	assert.Equal(t, "질문이 너무 길어 처리할 수 없습니다.", last.Content)
}

func TestClassifyModelError(t *testing.T) {
	client := &fakeClient{
		completeFn: func(*model.Request) (*model.Response, error) {
			return nil, apperrors.Permanent(apperrors.CodeModelUnavailable, "down")
		},
	}
	rt, _ := newTestRouter(t, client)

	label, err := rt.Classify(context.Background(), "질문", nil)
	require.Error(t, err)
	assert.Equal(t, LabelFailure, label)
}

func TestRouteByClassification(t *testing.T) {
	responders := allFakeResponders()

	t.Run("dispatches matching capability", func(t *testing.T) {
		client := &fakeClient{
			completeFn: func(*model.Request) (*model.Response, error) {
				return &model.Response{Text: "PREDICTION"}, nil
			},
		}
		rt, _ := newTestRouter(t, client, responders...)

		result, err := rt.RouteByClassification(context.Background(), "내일 토트넘 이겨?", nil)
		require.NoError(t, err)
		assert.Equal(t, "토트넘의 승리가 예상됩니다.", result.Text)
	})

	t.Run("failure verdict is terminal", func(t *testing.T) {
		client := &fakeClient{
			completeFn: func(*model.Request) (*model.Response, error) {
				return &model.Response{Text: "모르겠습니다"}, nil
			},
		}
		rt, _ := newTestRouter(t, client, responders...)

		result, err := rt.RouteByClassification(context.Background(), "질문", nil)
		require.NoError(t, err)
		assert.Equal(t, CannotAnswerMsg, result.Text)
	})

	t.Run("model failure is fatal", func(t *testing.T) {
		client := &fakeClient{
			completeFn: func(*model.Request) (*model.Response, error) {
				return nil, apperrors.Permanent(apperrors.CodeModelUnavailable, "down")
			},
		}
		rt, _ := newTestRouter(t, client, responders...)

		result, err := rt.RouteByClassification(context.Background(), "질문", nil)
		require.NoError(t, err)
		assert.Equal(t, FatalMsg, result.Text)
	})
}
