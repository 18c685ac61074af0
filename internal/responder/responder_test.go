package responder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/token"
)

// fakeClient scripts the model boundary for responder tests: Complete
// replies are consumed in order, Stream replays a fixed answer.
type fakeClient struct {
	completions []string
	completeErr error
	streamText  string
	streamErr   error

	completeReqs []*model.Request
	streamReqs   []*model.Request
}

func (f *fakeClient) Complete(_ context.Context, req *model.Request) (*model.Response, error) {
	f.completeReqs = append(f.completeReqs, req)
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	idx := len(f.completeReqs) - 1
	if idx >= len(f.completions) {
		return &model.Response{Text: ""}, nil
	}
	return &model.Response{Text: f.completions[idx]}, nil
}

func (f *fakeClient) Stream(_ context.Context, req *model.Request) (*model.Stream, error) {
	f.streamReqs = append(f.streamReqs, req)
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return model.TextStream(f.streamText), nil
}

func (f *fakeClient) Name() string { return "fake" }

func testCounter() *token.Counter {
	return token.NewCounter("gpt-4o")
}

func TestResultMaterializeText(t *testing.T) {
	r := &Result{Text: "이미 완성된 답변"}
	text, err := r.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "이미 완성된 답변", text)
}

func TestResultMaterializeStream(t *testing.T) {
	r := &Result{Stream: model.ChunkStream(
		model.Chunk{Content: "스트림 "},
		model.Chunk{Content: "답변"},
	)}
	text, err := r.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "스트림 답변", text)

	// Materializing twice is safe; the stream is consumed once.
	again, err := r.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "스트림 답변", again)
}

func TestRegistry(t *testing.T) {
	client := &fakeClient{}
	counter := testCounter()

	registry := NewRegistry()
	registry.Register(NewGeneral(client, counter, DefaultGeneralConfig()))
	registry.Register(NewTeamPlayer(client, counter, nil, DefaultTeamPlayerConfig()))
	registry.Register(NewNews(client, counter, nil, DefaultNewsConfig()))
	registry.Register(NewPrediction(client, counter, nil, nil, DefaultPredictionConfig()))

	assert.Equal(t, []string{"general", "news_analysis", "prediction", "team_player"}, registry.Names())

	res, ok := registry.Get("team_player")
	require.True(t, ok)
	assert.Equal(t, "team_player", res.Name())

	_, ok = registry.Get("weather")
	assert.False(t, ok)

	tools := registry.Tools()
	require.Len(t, tools, 4)
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.Parameters["type"])
	}
}

func TestGeneralHandleStreams(t *testing.T) {
	client := &fakeClient{streamText: "안녕하세요! 축구 이야기 해볼까요?"}
	g := NewGeneral(client, testCounter(), DefaultGeneralConfig())

	result, err := g.Handle(context.Background(), "안녕", nil)
	require.NoError(t, err)
	require.NotNil(t, result.Stream)

	text, err := result.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요! 축구 이야기 해볼까요?", text)

	// The persona system prompt leads the request.
	require.Len(t, client.streamReqs, 1)
	msgs := client.streamReqs[0].Messages
	require.NotEmpty(t, msgs)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Equal(t, generalSystemPrompt, msgs[0].Content)
	assert.Equal(t, "안녕", msgs[len(msgs)-1].Content)
}
