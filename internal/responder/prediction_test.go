package responder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footman-ai/footman/internal/football"
)

type fakeFixtures struct {
	fixture *football.Fixture
	err     error
	gotDate time.Time
	gotTeam string
}

func (f *fakeFixtures) FixtureOn(_ context.Context, date time.Time, teamName string) (*football.Fixture, error) {
	f.gotDate, f.gotTeam = date, teamName
	return f.fixture, f.err
}

type fakePredictor struct {
	outcome *football.Outcome
	err     error
	gotHome string
	gotAway string
}

func (f *fakePredictor) Predict(_ context.Context, _ time.Time, homeTeam, awayTeam string) (*football.Outcome, error) {
	f.gotHome, f.gotAway = homeTeam, awayTeam
	return f.outcome, f.err
}

func newTestPrediction(client *fakeClient, fixtures *fakeFixtures, predictor *fakePredictor) *Prediction {
	p := NewPrediction(client, testCounter(), fixtures, predictor, DefaultPredictionConfig())
	p.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPredictionHandle(t *testing.T) {
	client := &fakeClient{
		completions: []string{`{"team": "토트넘", "date": "내일"}`},
		streamText:  "토트넘의 승리가 유력합니다.",
	}
	fixtures := &fakeFixtures{fixture: &football.Fixture{HomeTeam: "Tottenham", AwayTeam: "Arsenal"}}
	predictor := &fakePredictor{outcome: &football.Outcome{
		HomeTeam:    "Tottenham",
		AwayTeam:    "Arsenal",
		MatchDate:   "2024-05-11",
		Result:      "Home Win",
		AwayWinProb: 0.38,
		HomeElo:     1820,
		AwayElo:     1795,
	}}
	p := newTestPrediction(client, fixtures, predictor)

	result, err := p.Handle(context.Background(), "내일 토트넘 경기 누가 이겨?", nil)
	require.NoError(t, err)

	assert.Equal(t, "Tottenham", fixtures.gotTeam)
	assert.Equal(t, time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), fixtures.gotDate)
	assert.Equal(t, "Tottenham", predictor.gotHome)
	assert.Equal(t, "Arsenal", predictor.gotAway)

	text, err := result.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "토트넘의 승리가 유력합니다.", text)

	require.Len(t, client.streamReqs, 1)
	final := client.streamReqs[0]
	require.NotNil(t, final.Temperature)
	assert.Equal(t, 0.5, *final.Temperature)
	prompt := final.Messages[len(final.Messages)-1].Content
	assert.Contains(t, prompt, "Home Win")
	assert.Contains(t, prompt, "38.0%")
	assert.Contains(t, prompt, "1820")
}

func TestPredictionUnclear(t *testing.T) {
	t.Run("unknown team", func(t *testing.T) {
		client := &fakeClient{completions: []string{`{"team": "레알 마드리드", "date": "내일"}`}}
		p := newTestPrediction(client, &fakeFixtures{}, &fakePredictor{})

		result, err := p.Handle(context.Background(), "내일 레알 경기", nil)
		require.NoError(t, err)
		assert.Equal(t, predictionUnclearMsg, result.Text)
	})

	t.Run("no date", func(t *testing.T) {
		client := &fakeClient{completions: []string{`{"team": "토트넘", "date": null}`}}
		p := newTestPrediction(client, &fakeFixtures{}, &fakePredictor{})

		result, err := p.Handle(context.Background(), "토트넘 다음 경기 이겨?", nil)
		require.NoError(t, err)
		assert.Equal(t, predictionUnclearMsg, result.Text)
	})

	t.Run("extraction failure", func(t *testing.T) {
		client := &fakeClient{completions: []string{"모르겠어요"}}
		p := newTestPrediction(client, &fakeFixtures{}, &fakePredictor{})

		result, err := p.Handle(context.Background(), "경기 예측", nil)
		require.NoError(t, err)
		assert.Equal(t, predictionUnclearMsg, result.Text)
	})
}

func TestPredictionNoFixture(t *testing.T) {
	client := &fakeClient{completions: []string{`{"team": "토트넘", "date": "내일"}`}}
	p := newTestPrediction(client, &fakeFixtures{}, &fakePredictor{})

	result, err := p.Handle(context.Background(), "내일 토트넘 경기", nil)
	require.NoError(t, err)
	assert.Equal(t, predictionNoFixtureMsg, result.Text)
}

func TestPredictionNoData(t *testing.T) {
	client := &fakeClient{completions: []string{`{"team": "토트넘", "date": "내일"}`}}
	fixtures := &fakeFixtures{fixture: &football.Fixture{HomeTeam: "Tottenham", AwayTeam: "Arsenal"}}
	p := newTestPrediction(client, fixtures, &fakePredictor{})

	result, err := p.Handle(context.Background(), "내일 토트넘 경기", nil)
	require.NoError(t, err)
	assert.Equal(t, predictionNoDataMsg, result.Text)
}

func TestPredictionProviderErrors(t *testing.T) {
	t.Run("fixture lookup", func(t *testing.T) {
		client := &fakeClient{completions: []string{`{"team": "토트넘", "date": "내일"}`}}
		p := newTestPrediction(client, &fakeFixtures{err: errors.New("api down")}, &fakePredictor{})

		result, err := p.Handle(context.Background(), "내일 토트넘 경기", nil)
		require.NoError(t, err)
		assert.Equal(t, predictionErrorMsg, result.Text)
	})

	t.Run("prediction service", func(t *testing.T) {
		client := &fakeClient{completions: []string{`{"team": "토트넘", "date": "내일"}`}}
		fixtures := &fakeFixtures{fixture: &football.Fixture{HomeTeam: "Tottenham", AwayTeam: "Arsenal"}}
		p := newTestPrediction(client, fixtures, &fakePredictor{err: errors.New("service down")})

		result, err := p.Handle(context.Background(), "내일 토트넘 경기", nil)
		require.NoError(t, err)
		assert.Equal(t, predictionErrorMsg, result.Text)
	})
}
