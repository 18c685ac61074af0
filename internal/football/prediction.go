// Package football provides the match prediction service client.
package football

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Outcome is the prediction service's verdict for one fixture.
type Outcome struct {
	HomeTeam    string  `json:"home_team"`
	AwayTeam    string  `json:"away_team"`
	MatchDate   string  `json:"match_date"`
	Result      string  `json:"pred_result"`   // "Home Win" or "Away Win"
	AwayWinProb float64 `json:"away_win_prob"` // 0..1
	HomeElo     float64 `json:"home_elo"`
	AwayElo     float64 `json:"away_elo"`
}

// PredictionClient calls the external match prediction service.
type PredictionClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

// NewPredictionClient creates a prediction client.
func NewPredictionClient(baseURL string) *PredictionClient {
	return &PredictionClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logrus.WithField("component", "football.prediction"),
	}
}

// Predict asks the service for the outcome of the given fixture. A nil
// outcome with nil error means the fixture could not be resolved, which
// callers treat as a normal terminal state.
func (c *PredictionClient) Predict(ctx context.Context, matchDate time.Time, homeTeam, awayTeam string) (*Outcome, error) {
	if c.baseURL == "" {
		c.log.Warn("prediction service URL not configured")
		return nil, fmt.Errorf("prediction service not configured")
	}

	body, err := json.Marshal(map[string]string{
		"match_date": matchDate.Format("2006-01-02"),
		"home_team":  homeTeam,
		"away_team":  awayTeam,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("prediction request failed")
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// Unknown fixture or team.
		return nil, nil
	default:
		b, _ := io.ReadAll(resp.Body)
		c.log.WithField("status", resp.StatusCode).Warn("prediction request rejected")
		return nil, fmt.Errorf("prediction service error (status %d): %s", resp.StatusCode, string(b))
	}

	var outcome Outcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, err
	}
	if outcome.HomeTeam == "" || outcome.AwayTeam == "" {
		return nil, nil
	}
	return &outcome, nil
}
