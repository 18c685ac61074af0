// Package football provides clients for the external football data
// providers: the statistics API, the news search API, and the match
// prediction service. Each client is a thin HTTP boundary; callers treat
// empty results as a normal terminal state, not an error.
package football

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	statsBaseURL = "https://api-football-v1.p.rapidapi.com/v3"
	statsHost    = "api-football-v1.p.rapidapi.com"

	// Premier League in the statistics provider's numbering.
	premierLeagueID = 39
)

// StatsClient queries the API-Football statistics provider.
type StatsClient struct {
	apiKey string
	client *http.Client
	log    *logrus.Entry
}

// NewStatsClient creates a statistics client.
func NewStatsClient(apiKey string) *StatsClient {
	return &StatsClient{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    logrus.WithField("component", "football.stats"),
	}
}

// PlayerStats is the identity and per-competition record of one player.
type PlayerStats struct {
	Name        string
	FirstName   string
	LastName    string
	Age         int
	Nationality string
	ByLeague    []LeagueStats
}

// LeagueStats is one competition's record for a player.
type LeagueStats struct {
	LeagueName    string
	LeagueCountry string
	TeamName      string
	Appearances   int
	Minutes       int
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
}

// TeamStats is one team's season record.
type TeamStats struct {
	TeamName      string
	LeagueName    string
	Season        int
	Played        int
	Wins          int
	Draws         int
	Losses        int
	GoalsFor      int
	GoalsAgainst  int
	CleanSheets   int
	FailedToScore int
}

// Fixture identifies one scheduled match.
type Fixture struct {
	HomeTeam string
	AwayTeam string
}

// PlayerStats looks up a player by name and returns their statistics for
// the given season (current season when zero). Returns nil when the
// player cannot be resolved.
func (c *StatsClient) PlayerStats(ctx context.Context, name string, season int, teamName string) (*PlayerStats, error) {
	searchParams := map[string]string{"search": name}
	if season > 0 {
		searchParams["season"] = strconv.Itoa(season)
	}

	var search playersResponse
	if err := c.get(ctx, "players", searchParams, &search); err != nil {
		return nil, err
	}
	if len(search.Response) == 0 {
		return nil, nil
	}

	// Prefer an exact name match; otherwise the provider's first hit.
	playerID := search.Response[0].Player.ID
	for _, entry := range search.Response {
		if strings.EqualFold(entry.Player.Name, name) {
			playerID = entry.Player.ID
			break
		}
	}
	if playerID == 0 {
		return nil, nil
	}

	statsParams := map[string]string{"id": strconv.Itoa(playerID)}
	if season > 0 {
		statsParams["season"] = strconv.Itoa(season)
	} else {
		statsParams["season"] = strconv.Itoa(time.Now().Year())
	}

	var stats playersResponse
	if err := c.get(ctx, "players", statsParams, &stats); err != nil {
		return nil, err
	}
	if len(stats.Response) == 0 {
		return nil, nil
	}

	entry := stats.Response[0]
	out := &PlayerStats{
		Name:        entry.Player.Name,
		FirstName:   entry.Player.FirstName,
		LastName:    entry.Player.LastName,
		Age:         entry.Player.Age,
		Nationality: entry.Player.Nationality,
	}
	for _, s := range entry.Statistics {
		if teamName != "" && !strings.EqualFold(s.Team.Name, teamName) {
			continue
		}
		out.ByLeague = append(out.ByLeague, LeagueStats{
			LeagueName:    s.League.Name,
			LeagueCountry: s.League.Country,
			TeamName:      s.Team.Name,
			Appearances:   s.Games.Appearances,
			Minutes:       s.Games.Minutes,
			Goals:         s.Goals.Total,
			Assists:       s.Goals.Assists,
			YellowCards:   s.Cards.Yellow,
			RedCards:      s.Cards.Red,
		})
	}
	return out, nil
}

// TeamStats looks up a team by name and returns its season record.
// Returns nil when the team cannot be resolved.
func (c *StatsClient) TeamStats(ctx context.Context, name string, season int) (*TeamStats, error) {
	var search teamsResponse
	if err := c.get(ctx, "teams", map[string]string{"search": name}, &search); err != nil {
		return nil, err
	}
	if len(search.Response) == 0 {
		return nil, nil
	}

	teamID := search.Response[0].Team.ID
	for _, entry := range search.Response {
		if strings.EqualFold(entry.Team.Name, name) {
			teamID = entry.Team.ID
			break
		}
	}
	if teamID == 0 {
		return nil, nil
	}

	if season <= 0 {
		season = time.Now().Year()
	}
	params := map[string]string{
		"team":   strconv.Itoa(teamID),
		"league": strconv.Itoa(premierLeagueID),
		"season": strconv.Itoa(season),
	}

	var stats teamStatisticsResponse
	if err := c.get(ctx, "teams/statistics", params, &stats); err != nil {
		return nil, err
	}
	r := stats.Response
	if r.Team.Name == "" {
		return nil, nil
	}

	return &TeamStats{
		TeamName:      r.Team.Name,
		LeagueName:    r.League.Name,
		Season:        r.League.Season,
		Played:        r.Fixtures.Played.Total,
		Wins:          r.Fixtures.Wins.Total,
		Draws:         r.Fixtures.Draws.Total,
		Losses:        r.Fixtures.Loses.Total,
		GoalsFor:      r.Goals.For.Total.Total,
		GoalsAgainst:  r.Goals.Against.Total.Total,
		CleanSheets:   r.CleanSheet.Total,
		FailedToScore: r.FailedToScore.Total,
	}, nil
}

// FixtureOn finds the Premier League fixture on the given date involving
// the given team. Returns nil when no such fixture exists.
func (c *StatsClient) FixtureOn(ctx context.Context, date time.Time, teamName string) (*Fixture, error) {
	params := map[string]string{
		"date":   date.Format("2006-01-02"),
		"league": strconv.Itoa(premierLeagueID),
		"season": strconv.Itoa(seasonYear(date)),
	}

	var fixtures fixturesResponse
	if err := c.get(ctx, "fixtures", params, &fixtures); err != nil {
		return nil, err
	}

	lower := strings.ToLower(teamName)
	for _, f := range fixtures.Response {
		home := strings.ToLower(f.Teams.Home.Name)
		away := strings.ToLower(f.Teams.Away.Name)
		if lower == home || lower == away {
			return &Fixture{HomeTeam: f.Teams.Home.Name, AwayTeam: f.Teams.Away.Name}, nil
		}
	}
	return nil, nil
}

// seasonYear maps a calendar date to the provider's season parameter:
// a European season is keyed by its starting year.
func seasonYear(date time.Time) int {
	if date.Month() >= time.July {
		return date.Year()
	}
	return date.Year() - 1
}

func (c *StatsClient) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	if c.apiKey == "" {
		c.log.Warn("statistics API key not configured")
		return fmt.Errorf("statistics API key not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statsBaseURL+"/"+endpoint, nil)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", statsHost)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("endpoint", endpoint).Warn("statistics request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Warn("statistics request rejected")
		return fmt.Errorf("statistics API error (status %d): %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ============================================================
// Provider Wire Types (fields actually consumed)
// ============================================================

type playersResponse struct {
	Response []struct {
		Player struct {
			ID          int    `json:"id"`
			Name        string `json:"name"`
			FirstName   string `json:"firstname"`
			LastName    string `json:"lastname"`
			Age         int    `json:"age"`
			Nationality string `json:"nationality"`
		} `json:"player"`
		Statistics []struct {
			League struct {
				Name    string `json:"name"`
				Country string `json:"country"`
			} `json:"league"`
			Team struct {
				Name string `json:"name"`
			} `json:"team"`
			Games struct {
				Appearances int `json:"appearences"`
				Minutes     int `json:"minutes"`
			} `json:"games"`
			Goals struct {
				Total   int `json:"total"`
				Assists int `json:"assists"`
			} `json:"goals"`
			Cards struct {
				Yellow int `json:"yellow"`
				Red    int `json:"red"`
			} `json:"cards"`
		} `json:"statistics"`
	} `json:"response"`
}

type teamsResponse struct {
	Response []struct {
		Team struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"team"`
	} `json:"response"`
}

type teamStatisticsResponse struct {
	Response struct {
		Team struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"team"`
		League struct {
			Name   string `json:"name"`
			Season int    `json:"season"`
		} `json:"league"`
		Fixtures struct {
			Played struct {
				Total int `json:"total"`
			} `json:"played"`
			Wins struct {
				Total int `json:"total"`
			} `json:"wins"`
			Draws struct {
				Total int `json:"total"`
			} `json:"draws"`
			Loses struct {
				Total int `json:"total"`
			} `json:"loses"`
		} `json:"fixtures"`
		Goals struct {
			For struct {
				Total struct {
					Total int `json:"total"`
				} `json:"total"`
			} `json:"for"`
			Against struct {
				Total struct {
					Total int `json:"total"`
				} `json:"total"`
			} `json:"against"`
		} `json:"goals"`
		CleanSheet struct {
			Total int `json:"total"`
		} `json:"clean_sheet"`
		FailedToScore struct {
			Total int `json:"total"`
		} `json:"failed_to_score"`
	} `json:"response"`
}

type fixturesResponse struct {
	Response []struct {
		Teams struct {
			Home struct {
				Name string `json:"name"`
			} `json:"home"`
			Away struct {
				Name string `json:"name"`
			} `json:"away"`
		} `json:"teams"`
	} `json:"response"`
}
