// Package feed fetches game records from the external event source and maps
// them onto models.RawGame. Only the document shape matters here: the core
// pipeline does not care how the feed is produced.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/courtsidepicks/bracket-sync/models"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	httpClient *http.Client
	baseURL    string
	source     string
}

// NewClient builds a feed client for one source. baseURL points at the
// scoreboard endpoint root, e.g. the ESPN site API.
func NewClient(baseURL, source string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		source:     source,
	}
}

// Scoreboard document shape, reduced to the fields the importer consumes.
type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Status       struct {
		Type struct {
			State string `json:"state"`
		} `json:"type"`
	} `json:"status"`
	Competitions []struct {
		Notes []struct {
			Headline string `json:"headline"`
		} `json:"notes"`
		Venue struct {
			FullName string `json:"fullName"`
		} `json:"venue"`
		Competitors []competitor `json:"competitors"`
	} `json:"competitions"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Seed     int    `json:"seed"`
	Team     struct {
		ID           string `json:"id"`
		DisplayName  string `json:"displayName"`
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

// FetchGames pulls the scoreboard for one date and maps every event to a
// RawGame. Events missing either competitor are dropped with no error; the
// reconciler deals with everything else.
func (c *Client) FetchGames(ctx context.Context, date time.Time) ([]models.RawGame, error) {
	url := fmt.Sprintf("%s/scoreboard?dates=%s", c.baseURL, date.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var doc scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	games := make([]models.RawGame, 0, len(doc.Events))
	for _, event := range doc.Events {
		if game, ok := c.mapEvent(event); ok {
			games = append(games, game)
		}
	}
	return games, nil
}

func (c *Client) mapEvent(event scoreboardEvent) (models.RawGame, bool) {
	if len(event.Competitions) == 0 {
		return models.RawGame{}, false
	}
	competition := event.Competitions[0]

	var home, away *competitor
	for i := range competition.Competitors {
		switch competition.Competitors[i].HomeAway {
		case "home":
			home = &competition.Competitors[i]
		case "away":
			away = &competition.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return models.RawGame{}, false
	}

	game := models.RawGame{
		ExternalID:     event.ID,
		ExternalSource: c.source,
		Status:         mapStatus(event.Status.Type.State),
		HomeTeam:       externalTeam(*home),
		AwayTeam:       externalTeam(*away),
		HomeScore:      parseScore(home.Score),
		AwayScore:      parseScore(away.Score),
		SeedHome:       parseSeed(home.Seed),
		SeedAway:       parseSeed(away.Seed),
	}

	if date, err := time.Parse("2006-01-02T15:04Z", event.Date); err == nil {
		game.Date = date
	}
	if competition.Venue.FullName != "" {
		venue := competition.Venue.FullName
		game.Venue = &venue
	}
	if len(competition.Notes) > 0 {
		game.Round, game.Region = parseHeadline(competition.Notes[0].Headline)
	}
	return game, true
}

func externalTeam(c competitor) models.ExternalTeamRecord {
	return models.ExternalTeamRecord{
		ExternalID:   c.Team.ID,
		DisplayName:  c.Team.DisplayName,
		Abbreviation: c.Team.Abbreviation,
	}
}

func mapStatus(state string) models.GameStatus {
	switch state {
	case "pre":
		return models.GameStatusScheduled
	case "in":
		return models.GameStatusInProgress
	case "post":
		return models.GameStatusFinal
	default:
		return models.GameStatusScheduled
	}
}

func parseScore(raw string) *int {
	if raw == "" {
		return nil
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &score
}

func parseSeed(seed int) *int {
	if seed <= 0 {
		return nil
	}
	return &seed
}

// parseHeadline splits a note like
// "Men's Basketball Championship - West Region - 1st Round" into the round
// label and region. The region segment is optional (Final Four onward).
func parseHeadline(headline string) (round string, region *string) {
	parts := strings.Split(headline, " - ")
	if len(parts) == 0 {
		return "", nil
	}
	round = strings.TrimSpace(parts[len(parts)-1])
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if name, ok := strings.CutSuffix(part, " Region"); ok {
			name = strings.TrimSpace(name)
			region = &name
			break
		}
	}
	return round, region
}
