package feed

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsidepicks/bracket-sync/models"
)

const scoreboardFixture = `{
	"events": [
		{
			"id": "401638580",
			"date": "2026-03-19T18:10Z",
			"status": {"type": {"state": "post"}},
			"competitions": [
				{
					"notes": [{"headline": "Men's Basketball Championship - West Region - 1st Round"}],
					"venue": {"fullName": "Delta Center"},
					"competitors": [
						{
							"homeAway": "home",
							"score": "78",
							"seed": 1,
							"team": {"id": "150", "displayName": "Duke Blue Devils", "abbreviation": "DUKE"}
						},
						{
							"homeAway": "away",
							"score": "62",
							"seed": 16,
							"team": {"id": "2507", "displayName": "Saint Peter's Peacocks", "abbreviation": "SPU"}
						}
					]
				}
			]
		},
		{
			"id": "401638581",
			"date": "2026-04-06T21:20Z",
			"status": {"type": {"state": "pre"}},
			"competitions": [
				{
					"notes": [{"headline": "Men's Basketball Championship - National Championship"}],
					"venue": {"fullName": ""},
					"competitors": [
						{
							"homeAway": "home",
							"score": "",
							"seed": 0,
							"team": {"id": "153", "displayName": "North Carolina Tar Heels", "abbreviation": "UNC"}
						},
						{
							"homeAway": "away",
							"score": "",
							"seed": 0,
							"team": {"id": "2305", "displayName": "Kansas Jayhawks", "abbreviation": "KU"}
						}
					]
				}
			]
		},
		{
			"id": "401638582",
			"date": "2026-03-19T20:00Z",
			"status": {"type": {"state": "pre"}},
			"competitions": [
				{
					"competitors": [
						{
							"homeAway": "home",
							"team": {"id": "96", "displayName": "Kentucky Wildcats", "abbreviation": "UK"}
						}
					]
				}
			]
		}
	]
}`

func TestFetchGamesMapsScoreboard(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://feed.test/scoreboard?dates=20260319",
		httpmock.NewStringResponder(200, scoreboardFixture))

	client := NewClient("https://feed.test/", "espn")
	games, err := client.FetchGames(context.Background(), time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	// The event missing an away competitor is dropped.
	require.Len(t, games, 2)

	first := games[0]
	assert.Equal(t, "401638580", first.ExternalID)
	assert.Equal(t, "espn", first.ExternalSource)
	assert.Equal(t, models.GameStatusFinal, first.Status)
	assert.Equal(t, "1st Round", first.Round)
	require.NotNil(t, first.Region)
	assert.Equal(t, "West", *first.Region)
	assert.Equal(t, time.Date(2026, 3, 19, 18, 10, 0, 0, time.UTC), first.Date)
	require.NotNil(t, first.Venue)
	assert.Equal(t, "Delta Center", *first.Venue)

	assert.Equal(t, "150", first.HomeTeam.ExternalID)
	assert.Equal(t, "Duke Blue Devils", first.HomeTeam.DisplayName)
	assert.Equal(t, "DUKE", first.HomeTeam.Abbreviation)
	require.NotNil(t, first.HomeScore)
	assert.Equal(t, 78, *first.HomeScore)
	require.NotNil(t, first.SeedHome)
	assert.Equal(t, 1, *first.SeedHome)
	require.NotNil(t, first.SeedAway)
	assert.Equal(t, 16, *first.SeedAway)
}

func TestFetchGamesChampionshipHasNoRegion(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://feed.test/scoreboard?dates=20260319",
		httpmock.NewStringResponder(200, scoreboardFixture))

	client := NewClient("https://feed.test", "espn")
	games, err := client.FetchGames(context.Background(), time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, games, 2)

	final := games[1]
	assert.Equal(t, "National Championship", final.Round)
	assert.Nil(t, final.Region)
	assert.Nil(t, final.HomeScore)
	assert.Nil(t, final.SeedHome)
	assert.Nil(t, final.Venue)
	assert.Equal(t, models.GameStatusScheduled, final.Status)
}

func TestFetchGamesNonOKStatus(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://feed.test/scoreboard?dates=20260319",
		httpmock.NewStringResponder(503, "upstream unavailable"))

	client := NewClient("https://feed.test", "espn")
	_, err := client.FetchGames(context.Background(), time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFetchGamesMalformedBody(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://feed.test/scoreboard?dates=20260319",
		httpmock.NewStringResponder(200, "not json"))

	client := NewClient("https://feed.test", "espn")
	_, err := client.FetchGames(context.Background(), time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC))

	assert.Error(t, err)
}

func TestParseHeadline(t *testing.T) {
	round, region := parseHeadline("Men's Basketball Championship - East Region - Sweet 16")
	assert.Equal(t, "Sweet 16", round)
	require.NotNil(t, region)
	assert.Equal(t, "East", *region)

	round, region = parseHeadline("Men's Basketball Championship - Final Four")
	assert.Equal(t, "Final Four", round)
	assert.Nil(t, region)

	round, region = parseHeadline("Championship")
	assert.Equal(t, "Championship", round)
	assert.Nil(t, region)
}
