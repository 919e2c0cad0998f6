package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"GameSquares/internal/model"
	"GameSquares/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type stubFeeds struct {
	odds     []model.OddsQuote
	live     []model.LiveGame
	stats    *model.StatisticsResponse
	liveErr  error
	statsErr error
}

func (s *stubFeeds) FetchOdds(ctx context.Context) ([]model.OddsQuote, error) { return s.odds, nil }

func (s *stubFeeds) FetchLiveGames(ctx context.Context) (*model.LiveGamesResponse, error) {
	if s.liveErr != nil {
		return nil, s.liveErr
	}
	return &model.LiveGamesResponse{Response: s.live}, nil
}

func (s *stubFeeds) FetchGameStats(ctx context.Context, gameID int) (*model.StatisticsResponse, error) {
	return s.stats, s.statsErr
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func intPtr(v int) *int { return &v }

func price(v float64) *float64 { return &v }

func sampleFeeds() *stubFeeds {
	return &stubFeeds{
		odds: []model.OddsQuote{{
			HomeTeam: "Boston Celtics",
			AwayTeam: "Miami Heat",
			Bookmakers: []model.Bookmaker{{
				Title: "DraftKings",
				Markets: []model.Market{{Key: "h2h", Outcomes: []model.Outcome{
					{Name: "Boston Celtics", Price: price(-150)},
					{Name: "Miami Heat", Price: price(130)},
				}}},
			}},
		}},
		live: []model.LiveGame{
			{
				ID:     77,
				Status: model.GameStatus{Long: "Quarter 4"},
				Teams:  model.GameTeams{Home: model.Team{Name: "Boston Celtics"}, Away: model.Team{Name: "Miami Heat"}},
				Scores: model.GameScores{Home: &model.Score{Total: intPtr(101)}, Away: &model.Score{Total: intPtr(99)}},
			},
			{
				ID:     78,
				Status: model.GameStatus{Long: "Not Started"},
				Teams:  model.GameTeams{Home: model.Team{Name: "Utah Jazz"}, Away: model.Team{Name: "Denver Nuggets"}},
			},
		},
		stats: &model.StatisticsResponse{Response: []model.TeamStatistics{
			{Team: model.Team{Name: "Miami Heat"}, Statistics: []model.StatEntry{
				{Type: model.StatPoints, Value: model.NumberStat(99)},
				{Type: model.StatFieldGoalsAttempted, Value: model.TextStat("N/A")},
				{Type: model.StatFreeThrowsAttempted, Value: model.NumberStat(10)},
			}},
			{Team: model.Team{Name: "Boston Celtics"}, Statistics: []model.StatEntry{
				{Type: model.StatPoints, Value: model.NumberStat(100)},
				{Type: model.StatFieldGoalsAttempted, Value: model.NumberStat(80)},
				{Type: model.StatFreeThrowsAttempted, Value: model.NumberStat(20)},
			}},
		}},
	}
}

func newTestRouter(t *testing.T, feeds *stubFeeds) (*gin.Engine, *service.BoardService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := func() time.Time { return time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC) }
	board := service.NewBoardService(feeds, feeds, feeds, quietLogger(), service.WithClock(clock))
	h := NewSquareHandler(board, quietLogger())

	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/api/squares", h.ListSquares)
	r.GET("/api/squares/:id", h.GetSquare)
	r.POST("/api/squares/:id/efficiency", h.ComputeEfficiency)
	r.POST("/api/refresh", h.Refresh)
	return r, board
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeBoard(t *testing.T, w *httptest.ResponseRecorder) BoardResponse {
	t.Helper()
	var resp BoardResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return resp
}

func TestListSquaresBeforeRefresh(t *testing.T) {
	r, _ := newTestRouter(t, sampleFeeds())

	w := do(r, http.MethodGet, "/api/squares")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBoard(t, w)
	if !resp.Loading || len(resp.Squares) != 0 || resp.UpdatedAt != nil {
		t.Errorf("board = %+v, want loading and empty", resp)
	}
}

func TestRefreshAndList(t *testing.T) {
	r, _ := newTestRouter(t, sampleFeeds())

	if w := do(r, http.MethodPost, "/api/refresh"); w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBoard(t, do(r, http.MethodGet, "/api/squares"))

	if len(resp.Squares) != 2 {
		t.Fatalf("squares = %d", len(resp.Squares))
	}
	first := resp.Squares[0]
	if first.ID != "77" || first.APISourceID != 77 {
		t.Errorf("first square = %+v", first.GameSquare)
	}
	want := SquareDisplay{
		Score:          "99 - 101",
		HomeOdds:       "-150",
		AwayOdds:       "+130",
		HomeEfficiency: "—",
		AwayEfficiency: "—",
		Bookmaker:      "DraftKings",
		Efficiency:     "Click for TS",
	}
	if first.Display != want {
		t.Errorf("display = %+v, want %+v", first.Display, want)
	}
	second := resp.Squares[1]
	if second.PregameOdds != nil || second.Display.Bookmaker != "No odds feed" || second.Display.Score != "—" {
		t.Errorf("second square = %+v", second)
	}
}

func TestComputeEfficiencyEndpoint(t *testing.T) {
	r, board := newTestRouter(t, sampleFeeds())
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	w := do(r, http.MethodPost, "/api/squares/77/efficiency")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var result model.EfficiencyResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.HomeMetric == nil || *result.HomeMetric != 0.563 {
		t.Errorf("home = %v, want 0.563", result.HomeMetric)
	}
	if result.AwayMetric != nil {
		t.Errorf("away = %v, want nil", *result.AwayMetric)
	}
	if result.ComputedAt != "2025-03-01T20:00:00.000Z" {
		t.Errorf("computedAt = %q", result.ComputedAt)
	}

	w = do(r, http.MethodGet, "/api/squares/77")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var view SquareView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Display.HomeEfficiency != "56.3%" || view.Display.AwayEfficiency != "—" {
		t.Errorf("display = %+v", view.Display)
	}
	if view.Display.Efficiency != "TS updated 2025-03-01T20:00:00.000Z" {
		t.Errorf("efficiency status = %q", view.Display.Efficiency)
	}
}

func TestComputeEfficiencyErrors(t *testing.T) {
	feeds := sampleFeeds()
	r, board := newTestRouter(t, feeds)
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if w := do(r, http.MethodPost, "/api/squares/999/efficiency"); w.Code != http.StatusNotFound {
		t.Errorf("unknown square status = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/squares/999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown square get status = %d", w.Code)
	}

	feeds.statsErr = errors.New("boom")
	w := do(r, http.MethodPost, "/api/squares/77/efficiency")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != service.MsgStatsUnavailable {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRefreshFailure(t *testing.T) {
	feeds := sampleFeeds()
	feeds.liveErr = errors.New("API Sports error: status=500")
	r, _ := newTestRouter(t, feeds)

	w := do(r, http.MethodPost, "/api/refresh")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBoard(t, do(r, http.MethodGet, "/api/squares"))
	if resp.Error != service.MsgGamesUnavailable || resp.Loading {
		t.Errorf("board = %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, sampleFeeds())
	if w := do(r, http.MethodGet, "/health"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestFormatters(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	odds := []struct {
		in   *float64
		want string
	}{
		{nil, "—"},
		{f(150), "+150"},
		{f(-110), "-110"},
		{f(0), "0"},
		{f(2.5), "+2.5"},
	}
	for _, tt := range odds {
		if got := formatOdds(tt.in); got != tt.want {
			t.Errorf("formatOdds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := formatScore(intPtr(10), nil); got != "—" {
		t.Errorf("formatScore partial = %q", got)
	}
	if got := formatScore(intPtr(10), intPtr(12)); got != "12 - 10" {
		t.Errorf("formatScore = %q", got)
	}
	if got := formatEfficiency(f(0.573)); got != "57.3%" {
		t.Errorf("formatEfficiency = %q", got)
	}
	if got := formatEfficiency(nil); got != "—" {
		t.Errorf("formatEfficiency(nil) = %q", got)
	}
}
