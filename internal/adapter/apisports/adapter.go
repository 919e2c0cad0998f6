package apisports

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"GameSquares/internal/adapter"
	"GameSquares/internal/config"
	"GameSquares/internal/model"
	"GameSquares/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const (
	feedName      = "API Sports"
	statsFeedName = "API Sports stats"
	authHeader    = "x-apisports-key"
)

// Adapter api-sports篮球接口客户端（直播比赛、单场球队统计）
type Adapter struct {
	cfg        config.FeedConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewAPISportsAdapter(cfg config.FeedConfig, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(&cfg, logger),
		logger:     logger,
	}
}

// FetchLiveGames GET /games?league=&season=&live=all
func (a *Adapter) FetchLiveGames(ctx context.Context) (*model.LiveGamesResponse, error) {
	if a.cfg.AuthKey == "" {
		a.logger.Debug("live feed: no api key, skipping")
		return &model.LiveGamesResponse{Response: []model.LiveGame{}}, nil
	}

	q := url.Values{}
	q.Set("league", a.cfg.League)
	q.Set("season", a.cfg.Season)
	q.Set("live", "all")
	req, err := a.newRequest(ctx, "games", q)
	if err != nil {
		return nil, err
	}

	var out model.LiveGamesResponse
	if err := adapter.DoJSON(a.httpClient, req, feedName, &out); err != nil {
		return nil, err
	}
	if out.Response == nil {
		out.Response = []model.LiveGame{}
	}
	a.logger.WithField("games", len(out.Response)).Debug("live feed fetched")
	return &out, nil
}

// FetchGameStats GET /statistics?game={id}
func (a *Adapter) FetchGameStats(ctx context.Context, gameID int) (*model.StatisticsResponse, error) {
	if a.cfg.AuthKey == "" {
		return &model.StatisticsResponse{Response: []model.TeamStatistics{}}, nil
	}

	q := url.Values{}
	q.Set("game", strconv.Itoa(gameID))
	req, err := a.newRequest(ctx, "statistics", q)
	if err != nil {
		return nil, err
	}

	var out model.StatisticsResponse
	if err := adapter.DoJSON(a.httpClient, req, statsFeedName, &out); err != nil {
		return nil, err
	}
	if out.Response == nil {
		out.Response = []model.TeamStatistics{}
	}
	return &out, nil
}

func (a *Adapter) newRequest(ctx context.Context, path string, q url.Values) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", strings.TrimRight(a.cfg.BaseURL, "/"), path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set(authHeader, a.cfg.AuthKey)
	return req, nil
}
