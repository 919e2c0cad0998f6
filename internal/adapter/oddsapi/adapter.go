package oddsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"GameSquares/internal/adapter"
	"GameSquares/internal/config"
	"GameSquares/internal/model"
	"GameSquares/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const feedName = "Odds API"

// Adapter the-odds-api.com v4 客户端
type Adapter struct {
	cfg        config.FeedConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewOddsAdapter(cfg config.FeedConfig, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(&cfg, logger),
		logger:     logger,
	}
}

// FetchOdds 未配置API key时直接返回空列表，不发请求
func (a *Adapter) FetchOdds(ctx context.Context) ([]model.OddsQuote, error) {
	if a.cfg.AuthKey == "" {
		a.logger.Debug("odds feed: no api key, skipping")
		return []model.OddsQuote{}, nil
	}

	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds", strings.TrimRight(a.cfg.BaseURL, "/"), url.PathEscape(a.cfg.Sport))
	q := url.Values{}
	q.Set("regions", a.cfg.Regions)
	q.Set("markets", a.cfg.Markets)
	q.Set("oddsFormat", a.cfg.OddsFormat)
	q.Set("dateFormat", a.cfg.DateFormat)
	q.Set("apiKey", a.cfg.AuthKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build odds request: %w", err)
	}

	var quotes []model.OddsQuote
	if err := adapter.DoJSON(a.httpClient, req, feedName, &quotes); err != nil {
		return nil, err
	}
	if quotes == nil {
		quotes = []model.OddsQuote{}
	}
	a.logger.WithField("quotes", len(quotes)).Debug("odds feed fetched")
	return quotes, nil
}
