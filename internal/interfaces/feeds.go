package interfaces

import (
	"context"

	"GameSquares/internal/model"
)

// OddsFeed 配置运动的赛前独赢报价
type OddsFeed interface {
	FetchOdds(ctx context.Context) ([]model.OddsQuote, error)
}

// LiveGameFeed 配置联赛/赛季下的直播比赛
type LiveGameFeed interface {
	FetchLiveGames(ctx context.Context) (*model.LiveGamesResponse, error)
}

// StatisticsFeed 按直播源比赛id获取双方技术统计
type StatisticsFeed interface {
	FetchGameStats(ctx context.Context, gameID int) (*model.StatisticsResponse, error)
}
