package service

import (
	"strconv"

	"GameSquares/internal/model"
)

// MergeOddsWithLiveGames 将赔率合并到直播比赛，每场直播比赛产出一个单场视图，
// 保持直播源顺序。
//
// 主客队名都需完全相等（区分大小写），取第一个匹配的报价；
// 两个源队名写法不同时该场就没有赔率。缺失的数据一律为nil，不报错
func MergeOddsWithLiveGames(odds []model.OddsQuote, live []model.LiveGame) []model.GameSquare {
	squares := make([]model.GameSquare, 0, len(live))
	for _, g := range live {
		square := model.GameSquare{
			ID:          strconv.Itoa(g.ID),
			APISourceID: g.ID,
			HomeTeam:    g.Teams.Home.Name,
			AwayTeam:    g.Teams.Away.Name,
			Status:      g.Status.Long,
			ScoreHome:   scoreTotal(g.Scores.Home),
			ScoreAway:   scoreTotal(g.Scores.Away),
		}
		if quote := findQuote(odds, square.HomeTeam, square.AwayTeam); quote != nil {
			square.PregameOdds = extractMoneyline(quote, square.HomeTeam, square.AwayTeam)
		}
		squares = append(squares, square)
	}
	return squares
}

func findQuote(odds []model.OddsQuote, home, away string) *model.OddsQuote {
	for i := range odds {
		if odds[i].HomeTeam == home && odds[i].AwayTeam == away {
			return &odds[i]
		}
	}
	return nil
}

// extractMoneyline 读取报价中第一个博彩商的h2h赔率；
// 只要匹配到报价就返回非nil，即使内部没有可用数据
func extractMoneyline(quote *model.OddsQuote, home, away string) *model.PregameOdds {
	odds := &model.PregameOdds{}
	if len(quote.Bookmakers) == 0 {
		return odds
	}
	bookmaker := quote.Bookmakers[0]
	title := bookmaker.Title
	odds.Bookmaker = &title

	market := findMarket(bookmaker.Markets, model.MoneylineMarketKey)
	if market == nil {
		return odds
	}
	odds.Home = outcomePrice(market.Outcomes, home)
	odds.Away = outcomePrice(market.Outcomes, away)
	return odds
}

func findMarket(markets []model.Market, key string) *model.Market {
	for i := range markets {
		if markets[i].Key == key {
			return &markets[i]
		}
	}
	return nil
}

func outcomePrice(outcomes []model.Outcome, name string) *float64 {
	for _, o := range outcomes {
		if o.Name == name {
			if o.Price == nil {
				return nil
			}
			price := *o.Price
			return &price
		}
	}
	return nil
}

func scoreTotal(s *model.Score) *int {
	if s == nil || s.Total == nil {
		return nil
	}
	total := *s.Total
	return &total
}
