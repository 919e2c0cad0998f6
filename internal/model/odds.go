package model

// MoneylineMarketKey 赔率源中独赢（h2h）盘口的key
const MoneylineMarketKey = "h2h"

// OddsQuote 赔率源中的一场对阵（GET /v4/sports/{sport}/odds）
type OddsQuote struct {
	ID           string      `json:"id"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"` // 保持源顺序，只取第一个
}

// Bookmaker 单个博彩商对一场对阵的报价
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market 单个盘口，Key为"h2h"时是独赢盘
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome 结果名称（h2h下为球队名）及美式赔率，price为null时保持nil
type Outcome struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}
