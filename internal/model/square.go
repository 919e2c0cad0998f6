package model

// GameSquare 合并后的单场视图：一场直播比赛及其赛前赔率（可能没有）
// ID只取自直播源id，刷新前后保持不变
type GameSquare struct {
	ID          string       `json:"id"`
	APISourceID int          `json:"apiSourceId"`
	HomeTeam    string       `json:"homeTeam"`
	AwayTeam    string       `json:"awayTeam"`
	Status      string       `json:"status"`
	ScoreHome   *int         `json:"scoreHome"`
	ScoreAway   *int         `json:"scoreAway"`
	PregameOdds *PregameOdds `json:"pregameOdds,omitempty"`
}

// PregameOdds 匹配到的报价中第一个博彩商的独赢赔率
type PregameOdds struct {
	Home      *float64 `json:"home"`
	Away      *float64 `json:"away"`
	Bookmaker *string  `json:"bookmaker"`
}

// EfficiencyResult 某一时刻一场比赛双方的真实命中率
type EfficiencyResult struct {
	HomeMetric *float64     `json:"homeMetric"`
	AwayMetric *float64     `json:"awayMetric"`
	ComputedAt string       `json:"computedAt"`
	Teams      []TeamMetric `json:"teams"`
}

// TeamMetric 以统计源球队名为key的指标
type TeamMetric struct {
	Team   string   `json:"team"`
	Metric *float64 `json:"metric"`
}
