package model

// LiveGamesResponse GET /games?live=all 的响应外层
type LiveGamesResponse struct {
	Response []LiveGame `json:"response"`
}

// LiveGame 直播源中一场未开赛或进行中的比赛
type LiveGame struct {
	ID     int        `json:"id"`
	Status GameStatus `json:"status"`
	Teams  GameTeams  `json:"teams"`
	Scores GameScores `json:"scores"`
}

// GameStatus long为展示文案（"Quarter 3"、"Halftime"），short为状态码（"Q3"）
type GameStatus struct {
	Long  string `json:"long"`
	Short string `json:"short"`
}

type GameTeams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

// Team 直播源与统计源中的球队信息
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// GameScores 开赛前任一方都可能为null
type GameScores struct {
	Home *Score `json:"home"`
	Away *Score `json:"away"`
}

type Score struct {
	Total *int `json:"total"`
}
