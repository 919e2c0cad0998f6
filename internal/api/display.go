package api

import (
	"fmt"
	"strconv"

	"GameSquares/internal/model"
)

const (
	placeholder   = "—"
	noOddsFeed    = "No odds feed"
	clickForValue = "Click for TS"
)

// SquareView 单场数据、最新命中率及展示文案
type SquareView struct {
	model.GameSquare
	Efficiency *model.EfficiencyResult `json:"efficiency,omitempty"`
	Display    SquareDisplay           `json:"display"`
}

type SquareDisplay struct {
	Score          string `json:"score"`
	HomeOdds       string `json:"homeOdds"`
	AwayOdds       string `json:"awayOdds"`
	HomeEfficiency string `json:"homeEfficiency"`
	AwayEfficiency string `json:"awayEfficiency"`
	Bookmaker      string `json:"bookmaker"`
	Efficiency     string `json:"efficiencyStatus"`
}

func newSquareView(sq model.GameSquare, eff *model.EfficiencyResult) SquareView {
	v := SquareView{
		GameSquare: sq,
		Efficiency: eff,
		Display: SquareDisplay{
			Score:          formatScore(sq.ScoreHome, sq.ScoreAway),
			HomeOdds:       placeholder,
			AwayOdds:       placeholder,
			HomeEfficiency: placeholder,
			AwayEfficiency: placeholder,
			Bookmaker:      noOddsFeed,
			Efficiency:     clickForValue,
		},
	}
	if sq.PregameOdds != nil {
		v.Display.HomeOdds = formatOdds(sq.PregameOdds.Home)
		v.Display.AwayOdds = formatOdds(sq.PregameOdds.Away)
		if sq.PregameOdds.Bookmaker != nil {
			v.Display.Bookmaker = *sq.PregameOdds.Bookmaker
		}
	}
	if eff != nil {
		v.Display.HomeEfficiency = formatEfficiency(eff.HomeMetric)
		v.Display.AwayEfficiency = formatEfficiency(eff.AwayMetric)
		v.Display.Efficiency = "TS updated " + eff.ComputedAt
	}
	return v
}

// formatOdds 美式赔率，正数带+号
func formatOdds(v *float64) string {
	if v == nil {
		return placeholder
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if *v > 0 {
		return "+" + s
	}
	return s
}

// formatScore 客队在前（记分牌顺序）
func formatScore(home, away *int) string {
	if home == nil || away == nil {
		return placeholder
	}
	return fmt.Sprintf("%d - %d", *away, *home)
}

func formatEfficiency(v *float64) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}
