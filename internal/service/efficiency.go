package service

import (
	"math"
	"time"

	"GameSquares/internal/model"

	"github.com/shopspring/decimal"
)

// freeThrowWeight 一次罚球出手折算的回合占比
const freeThrowWeight = 0.44

// computedAtLayout ISO-8601 UTC，精确到毫秒
const computedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// EfficiencyCalculator 根据统计快照计算真实命中率，
// 除时钟外无状态，可并发使用
type EfficiencyCalculator struct {
	now func() time.Time
}

// NewEfficiencyCalculator now为nil时使用time.Now
func NewEfficiencyCalculator(now func() time.Time) *EfficiencyCalculator {
	if now == nil {
		now = time.Now
	}
	return &EfficiencyCalculator{now: now}
}

// Compute 计算快照中前两支球队的指标，并按队名对应主客队。
//
// homeTeam与awayTeam都为空时按位置对应（第一支为主队，第二支为客队）；
// 指定的队名不在前两支球队中时为nil。不会失败，统计缺失或异常时指标为nil
func (c *EfficiencyCalculator) Compute(stats model.StatisticsResponse, homeTeam, awayTeam string) model.EfficiencyResult {
	lookup := make(map[string]model.TeamStatistics, len(stats.Response))
	names := make([]string, 0, len(stats.Response))
	for _, entry := range stats.Response {
		lookup[entry.Team.Name] = entry
		names = append(names, entry.Team.Name)
	}
	if len(names) > 2 {
		names = names[:2]
	}

	result := model.EfficiencyResult{
		ComputedAt: c.now().UTC().Format(computedAtLayout),
		Teams:      make([]model.TeamMetric, 0, len(names)),
	}
	for _, name := range names {
		tm := model.TeamMetric{Team: name}
		if name != "" {
			tm.Metric = trueShooting(lookup[name])
		}
		result.Teams = append(result.Teams, tm)
	}

	if homeTeam == "" && awayTeam == "" {
		if len(result.Teams) > 0 {
			result.HomeMetric = result.Teams[0].Metric
		}
		if len(result.Teams) > 1 {
			result.AwayMetric = result.Teams[1].Metric
		}
		return result
	}
	result.HomeMetric = metricFor(result.Teams, homeTeam)
	result.AwayMetric = metricFor(result.Teams, awayTeam)
	return result
}

func metricFor(teams []model.TeamMetric, name string) *float64 {
	if name == "" {
		return nil
	}
	for _, t := range teams {
		if t.Team == name {
			return t.Metric
		}
	}
	return nil
}

// trueShooting points / (2 * (FGA + 0.44 * FTA))，保留3位小数
func trueShooting(team model.TeamStatistics) *float64 {
	points, ok := readStat(team, model.StatPoints)
	if !ok {
		return nil
	}
	fga, ok := readStat(team, model.StatFieldGoalsAttempted)
	if !ok {
		return nil
	}
	fta, ok := readStat(team, model.StatFreeThrowsAttempted)
	if !ok {
		return nil
	}

	denominator := 2 * (fga + freeThrowWeight*fta)
	if denominator == 0 {
		return nil
	}
	ratio := points / denominator
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil
	}
	metric, _ := decimal.NewFromFloat(ratio).Round(3).Float64()
	return &metric
}

func readStat(team model.TeamStatistics, label string) (float64, bool) {
	value, ok := team.Lookup(label)
	if !ok {
		return 0, false
	}
	return value.Float()
}
