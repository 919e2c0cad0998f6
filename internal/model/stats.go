package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// 真实命中率用到的统计项名称
const (
	StatPoints              = "Points"
	StatFieldGoalsAttempted = "Field Goals Attempted"
	StatFreeThrowsAttempted = "Free Throws Attempted"
)

// StatisticsResponse GET /statistics?game={id} 的响应外层
type StatisticsResponse struct {
	Response []TeamStatistics `json:"response"`
}

// TeamStatistics 单支球队在一场比赛中的原始统计行
type TeamStatistics struct {
	Team       Team        `json:"team"`
	Statistics []StatEntry `json:"statistics"`
}

// StatEntry 带名称的统计行，Value保留源数据原样（数字、数字字符串或null）
type StatEntry struct {
	Type  string    `json:"type"`
	Value StatValue `json:"value"`
}

// StatValue 保留统计值的原始JSON，数字、数字字符串、null都能解码，
// 单个值异常不影响整个响应的解析
type StatValue json.RawMessage

// NumberStat 构造JSON数字类型的StatValue
func NumberStat(v float64) StatValue {
	return StatValue(strconv.FormatFloat(v, 'f', -1, 64))
}

// TextStat 构造JSON字符串类型的StatValue
func TextStat(s string) StatValue {
	b, _ := json.Marshal(s)
	return StatValue(b)
}

func (v *StatValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

func (v StatValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return []byte(v), nil
}

// Float 解析为有限数值；null、空串、非数字文本、布尔、对象
// 均返回ok=false
func (v StatValue) Float() (float64, bool) {
	raw := bytes.TrimSpace(v)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var f float64
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	} else if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Lookup 返回第一条名称完全等于label的统计值
func (t TeamStatistics) Lookup(label string) (StatValue, bool) {
	for _, s := range t.Statistics {
		if s.Type == label {
			return s.Value, true
		}
	}
	return nil, false
}
