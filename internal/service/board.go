package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"GameSquares/internal/interfaces"
	"GameSquares/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// 面向用户的提示，具体原因只写日志
const (
	MsgGamesUnavailable = "Unable to load games."
	MsgStatsUnavailable = "Unable to load statistics."
)

// ErrSquareNotFound 当前看板没有该id
var ErrSquareNotFound = errors.New("square not found")

// Publisher 接收看板和命中率更新（websocket hub）
type Publisher interface {
	Publish(msgType string, payload interface{})
}

// 交给Publisher的消息类型
const (
	EventBoard      = "board"
	EventEfficiency = "efficiency"
)

// BoardSnapshot 对外提供的看板快照
type BoardSnapshot struct {
	Squares    []model.GameSquare                `json:"squares"`
	Efficiency map[string]model.EfficiencyResult `json:"efficiency"`
	UpdatedAt  *time.Time                        `json:"updatedAt"`
	Loading    bool                              `json:"loading"`
	Error      string                            `json:"error,omitempty"`
}

// BoardService 维护最新合并结果及每场最新的命中率结果，
// 每次刷新整体替换
type BoardService struct {
	odds       interfaces.OddsFeed
	live       interfaces.LiveGameFeed
	stats      interfaces.StatisticsFeed
	calculator *EfficiencyCalculator
	publisher  Publisher
	logger     *logrus.Logger

	statsTimeout time.Duration
	now          func() time.Time

	mu         sync.RWMutex
	squares    []model.GameSquare
	efficiency map[string]model.EfficiencyResult
	updatedAt  time.Time
	loaded     bool
	lastErr    string

	// 刷新与计算开始时编号，只有在没有更晚开始的结果已生效时
	// 才写入
	refreshSeq     uint64
	appliedRefresh uint64
	efficiencySeq  uint64
	appliedResult  map[string]uint64
}

// BoardOption BoardService可选项
type BoardOption func(*BoardService)

// WithPublisher 每次看板变化推送给p
func WithPublisher(p Publisher) BoardOption {
	return func(s *BoardService) { s.publisher = p }
}

// WithStatsTimeout 单次按需拉取统计的超时
func WithStatsTimeout(d time.Duration) BoardOption {
	return func(s *BoardService) { s.statsTimeout = d }
}

// WithClock 替换看板时间戳和命中率结果使用的time.Now
func WithClock(now func() time.Time) BoardOption {
	return func(s *BoardService) { s.now = now }
}

func NewBoardService(odds interfaces.OddsFeed, live interfaces.LiveGameFeed, stats interfaces.StatisticsFeed, logger *logrus.Logger, opts ...BoardOption) *BoardService {
	s := &BoardService{
		odds:          odds,
		live:          live,
		stats:         stats,
		logger:        logger,
		statsTimeout:  10 * time.Second,
		now:           time.Now,
		squares:       []model.GameSquare{},
		efficiency:    make(map[string]model.EfficiencyResult),
		appliedResult: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.calculator = NewEfficiencyCalculator(s.now)
	return s
}

// Run 立即刷新一次，之后每个interval刷新，直到ctx结束
func (s *BoardService) Run(ctx context.Context, interval time.Duration) {
	s.logger.WithField("interval", interval.String()).Info("board refresh loop started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("board refresh loop stopped")
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

// Refresh 并发拉取两个数据源并替换看板；失败时保留原看板，
// 看板只带通用错误提示。
// 更晚开始的刷新已生效时，本次结果丢弃
func (s *BoardService) Refresh(ctx context.Context) error {
	log := s.logger.WithField("cycle_id", uuid.NewString())

	s.mu.Lock()
	s.refreshSeq++
	seq := s.refreshSeq
	s.mu.Unlock()

	var (
		odds []model.OddsQuote
		live *model.LiveGamesResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		odds, err = s.odds.FetchOdds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		live, err = s.live.FetchLiveGames(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("board refresh failed")
		s.mu.Lock()
		superseded := seq < s.appliedRefresh
		if !superseded {
			s.appliedRefresh = seq
			s.lastErr = MsgGamesUnavailable
			s.loaded = true
		}
		s.mu.Unlock()
		if !superseded {
			s.publish(EventBoard, s.Snapshot())
		}
		return fmt.Errorf("refresh board: %w", err)
	}

	var games []model.LiveGame
	if live != nil {
		games = live.Response
	}
	squares := MergeOddsWithLiveGames(odds, games)

	s.mu.Lock()
	if seq < s.appliedRefresh {
		s.mu.Unlock()
		log.WithField("seq", seq).Debug("refresh superseded, result discarded")
		return nil
	}
	s.appliedRefresh = seq
	s.squares = squares
	s.updatedAt = s.now()
	s.loaded = true
	s.lastErr = ""
	s.mu.Unlock()

	log.WithFields(logrus.Fields{
		"games":  len(games),
		"quotes": len(odds),
	}).Info("board refreshed")
	s.publish(EventBoard, s.Snapshot())
	return nil
}

// ComputeEfficiency 拉取单场统计、计算命中率并保存为该场最新结果。
// 同一场更晚开始的计算已保存时，保留并返回那次的结果
func (s *BoardService) ComputeEfficiency(ctx context.Context, squareID string) (model.EfficiencyResult, error) {
	square, ok := s.Square(squareID)
	if !ok {
		return model.EfficiencyResult{}, ErrSquareNotFound
	}

	s.mu.Lock()
	s.efficiencySeq++
	seq := s.efficiencySeq
	s.mu.Unlock()

	fetchCtx := ctx
	if s.statsTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.statsTimeout)
		defer cancel()
	}
	stats, err := s.stats.FetchGameStats(fetchCtx, square.APISourceID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"square_id":  square.ID,
			"api_source": square.APISourceID,
		}).Error("statistics fetch failed")
		s.mu.Lock()
		s.lastErr = MsgStatsUnavailable
		s.mu.Unlock()
		s.publish(EventBoard, s.Snapshot())
		return model.EfficiencyResult{}, fmt.Errorf("fetch statistics for game %d: %w", square.APISourceID, err)
	}

	var snapshot model.StatisticsResponse
	if stats != nil {
		snapshot = *stats
	}
	result := s.calculator.Compute(snapshot, square.HomeTeam, square.AwayTeam)

	s.mu.Lock()
	if seq < s.appliedResult[square.ID] {
		latest := s.efficiency[square.ID]
		s.mu.Unlock()
		s.logger.WithFields(logrus.Fields{"square_id": square.ID, "seq": seq}).Debug("efficiency superseded, keeping newer result")
		return latest, nil
	}
	s.appliedResult[square.ID] = seq
	s.efficiency[square.ID] = result
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"square_id": square.ID,
		"home":      formatMetricLog(result.HomeMetric),
		"away":      formatMetricLog(result.AwayMetric),
	}).Info("efficiency computed")
	s.publish(EventEfficiency, EfficiencyUpdate{SquareID: square.ID, Result: result})
	return result, nil
}

// EfficiencyUpdate 每次计算后推送的内容
type EfficiencyUpdate struct {
	SquareID string                 `json:"squareId"`
	Result   model.EfficiencyResult `json:"result"`
}

// Square 按id获取当前单场
func (s *BoardService) Square(id string) (model.GameSquare, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sq := range s.squares {
		if sq.ID == id {
			return sq, true
		}
	}
	return model.GameSquare{}, false
}

// Efficiency 该场最新保存的结果
func (s *BoardService) Efficiency(id string) (model.EfficiencyResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.efficiency[id]
	return r, ok
}

// Snapshot 当前看板的副本
func (s *BoardService) Snapshot() BoardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := BoardSnapshot{
		Squares:    append([]model.GameSquare(nil), s.squares...),
		Efficiency: make(map[string]model.EfficiencyResult, len(s.efficiency)),
		Loading:    !s.loaded,
		Error:      s.lastErr,
	}
	if snap.Squares == nil {
		snap.Squares = []model.GameSquare{}
	}
	for id, r := range s.efficiency {
		snap.Efficiency[id] = r
	}
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		snap.UpdatedAt = &t
	}
	return snap
}

func (s *BoardService) publish(msgType string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(msgType, payload)
	}
}

func formatMetricLog(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
