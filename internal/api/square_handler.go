package api

import (
	"errors"
	"net/http"
	"time"

	"GameSquares/internal/model"
	"GameSquares/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SquareHandler 看板页面使用的接口
type SquareHandler struct {
	board  *service.BoardService
	logger *logrus.Logger
}

func NewSquareHandler(board *service.BoardService, logger *logrus.Logger) *SquareHandler {
	return &SquareHandler{board: board, logger: logger}
}

// BoardResponse GET /api/squares 响应体
type BoardResponse struct {
	Squares   []SquareView `json:"squares"`
	UpdatedAt *time.Time   `json:"updatedAt"`
	Loading   bool         `json:"loading"`
	Error     string       `json:"error,omitempty"`
}

// ListSquares 当前看板，按直播源顺序
// GET /api/squares
func (h *SquareHandler) ListSquares(c *gin.Context) {
	c.JSON(http.StatusOK, buildBoardResponse(h.board.Snapshot()))
}

// GetSquare 单场详情及最新命中率结果
// GET /api/squares/:id
func (h *SquareHandler) GetSquare(c *gin.Context) {
	id := c.Param("id")
	sq, ok := h.board.Square(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrSquareNotFound.Error()})
		return
	}
	var eff *model.EfficiencyResult
	if r, ok := h.board.Efficiency(id); ok {
		eff = &r
	}
	c.JSON(http.StatusOK, newSquareView(sq, eff))
}

// ComputeEfficiency 单场“计算命中率”操作
// POST /api/squares/:id/efficiency
func (h *SquareHandler) ComputeEfficiency(c *gin.Context) {
	id := c.Param("id")
	result, err := h.board.ComputeEfficiency(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSquareNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("square_id", id).Warn("ComputeEfficiency failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": service.MsgStatsUnavailable})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Refresh 手动触发一次看板刷新
// POST /api/refresh
func (h *SquareHandler) Refresh(c *gin.Context) {
	if err := h.board.Refresh(c.Request.Context()); err != nil {
		h.logger.WithError(err).Warn("manual refresh failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": service.MsgGamesUnavailable})
		return
	}
	c.JSON(http.StatusOK, buildBoardResponse(h.board.Snapshot()))
}

// Health 健康检查
// GET /health
func (h *SquareHandler) Health(c *gin.Context) {
	snap := h.board.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"squares":    len(snap.Squares),
		"updated_at": snap.UpdatedAt,
	})
}

func buildBoardResponse(snap service.BoardSnapshot) BoardResponse {
	resp := BoardResponse{
		Squares:   make([]SquareView, 0, len(snap.Squares)),
		UpdatedAt: snap.UpdatedAt,
		Loading:   snap.Loading,
		Error:     snap.Error,
	}
	for _, sq := range snap.Squares {
		var eff *model.EfficiencyResult
		if r, ok := snap.Efficiency[sq.ID]; ok {
			eff = &r
		}
		resp.Squares = append(resp.Squares, newSquareView(sq, eff))
	}
	return resp
}
