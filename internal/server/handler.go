package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"alphatrade/internal/model"
	"alphatrade/internal/quote"
	"alphatrade/internal/service"
	"alphatrade/internal/store"
)

const fetchTimeout = 35 * time.Second

const defaultSnapshotLimit = 90

func (s *Server) getMarketData(c *gin.Context) {
	symbol := c.Query("symbol")
	rangeStr := c.DefaultQuery("range", "1M")

	r, err := quote.ParseRange(rangeStr)
	if err != nil {
		s.renderError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	data, err := s.quotes.Fetch(ctx, symbol, r, s.preferLive)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// tradeRequest is the wire shape of a trade order.
type tradeRequest struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

func (s *Server) postTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	side, err := model.ParseSide(req.Side)
	if err != nil {
		s.renderError(c, err)
		return
	}

	trade, err := s.portfolio.ExecuteTrade(service.TradeRequest{
		Symbol:   req.Symbol,
		Side:     side,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"trade":    trade,
		"holdings": s.portfolio.Holdings(),
	})
}

func (s *Server) getTrades(c *gin.Context) {
	trades, err := s.portfolio.History()
	if err != nil {
		s.renderError(c, err)
		return
	}
	if trades == nil {
		trades = []model.Trade{}
	}
	c.JSON(http.StatusOK, trades)
}

func (s *Server) getHoldings(c *gin.Context) {
	c.JSON(http.StatusOK, s.portfolio.Holdings())
}

func (s *Server) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.portfolio.Summary())
}

func (s *Server) getSnapshots(c *gin.Context) {
	limit := defaultSnapshotLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.renderError(c, &model.ValidationError{Field: "limit", Reason: "must be a positive integer"})
			return
		}
		limit = n
	}

	snaps, err := s.portfolio.Snapshots(limit)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	c.JSON(http.StatusOK, snaps)
}

// renderError maps validation failures to 400 and everything else to 500.
func (s *Server) renderError(c *gin.Context, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
