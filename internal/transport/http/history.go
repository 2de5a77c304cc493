package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cep-connect4/backend/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type GameArchive interface {
	ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error)
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
}

type HistoryHandler struct {
	Archive GameArchive // nil when no database is configured
}

func NewHistoryHandler(archive GameArchive) *HistoryHandler {
	return &HistoryHandler{Archive: archive}
}

type gameHistoryItem struct {
	ID              string       `json:"id"`
	TableID         string       `json:"tableId"`
	Outcome         domain.Phase `json:"outcome"`
	Winner          int          `json:"winner,omitempty"`
	WinnerColor     string       `json:"winnerColor,omitempty"`
	MovesCount      int          `json:"movesCount"`
	DurationSeconds int          `json:"durationSeconds"`
	FinishedAt      string       `json:"finishedAt"`
}

// GetHistory handles GET /api/history?limit=n
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game history is not available"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.Archive.ListRecentGames(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	history := make([]gameHistoryItem, 0, len(records))
	for _, record := range records {
		item := gameHistoryItem{
			ID:              record.GameID,
			TableID:         record.TableID,
			Outcome:         record.Outcome,
			Winner:          record.Winner,
			MovesCount:      record.TotalMoves,
			DurationSeconds: record.DurationSeconds(),
			FinishedAt:      record.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		switch domain.PlayerID(record.Winner) {
		case domain.Player1:
			item.WinnerColor = domain.ColorValue(record.Player1Color)
		case domain.Player2:
			item.WinnerColor = domain.ColorValue(record.Player2Color)
		}
		history = append(history, item)
	}

	c.JSON(http.StatusOK, history)
}

// GetGameDetails handles GET /api/history/:id
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game history is not available"})
		return
	}

	record, err := h.Archive.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}
