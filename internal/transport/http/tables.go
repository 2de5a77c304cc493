package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cep-connect4/backend/internal/domain"
	"github.com/iamasit07/cep-connect4/backend/internal/service/game"
)

// SeatCounter reports how many sockets are connected to a table
type SeatCounter interface {
	SeatCount(tableID string) int
}

type TablesHandler struct {
	TableManager *game.TableManager
	Seats        SeatCounter
}

func NewTablesHandler(tm *game.TableManager, seats SeatCounter) *TablesHandler {
	return &TablesHandler{TableManager: tm, Seats: seats}
}

type liveTableResponse struct {
	game.TableSummary
	Seats int `json:"seats"`
}

// GetLiveTables returns every table currently held in memory
func (h *TablesHandler) GetLiveTables(c *gin.Context) {
	summaries := h.TableManager.ListTables()

	response := make([]liveTableResponse, 0, len(summaries))
	for _, s := range summaries {
		item := liveTableResponse{TableSummary: s}
		if h.Seats != nil {
			item.Seats = h.Seats.SeatCount(s.TableID)
		}
		response = append(response, item)
	}

	c.JSON(http.StatusOK, response)
}

// GetTable returns the same snapshot a socket at the table would receive
func (h *TablesHandler) GetTable(c *gin.Context) {
	table, ok := h.TableManager.GetTable(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	c.JSON(http.StatusOK, table.Snapshot())
}

type paletteEntry struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func GetPalette(c *gin.Context) {
	palette := make([]paletteEntry, 0, len(domain.Palette))
	for i, color := range domain.Palette {
		palette = append(palette, paletteEntry{Index: i, Name: color.Name, Value: color.Value})
	}
	c.JSON(http.StatusOK, gin.H{"colors": palette, "unset": domain.UnsetColorValue})
}
