package game

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/cep-connect4/backend/internal/domain"
	"github.com/iamasit07/cep-connect4/backend/pkg/uid"
)

const archiveTimeout = 10 * time.Second

type GameRepository interface {
	SaveGame(ctx context.Context, record domain.GameRecord) error
}

// Table owns the single mutable Game a pair of players share.
type Table struct {
	TableID      string
	GameID       string // changes every time a new round starts
	Game         *domain.Game
	CreatedAt    time.Time
	StartedAt    time.Time
	LastActivity time.Time
	mu           sync.Mutex
	manager      *TableManager
}

// TableManager manages active tables
type TableManager struct {
	Tables  map[string]*Table // tableID → Table
	mu      sync.RWMutex
	repo    GameRepository // Optional, can be nil
	rows    int
	columns int
	pending sync.WaitGroup
}

func NewTableManager(repo GameRepository, rows, columns int) (*TableManager, error) {
	if _, err := domain.NewBoard(rows, columns); err != nil {
		return nil, fmt.Errorf("table size %dx%d: %w", rows, columns, err)
	}
	return &TableManager{
		Tables:  make(map[string]*Table),
		repo:    repo,
		rows:    rows,
		columns: columns,
	}, nil
}

func (tm *TableManager) CreateTable() (*Table, error) {
	tableID, err := uid.GenerateTableID()
	if err != nil {
		return nil, err
	}
	g, err := domain.NewGameWithSize(tm.rows, tm.columns)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	table := &Table{
		TableID:      tableID,
		Game:         g,
		CreatedAt:    now,
		LastActivity: now,
		manager:      tm,
	}

	tm.mu.Lock()
	tm.Tables[tableID] = table
	tm.mu.Unlock()

	log.Printf("[TABLE] Created table %s (%dx%d)", tableID, tm.rows, tm.columns)
	return table, nil
}

func (tm *TableManager) GetTable(tableID string) (*Table, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	table, exists := tm.Tables[tableID]
	return table, exists
}

func (tm *TableManager) RemoveTable(tableID string) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.Tables[tableID]; !exists {
		return domain.ErrTableNotFound
	}
	delete(tm.Tables, tableID)
	log.Printf("[TABLE] Removed table %s", tableID)
	return nil
}

func (tm *TableManager) Count() int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return len(tm.Tables)
}

// TableSummary is the listing view of a live table
type TableSummary struct {
	TableID      string       `json:"tableId"`
	Phase        domain.Phase `json:"phase"`
	MoveCount    int          `json:"moveCount"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastActivity time.Time    `json:"lastActivity"`
}

// ListTables returns every live table, oldest first
func (tm *TableManager) ListTables() []TableSummary {
	tm.mu.RLock()
	tables := make([]*Table, 0, len(tm.Tables))
	for _, table := range tm.Tables {
		tables = append(tables, table)
	}
	tm.mu.RUnlock()

	summaries := make([]TableSummary, 0, len(tables))
	for _, table := range tables {
		table.mu.Lock()
		summaries = append(summaries, TableSummary{
			TableID:      table.TableID,
			Phase:        table.Game.Phase,
			MoveCount:    table.Game.MoveCount,
			CreatedAt:    table.CreatedAt,
			LastActivity: table.LastActivity,
		})
		table.mu.Unlock()
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

// Dispatch routes one client action to the table it targets.
func (tm *TableManager) Dispatch(tableID string, msg domain.ClientMessage) (domain.ServerMessage, error) {
	table, exists := tm.GetTable(tableID)
	if !exists {
		return domain.ServerMessage{}, domain.ErrTableNotFound
	}
	return table.Apply(msg)
}

// CleanupIdleTables drops tables nobody touched for longer than ttl and
// returns their IDs.
func (tm *TableManager) CleanupIdleTables(ttl time.Duration) []string {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	var removed []string
	now := time.Now()
	for tableID, table := range tm.Tables {
		table.mu.Lock()
		idle := now.Sub(table.LastActivity)
		table.mu.Unlock()

		if idle > ttl {
			delete(tm.Tables, tableID)
			removed = append(removed, tableID)
		}
	}

	if len(removed) > 0 {
		log.Printf("[TABLE] Memory cleanup: Removed %d idle tables", len(removed))
	}
	return removed
}

// Wait blocks until every archive started so far has finished.
func (tm *TableManager) Wait() {
	tm.pending.Wait()
}

// Apply performs one state transition and returns the resulting snapshot.
// The snapshot is returned even when the action is rejected so the caller
// can show the status line the game produced.
func (t *Table) Apply(msg domain.ClientMessage) (domain.ServerMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.LastActivity = now

	var err error
	switch msg.Type {
	case domain.ActionSelectColor:
		if msg.Color == nil {
			err = domain.ErrInvalidColor
			break
		}
		err = t.Game.SelectColor(domain.PlayerID(msg.Player), *msg.Color)

	case domain.ActionStart:
		err = t.Game.Start()
		if err == nil {
			t.GameID = uid.GenerateGameID()
			t.StartedAt = now
			log.Printf("[GAME] Game %s started on table %s", t.GameID, t.TableID)
		}

	case domain.ActionDrop:
		if msg.Column == nil {
			err = domain.ErrColumnOutOfRange
			break
		}
		_, err = t.Game.Drop(*msg.Column)
		if err == nil && t.Game.Phase.IsTerminal() {
			t.archiveLocked(now)
		}

	case domain.ActionReset:
		t.Game.Reset()

	case domain.ActionChangeColors:
		t.Game.ChangeColors()

	case domain.ActionState:

	default:
		err = domain.ErrUnknownAction
	}

	return domain.StateMessage(t.TableID, t.Game), err
}

func (t *Table) Snapshot() domain.ServerMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return domain.StateMessage(t.TableID, t.Game)
}

// archiveLocked saves the finished game in background to avoid blocking the
// move reply. Caller must hold t.mu.
func (t *Table) archiveLocked(finishedAt time.Time) {
	repo := t.manager.repo
	if repo == nil {
		return
	}

	g := t.Game
	record := domain.GameRecord{
		GameID:       t.GameID,
		TableID:      t.TableID,
		Rows:         g.Board.Rows(),
		Columns:      g.Board.Columns(),
		Outcome:      g.Phase,
		Winner:       int(g.Winner),
		WinningCells: append([]domain.Cell(nil), g.WinningCells...),
		Player1Color: g.Player1Color,
		Player2Color: g.Player2Color,
		TotalMoves:   g.MoveCount,
		Board:        g.Board.Ints(),
		StartedAt:    t.StartedAt,
		FinishedAt:   finishedAt,
	}

	t.manager.pending.Add(1)
	go func() {
		defer t.manager.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := repo.SaveGame(ctx, record); err != nil {
			log.Printf("[GAME] Error saving game %s: %v", record.GameID, err)
		} else {
			log.Printf("[GAME] Game %s saved successfully", record.GameID)
		}
	}()
}
