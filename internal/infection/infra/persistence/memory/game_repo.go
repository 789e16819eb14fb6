package memory

import (
	"context"
	"sync"

	"Pandemic/internal/infection/entity"
)

type storedGame struct {
	outbreaksNr int
	records     map[entity.InfectionKey]int
}

// GameRepository 进程内仓储，重启即丢，单测和本地调试用。
type GameRepository struct {
	mu    sync.RWMutex
	games map[entity.GameID]*storedGame
	saves int
}

func NewGameRepository() *GameRepository {
	return &GameRepository{games: make(map[entity.GameID]*storedGame)}
}

func (r *GameRepository) LoadGame(ctx context.Context, id entity.GameID) (*entity.Game, error) {
	_ = ctx
	if id <= 0 {
		return nil, entity.ErrInvalidGameID.WithData("game_id", int64(id))
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[id]
	if !ok {
		return entity.NewGame(id), nil
	}
	records := make([]entity.InfectionRecord, 0, len(g.records))
	for k, n := range g.records {
		records = append(records, entity.InfectionRecord{City: k.City, Color: k.Color, Quantity: n})
	}
	return entity.HydrateGame(id, g.outbreaksNr, records)
}

func (r *GameRepository) Snapshot(ctx context.Context, s *entity.GamePersistSnapshot) error {
	_ = ctx
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[s.GameID]
	if !ok {
		g = &storedGame{records: make(map[entity.InfectionKey]int)}
		r.games[s.GameID] = g
	}
	g.outbreaksNr = s.OutbreaksNr
	for _, rec := range s.ChangedRecords() {
		g.records[entity.InfectionKey{City: rec.City, Color: rec.Color}] = rec.Quantity
	}
	r.saves++
	return nil
}

// Saves 成功落库的次数。
func (r *GameRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// Stored 返回已落库的 (爆发数, 某键数量)。
func (r *GameRepository) Stored(id entity.GameID, key entity.InfectionKey) (outbreaksNr int, quantity int, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, found := r.games[id]
	if !found {
		return 0, 0, false
	}
	return g.outbreaksNr, g.records[key], true
}
