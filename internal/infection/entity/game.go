package entity

type GameID int64

// Game 一局游戏的可变状态：感染账本 + 爆发计数。
// 只允许在所属 GameActor 的协程里修改。
type Game struct {
	id             GameID
	ledger         *Ledger
	outbreaksNr    int
	outbreaksDirty bool
}

func NewGame(id GameID) *Game {
	return &Game{
		id:     id,
		ledger: NewLedger(),
	}
}

// HydrateGame 从持久化数据恢复对局。
func HydrateGame(id GameID, outbreaksNr int, records []InfectionRecord) (*Game, error) {
	if id <= 0 {
		return nil, ErrInvalidGameID.WithData("game_id", int64(id))
	}
	ledger, err := HydrateLedger(records)
	if err != nil {
		return nil, err
	}
	return &Game{
		id:          id,
		ledger:      ledger,
		outbreaksNr: max(0, outbreaksNr),
	}, nil
}

func (g *Game) ID() GameID {
	return g.id
}

func (g *Game) Ledger() *Ledger {
	return g.ledger
}

func (g *Game) OutbreaksNr() int {
	return g.outbreaksNr
}

func (g *Game) IncrementOutbreaks() {
	g.outbreaksNr++
	g.outbreaksDirty = true
}

func (g *Game) Dirty() bool {
	if g == nil {
		return false
	}
	return g.outbreaksDirty || g.ledger.Dirty()
}

func (g *Game) ClearDirty() {
	if g == nil {
		return
	}
	g.outbreaksDirty = false
	g.ledger.ClearDirty()
}

func (g *Game) BuildPersistSnapshot(version uint64) (*GamePersistSnapshot, bool) {
	if !g.Dirty() {
		return nil, false
	}
	return &GamePersistSnapshot{
		Version:     version,
		GameID:      g.id,
		OutbreaksNr: g.outbreaksNr,
		Records:     g.ledger.Records(),
		Changed:     g.ledger.Changed(),
	}, true
}
