package messages

// GameMessage 发给某一局 GameActor 的请求，ManagerActor 按 GameID 路由。
type GameMessage interface {
	GameID() int64
	TraceID() string
}

type GameBaseMessage struct {
	GameId  int64
	TraceId string
}

func (m GameBaseMessage) GameID() int64 {
	return m.GameId
}

func (m GameBaseMessage) TraceID() string {
	return m.TraceId
}

// HGPlaceInfection handler -> game：放置感染方块。Color 为空取城市本色。
type HGPlaceInfection struct {
	GameBaseMessage
	City     string
	Color    string
	Quantity int
}

type GHPlaceInfection struct {
	GameId         int64           `json:"game_id"`
	City           string          `json:"city"`
	Color          string          `json:"color"`
	Quantity       int             `json:"quantity"`
	OutbreaksNr    int             `json:"outbreaks_nr"`
	OutbreaksAdded int             `json:"outbreaks_added"`
	Sources        []string        `json:"sources"`
	Placements     []PlacementView `json:"placements"`
}

// HGGameState handler -> game：查询整局感染状态。
type HGGameState struct {
	GameBaseMessage
}

type GHGameState struct {
	GameId      int64           `json:"game_id"`
	OutbreaksNr int             `json:"outbreaks_nr"`
	Infections  []InfectionView `json:"infections"`
}

// GameReply GameActor 的统一回包，Err 非空时 Body 为空。
type GameReply struct {
	Body any
	Err  error
}
