package port

import "time"

// JournalPlacement 一次落子的日志行。
type JournalPlacement struct {
	City        string `json:"city"`
	Color       string `json:"color"`
	Requested   int    `json:"requested"`
	BeforeTotal int    `json:"before_total"`
	Stored      int    `json:"stored"`
	Outbreak    bool   `json:"outbreak"`
}

// JournalEntry 一次 PlaceInfection 的完整记录，按 JSON 一行写出。
type JournalEntry struct {
	At          time.Time          `json:"at"`
	TraceID     string             `json:"trace_id,omitempty"`
	GameID      int64              `json:"game_id"`
	City        string             `json:"city"`
	Color       string             `json:"color"`
	Quantity    int                `json:"quantity"`
	Sources     []string           `json:"sources,omitempty"`
	OutbreaksNr int                `json:"outbreaks_nr"`
	Placements  []JournalPlacement `json:"placements"`
}

type CascadeJournal interface {
	Append(entry JournalEntry) error
}

// NopJournal 不落盘。
type NopJournal struct{}

func (NopJournal) Append(JournalEntry) error { return nil }
