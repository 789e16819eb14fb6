package model

import "time"

// GameDoc mongodb 里一局一个文档，感染记录内嵌。
type GameDoc struct {
	ID          int64          `bson:"_id"`
	OutbreaksNr int            `bson:"outbreaks_nr"`
	Infections  []InfectionDoc `bson:"infections"`
	Version     uint64         `bson:"version"`
	UpdatedAt   time.Time      `bson:"updated_at"`
}

type InfectionDoc struct {
	City     string `bson:"city"`
	Color    string `bson:"color"`
	Quantity int    `bson:"quantity"`
}
