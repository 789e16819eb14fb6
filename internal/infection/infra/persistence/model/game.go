package model

import "time"

// Game 对局主表，一局一行。
type Game struct {
	ID          int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false;comment:对局id(snowflake)" json:"id"`
	OutbreaksNr int       `gorm:"column:outbreaks_nr;type:int UNSIGNED;not null;default:0;comment:累计爆发次数" json:"outbreaks_nr"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (g *Game) TableName() string {
	return "games"
}

// Infection 感染记录，(game_id, city_staticid, color) 唯一。
type Infection struct {
	ID           uint64    `gorm:"column:id;type:bigint UNSIGNED;primaryKey;autoIncrement" json:"id"`
	GameID       int64     `gorm:"column:game_id;type:bigint;not null;uniqueIndex:uk_game_city_color,priority:1" json:"game_id"`
	CityStaticID string    `gorm:"column:city_staticid;type:varchar(64);not null;uniqueIndex:uk_game_city_color,priority:2;comment:城市静态id" json:"city_staticid"`
	Color        string    `gorm:"column:color;type:varchar(16);not null;uniqueIndex:uk_game_city_color,priority:3" json:"color"`
	Quantity     int       `gorm:"column:quantity;type:tinyint UNSIGNED;not null;default:0;comment:方块数 0..3" json:"quantity"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (i *Infection) TableName() string {
	return "infections"
}
