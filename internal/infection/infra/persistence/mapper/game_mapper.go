package mapper

import (
	"time"

	"Pandemic/internal/infection/entity"
	"Pandemic/internal/infection/infra/persistence/model"
)

func InfectionModelsToRecords(rows []model.Infection) []entity.InfectionRecord {
	out := make([]entity.InfectionRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.InfectionRecord{
			City:     entity.CityID(r.CityStaticID),
			Color:    entity.Color(r.Color),
			Quantity: r.Quantity,
		})
	}
	return out
}

func RecordsToInfectionModels(gameID entity.GameID, records []entity.InfectionRecord, now time.Time) []model.Infection {
	out := make([]model.Infection, 0, len(records))
	for _, r := range records {
		out = append(out, model.Infection{
			GameID:       int64(gameID),
			CityStaticID: string(r.City),
			Color:        string(r.Color),
			Quantity:     r.Quantity,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return out
}

// SnapshotToDoc mongodb 整文档覆盖，用全量 Records。
func SnapshotToDoc(s *entity.GamePersistSnapshot, now time.Time) *model.GameDoc {
	doc := &model.GameDoc{
		ID:          int64(s.GameID),
		OutbreaksNr: s.OutbreaksNr,
		Infections:  make([]model.InfectionDoc, 0, len(s.Records)),
		Version:     s.Version,
		UpdatedAt:   now,
	}
	for _, r := range s.Records {
		doc.Infections = append(doc.Infections, model.InfectionDoc{
			City:     string(r.City),
			Color:    string(r.Color),
			Quantity: r.Quantity,
		})
	}
	return doc
}

func DocToGame(doc *model.GameDoc) (*entity.Game, error) {
	records := make([]entity.InfectionRecord, 0, len(doc.Infections))
	for _, d := range doc.Infections {
		records = append(records, entity.InfectionRecord{
			City:     entity.CityID(d.City),
			Color:    entity.Color(d.Color),
			Quantity: d.Quantity,
		})
	}
	return entity.HydrateGame(entity.GameID(doc.ID), doc.OutbreaksNr, records)
}
