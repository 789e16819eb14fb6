package entity

// GamePersistSnapshot 是交给写库协程的只读快照，和实体不共享内存。
// Records 是全量账本；Changed 是自上次落库以来写过的键，仓储按它做增量 upsert。
type GamePersistSnapshot struct {
	Version     uint64
	GameID      GameID
	OutbreaksNr int
	Records     []InfectionRecord
	Changed     []InfectionKey
}

// MergeChanged 把旧快照的脏键并进来；新快照覆盖旧快照时不能丢掉旧的增量。
func (s *GamePersistSnapshot) MergeChanged(older *GamePersistSnapshot) {
	if s == nil || older == nil || len(older.Changed) == 0 {
		return
	}
	seen := make(map[InfectionKey]struct{}, len(s.Changed)+len(older.Changed))
	for _, k := range s.Changed {
		seen[k] = struct{}{}
	}
	for _, k := range older.Changed {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		s.Changed = append(s.Changed, k)
	}
	sortKeys(s.Changed)
}

// ChangedRecords 返回 Changed 对应的记录。
func (s *GamePersistSnapshot) ChangedRecords() []InfectionRecord {
	if s == nil || len(s.Changed) == 0 {
		return nil
	}
	want := make(map[InfectionKey]struct{}, len(s.Changed))
	for _, k := range s.Changed {
		want[k] = struct{}{}
	}
	out := make([]InfectionRecord, 0, len(s.Changed))
	for _, r := range s.Records {
		if _, ok := want[InfectionKey{City: r.City, Color: r.Color}]; ok {
			out = append(out, r)
		}
	}
	return out
}
