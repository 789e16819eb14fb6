package entity

import "sort"

// MaxCubesPerCity 单城所有颜色方块总数上限。
const MaxCubesPerCity = 3

// InfectionKey 感染记录的复合键，每局内 (city, color) 唯一。
type InfectionKey struct {
	City  CityID
	Color Color
}

type InfectionRecord struct {
	City     CityID
	Color    Color
	Quantity int
}

// Ledger 是一局游戏的感染账本：(city, color) -> [0,3]。
// 记录惰性创建，只在真正写入时出现；没有记录的键读作 0。
type Ledger struct {
	counts     map[InfectionKey]int
	cityColors map[CityID][]Color
	changed    map[InfectionKey]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{
		counts:     make(map[InfectionKey]int),
		cityColors: make(map[CityID][]Color),
		changed:    make(map[InfectionKey]struct{}),
	}
}

// HydrateLedger 用持久化记录恢复账本，恢复出的账本不是脏的。
func HydrateLedger(records []InfectionRecord) (*Ledger, error) {
	l := NewLedger()
	for _, r := range records {
		if err := l.SetCount(r.City, r.Color, r.Quantity); err != nil {
			return nil, err
		}
	}
	l.ClearDirty()
	return l, nil
}

func (l *Ledger) Count(city CityID, color Color) int {
	return l.counts[InfectionKey{City: city, Color: color}]
}

func (l *Ledger) Has(city CityID, color Color) bool {
	_, ok := l.counts[InfectionKey{City: city, Color: color}]
	return ok
}

// SumAllColors 城市上所有颜色的方块总数。
func (l *Ledger) SumAllColors(city CityID) int {
	total := 0
	for _, c := range l.cityColors[city] {
		total += l.counts[InfectionKey{City: city, Color: c}]
	}
	return total
}

// SumOtherColors 城市上除 excluding 以外颜色的方块总数。
func (l *Ledger) SumOtherColors(city CityID, excluding Color) int {
	total := 0
	for _, c := range l.cityColors[city] {
		if c == excluding {
			continue
		}
		total += l.counts[InfectionKey{City: city, Color: c}]
	}
	return total
}

// SetCount 写入方块数，n 必须在 [0,3]。值不变时不产生写入。
func (l *Ledger) SetCount(city CityID, color Color, n int) error {
	if n < 0 || n > MaxCubesPerCity {
		return ErrCubeCountOutOfRange.
			WithData("city", string(city)).
			WithData("color", string(color)).
			WithData("quantity", n)
	}
	key := InfectionKey{City: city, Color: color}
	old, exists := l.counts[key]
	if exists && old == n {
		return nil
	}
	if !exists {
		l.cityColors[city] = append(l.cityColors[city], color)
	}
	l.counts[key] = n
	l.changed[key] = struct{}{}
	return nil
}

// TotalByColor 全图某颜色的方块总数。
func (l *Ledger) TotalByColor(color Color) int {
	total := 0
	for k, n := range l.counts {
		if k.Color == color {
			total += n
		}
	}
	return total
}

func (l *Ledger) Len() int {
	return len(l.counts)
}

// Records 按 city/color 排序返回所有记录的拷贝。
func (l *Ledger) Records() []InfectionRecord {
	out := make([]InfectionRecord, 0, len(l.counts))
	for k, n := range l.counts {
		out = append(out, InfectionRecord{City: k.City, Color: k.Color, Quantity: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return lessKey(InfectionKey{out[i].City, out[i].Color}, InfectionKey{out[j].City, out[j].Color})
	})
	return out
}

// Changed 返回上次 ClearDirty 之后写过的键（排序）。
func (l *Ledger) Changed() []InfectionKey {
	out := make([]InfectionKey, 0, len(l.changed))
	for k := range l.changed {
		out = append(out, k)
	}
	sortKeys(out)
	return out
}

func (l *Ledger) Dirty() bool {
	return l != nil && len(l.changed) > 0
}

func (l *Ledger) ClearDirty() {
	if l == nil {
		return
	}
	clear(l.changed)
}

func sortKeys(keys []InfectionKey) {
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })
}

func lessKey(a, b InfectionKey) bool {
	if a.City != b.City {
		return a.City < b.City
	}
	return a.Color < b.Color
}
