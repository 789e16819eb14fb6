package entity

import (
	"errors"
	"testing"

	"Pandemic/modules/kit/errx"
)

func triangle(t *testing.T) *WorldGraph {
	t.Helper()
	g, err := NewWorldGraph("tri", []Color{Blue, Yellow}, []City{
		{ID: "a", Color: Blue, Neighbors: []CityID{"b", "c"}},
		{ID: "b", Color: Blue, Neighbors: []CityID{"a", "c"}},
		{ID: "c", Color: Yellow, Neighbors: []CityID{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("NewWorldGraph err=%v", err)
	}
	return g
}

func TestNewWorldGraph_查询邻居与本色(t *testing.T) {
	g := triangle(t)
	ns, ok := g.NeighborsOf("a")
	if !ok || len(ns) != 2 || ns[0] != "b" || ns[1] != "c" {
		t.Fatalf("期望邻居按声明顺序 [b c], got=%v ok=%v", ns, ok)
	}
	if c, _ := g.NativeColorOf("c"); c != Yellow {
		t.Fatalf("期望 c 本色 yellow, got=%s", c)
	}
	if _, ok := g.NeighborsOf("zz"); ok {
		t.Fatalf("未知城市不应该查到")
	}
	if len(g.Asymmetric()) != 0 {
		t.Fatalf("三角形应该是对称的: %v", g.Asymmetric())
	}
}

func TestNewWorldGraph_非法地图(t *testing.T) {
	cases := map[string][]City{
		"重复城市": {
			{ID: "a", Color: Blue},
			{ID: "a", Color: Blue},
		},
		"未知颜色": {
			{ID: "a", Color: "green"},
		},
		"未知邻居": {
			{ID: "a", Color: Blue, Neighbors: []CityID{"nowhere"}},
		},
		"邻居指向自己": {
			{ID: "a", Color: Blue, Neighbors: []CityID{"a"}},
		},
		"重复邻居": {
			{ID: "a", Color: Blue, Neighbors: []CityID{"b", "b"}},
			{ID: "b", Color: Blue, Neighbors: []CityID{"a"}},
		},
	}
	for name, cities := range cases {
		_, err := NewWorldGraph("bad", []Color{Blue}, cities)
		if !errors.Is(err, ErrInvalidWorldMap) {
			t.Fatalf("%s: 期望 ErrInvalidWorldMap, got=%v", name, err)
		}
	}
}

func TestNewWorldGraph_单向邻接只记录不报错(t *testing.T) {
	g, err := NewWorldGraph("oneway", nil, []City{
		{ID: "a", Color: Blue, Neighbors: []CityID{"b"}},
		{ID: "b", Color: Red},
	})
	if err != nil {
		t.Fatalf("期望单向邻接可以构建, err=%v", err)
	}
	edges := g.Asymmetric()
	if len(edges) != 1 || edges[0] != (Edge{From: "a", To: "b"}) {
		t.Fatalf("期望记录 a->b, got=%v", edges)
	}
	if !g.HasColor(Red) || !g.HasColor(Blue) {
		t.Fatalf("colors 为空时应从城市推导: %v", g.Colors())
	}
}

func TestLedger_SetCount_越界拒绝(t *testing.T) {
	l := NewLedger()
	for _, n := range []int{-1, 4} {
		err := l.SetCount("a", Blue, n)
		if errx.CodeOf(err) != CodeCubeCountOutOfRange {
			t.Fatalf("n=%d 期望越界错误, got=%v", n, err)
		}
	}
	if l.Len() != 0 || l.Dirty() {
		t.Fatalf("越界写入不应该落账")
	}
}

func TestLedger_SetCount_同值不产生写入(t *testing.T) {
	l := NewLedger()
	if err := l.SetCount("a", Blue, 2); err != nil {
		t.Fatalf("SetCount err=%v", err)
	}
	l.ClearDirty()
	if err := l.SetCount("a", Blue, 2); err != nil {
		t.Fatalf("SetCount err=%v", err)
	}
	if l.Dirty() {
		t.Fatalf("同值写入不应该变脏")
	}
	if l.Count("a", Blue) != 2 {
		t.Fatalf("期望 2, got=%d", l.Count("a", Blue))
	}
}

func TestLedger_按城市求和(t *testing.T) {
	l := NewLedger()
	_ = l.SetCount("a", Blue, 1)
	_ = l.SetCount("a", Red, 2)
	_ = l.SetCount("b", Red, 3)
	if got := l.SumAllColors("a"); got != 3 {
		t.Fatalf("期望 a 总数 3, got=%d", got)
	}
	if got := l.SumOtherColors("a", Blue); got != 2 {
		t.Fatalf("期望 a 除蓝外 2, got=%d", got)
	}
	if got := l.SumAllColors("zz"); got != 0 {
		t.Fatalf("无记录城市应为 0, got=%d", got)
	}
	if got := l.TotalByColor(Red); got != 5 {
		t.Fatalf("期望红色总数 5, got=%d", got)
	}
	recs := l.Records()
	if len(recs) != 3 || recs[0].City != "a" || recs[0].Color != Blue || recs[2].City != "b" {
		t.Fatalf("Records 应该按 city/color 排序: %+v", recs)
	}
}

func TestGame_快照只在脏时生成(t *testing.T) {
	g := NewGame(7)
	if _, ok := g.BuildPersistSnapshot(1); ok {
		t.Fatalf("新对局不应该产生快照")
	}
	_ = g.Ledger().SetCount("a", Blue, 1)
	g.IncrementOutbreaks()
	s, ok := g.BuildPersistSnapshot(2)
	if !ok || s.Version != 2 || s.GameID != 7 || s.OutbreaksNr != 1 || len(s.Changed) != 1 {
		t.Fatalf("unexpected snapshot: %+v ok=%v", s, ok)
	}
	g.ClearDirty()
	if g.Dirty() {
		t.Fatalf("ClearDirty 后不应该是脏的")
	}

	_ = g.Ledger().SetCount("a", Blue, 3)
	s.Records[0].Quantity = 0
	if g.Ledger().Count("a", Blue) != 3 {
		t.Fatalf("快照和实体不应该共享内存")
	}
}

func TestSnapshot_MergeChanged_新快照保留旧增量(t *testing.T) {
	older := &GamePersistSnapshot{Version: 1, Changed: []InfectionKey{{City: "a", Color: Blue}}}
	newer := &GamePersistSnapshot{
		Version: 2,
		Records: []InfectionRecord{{City: "a", Color: Blue, Quantity: 1}, {City: "b", Color: Red, Quantity: 2}},
		Changed: []InfectionKey{{City: "b", Color: Red}},
	}
	newer.MergeChanged(older)
	if len(newer.Changed) != 2 || newer.Changed[0].City != "a" {
		t.Fatalf("期望合并出 a/b 两个键, got=%v", newer.Changed)
	}
	if got := newer.ChangedRecords(); len(got) != 2 {
		t.Fatalf("期望两条增量记录, got=%v", got)
	}
}

func TestHydrateGame_非法数据(t *testing.T) {
	if _, err := HydrateGame(0, 0, nil); !errors.Is(err, ErrInvalidGameID) {
		t.Fatalf("期望 ErrInvalidGameID, got=%v", err)
	}
	_, err := HydrateGame(1, 0, []InfectionRecord{{City: "a", Color: Blue, Quantity: 5}})
	if !errors.Is(err, ErrCubeCountOutOfRange) {
		t.Fatalf("期望越界, got=%v", err)
	}
	g, err := HydrateGame(1, 2, []InfectionRecord{{City: "a", Color: Blue, Quantity: 3}})
	if err != nil || g.Dirty() || g.OutbreaksNr() != 2 {
		t.Fatalf("恢复出的对局不应该是脏的: err=%v", err)
	}
}
