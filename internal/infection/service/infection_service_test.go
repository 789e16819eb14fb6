package service

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"Pandemic/internal/infection/entity"
	"Pandemic/internal/shared/gameconfig/worldmap"
)

const (
	sanFrancisco = CityID("san_francisco")
	chicago      = CityID("chicago")
	losAngeles   = CityID("los_angeles")
	mexicoCity   = CityID("mexico_city")
	manila       = CityID("manila")
	atlanta      = CityID("atlanta")
	montreal     = CityID("montreal")
	tokyo        = CityID("tokyo")
	sydney       = CityID("sydney")
	hongKong     = CityID("hong_kong")
	hoChiMinh    = CityID("ho_chi_minh_city")
	taipei       = CityID("taipei")
)

func standardService(t *testing.T, policy SpreadPolicy) *InfectionService {
	t.Helper()
	g, err := BuildWorldGraph(worldmap.Standard())
	if err != nil {
		t.Fatalf("BuildWorldGraph err=%v", err)
	}
	return NewInfectionService(g, policy)
}

func seed(t *testing.T, g *entity.Game, city CityID, color Color, n int) {
	t.Helper()
	if err := g.Ledger().SetCount(city, color, n); err != nil {
		t.Fatalf("seed %s/%s err=%v", city, color, err)
	}
}

func assertCount(t *testing.T, g *entity.Game, city CityID, color Color, want int) {
	t.Helper()
	if got := g.Ledger().Count(city, color); got != want {
		t.Fatalf("期望 %s/%s = %d, got=%d", city, color, want, got)
	}
}

func assertCapacity(t *testing.T, s *InfectionService, g *entity.Game) {
	t.Helper()
	for _, id := range s.Graph().Cities() {
		if total := g.Ledger().SumAllColors(id); total > entity.MaxCubesPerCity {
			t.Fatalf("%s 总数 %d 超过上限", id, total)
		}
	}
}

func TestPlaceInfection_空城放3个不爆发(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)

	c, err := s.PlaceInfection(g, PlaceRequest{City: atlanta, Color: entity.Blue, Quantity: 3})
	if err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	assertCount(t, g, atlanta, entity.Blue, 3)
	if g.OutbreaksNr() != 0 || c.OutbreaksAdded() != 0 {
		t.Fatalf("期望不爆发, outbreaks=%d", g.OutbreaksNr())
	}
	if len(c.Placements) != 1 || c.Placements[0].BeforeTotal != 0 || c.Placements[0].Stored != 3 {
		t.Fatalf("unexpected placements: %+v", c.Placements)
	}
}

func TestPlaceInfection_同色爆发扩散到所有邻居(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)
	seed(t, g, sanFrancisco, entity.Blue, 2)

	c, err := s.PlaceInfection(g, PlaceRequest{City: sanFrancisco, Color: entity.Blue, Quantity: 3})
	if err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	if g.OutbreaksNr() != 1 {
		t.Fatalf("期望爆发 1 次, got=%d", g.OutbreaksNr())
	}
	assertCount(t, g, sanFrancisco, entity.Blue, 3)
	for _, n := range []CityID{tokyo, manila, losAngeles, chicago} {
		assertCount(t, g, n, entity.Blue, 1)
	}
	if len(c.Sources) != 1 || c.Sources[0] != sanFrancisco {
		t.Fatalf("期望爆发源 [san_francisco], got=%v", c.Sources)
	}
	// 邻居按地图声明顺序处理
	want := []CityID{sanFrancisco, tokyo, manila, losAngeles, chicago}
	for i, p := range c.Placements {
		if p.City != want[i] {
			t.Fatalf("第 %d 次落子期望 %s, got=%s", i, want[i], p.City)
		}
	}
}

func TestPlaceInfection_连锁爆发不回头(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)
	seed(t, g, sanFrancisco, entity.Blue, 2)
	seed(t, g, chicago, entity.Blue, 3)

	c, err := s.PlaceInfection(g, PlaceRequest{City: sanFrancisco, Color: entity.Blue, Quantity: 3})
	if err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	if g.OutbreaksNr() != 2 {
		t.Fatalf("期望爆发 2 次, got=%d", g.OutbreaksNr())
	}
	assertCount(t, g, sanFrancisco, entity.Blue, 3)
	assertCount(t, g, chicago, entity.Blue, 3)
	assertCount(t, g, losAngeles, entity.Blue, 2)
	for _, n := range []CityID{mexicoCity, atlanta, montreal, tokyo, manila} {
		assertCount(t, g, n, entity.Blue, 1)
	}
	if len(c.Sources) != 2 || c.Sources[1] != chicago {
		t.Fatalf("期望爆发源 [san_francisco chicago], got=%v", c.Sources)
	}
	for _, p := range c.Placements {
		if p.City == sanFrancisco && p.Requested == 1 {
			t.Fatalf("已爆发的城市不应该再被扩散")
		}
	}
	assertCapacity(t, s, g)
}

func TestPlaceInfection_多色城市封顶但仍爆发(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)
	seed(t, g, sanFrancisco, entity.Blue, 2)
	seed(t, g, manila, entity.Red, 2)
	seed(t, g, manila, entity.Blue, 1)

	if _, err := s.PlaceInfection(g, PlaceRequest{City: sanFrancisco, Color: entity.Blue, Quantity: 3}); err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	if g.OutbreaksNr() != 2 {
		t.Fatalf("期望爆发 2 次, got=%d", g.OutbreaksNr())
	}
	if total := g.Ledger().SumAllColors(manila); total != 3 {
		t.Fatalf("期望 manila 总数 3, got=%d", total)
	}
	assertCount(t, g, manila, entity.Blue, 1)
	assertCount(t, g, manila, entity.Red, 2)
	for _, n := range []CityID{hongKong, hoChiMinh, taipei, sydney} {
		assertCount(t, g, n, entity.Blue, 1)
		assertCount(t, g, n, entity.Red, 0)
	}
}

func TestPlaceInfection_本色扩散策略(t *testing.T) {
	s := standardService(t, SpreadNativeColor)
	g := entity.NewGame(1)
	seed(t, g, sanFrancisco, entity.Blue, 2)
	seed(t, g, manila, entity.Red, 2)
	seed(t, g, manila, entity.Blue, 1)

	if _, err := s.PlaceInfection(g, PlaceRequest{City: sanFrancisco, Color: entity.Blue, Quantity: 3}); err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	if g.OutbreaksNr() != 2 {
		t.Fatalf("期望爆发 2 次, got=%d", g.OutbreaksNr())
	}
	for _, n := range []CityID{hongKong, hoChiMinh, taipei, sydney} {
		assertCount(t, g, n, entity.Red, 1)
		assertCount(t, g, n, entity.Blue, 0)
	}
}

func TestPlaceInfection_三角连锁(t *testing.T) {
	cases := []struct {
		name   string
		policy SpreadPolicy
		check  func(t *testing.T, g *entity.Game)
	}{
		{
			name:   "source",
			policy: SpreadSourceColor,
			check: func(t *testing.T, g *entity.Game) {
				assertCount(t, g, mexicoCity, entity.Blue, 2)
				assertCount(t, g, sydney, entity.Blue, 1)
			},
		},
		{
			name:   "native",
			policy: SpreadNativeColor,
			check: func(t *testing.T, g *entity.Game) {
				assertCount(t, g, mexicoCity, entity.Blue, 1)
				assertCount(t, g, mexicoCity, entity.Yellow, 1)
				assertCount(t, g, sydney, entity.Yellow, 1)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := standardService(t, tc.policy)
			g := entity.NewGame(1)
			seed(t, g, sanFrancisco, entity.Blue, 2)
			seed(t, g, chicago, entity.Blue, 3)
			seed(t, g, losAngeles, entity.Yellow, 3)

			c, err := s.PlaceInfection(g, PlaceRequest{City: sanFrancisco, Color: entity.Blue, Quantity: 3})
			if err != nil {
				t.Fatalf("PlaceInfection err=%v", err)
			}
			if g.OutbreaksNr() != 3 {
				t.Fatalf("期望爆发 3 次, got=%d", g.OutbreaksNr())
			}
			want := []CityID{sanFrancisco, losAngeles, chicago}
			for i, src := range c.Sources {
				if src != want[i] {
					t.Fatalf("期望爆发顺序 %v, got=%v", want, c.Sources)
				}
			}
			assertCount(t, g, losAngeles, entity.Yellow, 3)
			assertCount(t, g, losAngeles, entity.Blue, 0)
			for _, n := range []CityID{montreal, atlanta, manila, tokyo} {
				assertCount(t, g, n, entity.Blue, 1)
			}
			tc.check(t, g)
			assertCapacity(t, s, g)
		})
	}
}

func TestPlaceInfection_两色已满再放仍爆发(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)
	seed(t, g, atlanta, entity.Blue, 2)
	seed(t, g, atlanta, entity.Yellow, 1)

	c, err := s.PlaceInfection(g, PlaceRequest{City: atlanta, Color: entity.Yellow, Quantity: 2})
	if err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	assertCount(t, g, atlanta, entity.Yellow, 1)
	assertCount(t, g, atlanta, entity.Blue, 2)
	if g.OutbreaksNr() != 1 || !c.Placements[0].Outbreak {
		t.Fatalf("期望 before(3)+2 触发爆发, outbreaks=%d", g.OutbreaksNr())
	}
	if c.Placements[0].BeforeTotal != 3 || c.Placements[0].Stored != 1 {
		t.Fatalf("unexpected placement: %+v", c.Placements[0])
	}
}

func TestPlaceInfection_恰好到3不爆发(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)
	seed(t, g, atlanta, entity.Blue, 1)

	if _, err := s.PlaceInfection(g, PlaceRequest{City: atlanta, Color: entity.Blue, Quantity: 2}); err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	assertCount(t, g, atlanta, entity.Blue, 3)
	if g.OutbreaksNr() != 0 {
		t.Fatalf("before+quantity == 3 不应该爆发")
	}
}

func TestPlaceInfection_颜色为空取本色(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)

	c, err := s.PlaceInfection(g, PlaceRequest{City: tokyo, Quantity: 1})
	if err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	if c.Color != entity.Red {
		t.Fatalf("期望取 tokyo 本色 red, got=%s", c.Color)
	}
	assertCount(t, g, tokyo, entity.Red, 1)
}

func TestPlaceInfection_参数错误不修改状态(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	cases := []struct {
		name string
		req  PlaceRequest
		want error
	}{
		{"未知城市", PlaceRequest{City: "atlantis", Color: entity.Blue, Quantity: 1}, entity.ErrCityNotFound},
		{"数量为0", PlaceRequest{City: atlanta, Color: entity.Blue, Quantity: 0}, entity.ErrInvalidQuantity},
		{"数量为负", PlaceRequest{City: atlanta, Color: entity.Blue, Quantity: -2}, entity.ErrInvalidQuantity},
		{"未知颜色", PlaceRequest{City: atlanta, Color: "green", Quantity: 1}, entity.ErrInvalidColor},
	}
	for _, tc := range cases {
		g := entity.NewGame(1)
		seed(t, g, atlanta, entity.Blue, 2)
		g.ClearDirty()

		_, err := s.PlaceInfection(g, tc.req)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: 期望 %v, got=%v", tc.name, tc.want, err)
		}
		if g.Dirty() || g.OutbreaksNr() != 0 || g.Ledger().Len() != 1 {
			t.Fatalf("%s: 参数错误不应该修改状态", tc.name)
		}
	}
}

func TestPlaceInfection_多次调用独立计算已爆发集合(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)
	seed(t, g, sanFrancisco, entity.Blue, 3)

	for i := 1; i <= 2; i++ {
		if _, err := s.PlaceInfection(g, PlaceRequest{City: sanFrancisco, Color: entity.Blue, Quantity: 1}); err != nil {
			t.Fatalf("PlaceInfection err=%v", err)
		}
		if g.OutbreaksNr() < i {
			t.Fatalf("第 %d 次调用应该重新爆发, outbreaks=%d", i, g.OutbreaksNr())
		}
	}
	assertCapacity(t, s, g)
}

func TestParseSpreadPolicy(t *testing.T) {
	for raw, want := range map[string]SpreadPolicy{"": SpreadSourceColor, "source": SpreadSourceColor, " Native ": SpreadNativeColor} {
		got, err := ParseSpreadPolicy(raw)
		if err != nil || got != want {
			t.Fatalf("raw=%q 期望 %v, got=%v err=%v", raw, want, got, err)
		}
	}
	if _, err := ParseSpreadPolicy("rainbow"); err == nil {
		t.Fatalf("期望非法策略报错")
	}
}

func TestLoadWorldGraph_内置地图对称(t *testing.T) {
	g, err := LoadWorldGraph("")
	if err != nil {
		t.Fatalf("LoadWorldGraph err=%v", err)
	}
	if g.Len() != 48 {
		t.Fatalf("期望 48 座城市, got=%d", g.Len())
	}
	if edges := g.Asymmetric(); len(edges) != 0 {
		t.Fatalf("内置地图应该是对称的: %v", edges)
	}
}

func TestPlaceInfection_超大数量不溢出(t *testing.T) {
	s := standardService(t, SpreadSourceColor)
	g := entity.NewGame(1)
	seed(t, g, atlanta, entity.Blue, 1)

	c, err := s.PlaceInfection(g, PlaceRequest{City: atlanta, Color: entity.Blue, Quantity: math.MaxInt})
	if err != nil {
		t.Fatalf("PlaceInfection err=%v", err)
	}
	assertCount(t, g, atlanta, entity.Blue, 3)
	if g.OutbreaksNr() != 1 || c.OutbreaksAdded() != 1 {
		t.Fatalf("期望爆发 1 次, outbreaks=%d", g.OutbreaksNr())
	}
	if c.Placements[0].Requested != math.MaxInt || !c.Placements[0].Outbreak {
		t.Fatalf("unexpected origin placement: %+v", c.Placements[0])
	}
	assertCapacity(t, s, g)
}

func TestPlaceInfection_随机序列不超上限且爆发数单调(t *testing.T) {
	for _, policy := range []SpreadPolicy{SpreadSourceColor, SpreadNativeColor} {
		s := standardService(t, policy)
		g := entity.NewGame(1)
		cities := s.Graph().Cities()
		colors := s.Graph().Colors()
		r := rand.New(rand.NewPCG(20261019, uint64(policy)))

		for i := 0; i < 2000; i++ {
			req := PlaceRequest{
				City:     cities[r.IntN(len(cities))],
				Color:    colors[r.IntN(len(colors))],
				Quantity: 1 + r.IntN(4),
			}
			before := g.OutbreaksNr()
			c, err := s.PlaceInfection(g, req)
			if err != nil {
				t.Fatalf("[%s] 第 %d 次 %+v err=%v", policy, i, req, err)
			}
			if g.OutbreaksNr() < before {
				t.Fatalf("[%s] 第 %d 次爆发数减少: %d -> %d", policy, i, before, g.OutbreaksNr())
			}
			if g.OutbreaksNr()-before != len(c.Sources) {
				t.Fatalf("[%s] 第 %d 次爆发增量 %d 与源头数 %d 不一致", policy, i, g.OutbreaksNr()-before, len(c.Sources))
			}
			assertCapacity(t, s, g)
		}
	}
}
