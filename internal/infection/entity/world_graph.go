package entity

import "sort"

type CityID string

type Color string

const (
	Blue   Color = "blue"
	Yellow Color = "yellow"
	Black  Color = "black"
	Red    Color = "red"
)

// City 是地图上的静态城市。
type City struct {
	ID        CityID
	Name      string
	Color     Color
	Neighbors []CityID
}

// Edge 是一条有向邻接 From -> To。
type Edge struct {
	From CityID
	To   CityID
}

// WorldGraph 是只读的世界地图，所有对局共享，构建后不再修改。
type WorldGraph struct {
	title      string
	colors     []Color
	colorSet   map[Color]struct{}
	cities     map[CityID]*City
	order      []CityID
	asymmetric []Edge
}

// NewWorldGraph 校验并构建地图：
// - id 不能为空、不能重复
// - 城市颜色必须在 colors 里（colors 为空时取城市颜色的并集）
// - 邻居必须存在，不能指向自己，不能重复
// 不对称的邻接不算错误，只记录下来（引擎只从触发城市往外走，不依赖对称）。
func NewWorldGraph(title string, colors []Color, cities []City) (*WorldGraph, error) {
	if len(cities) == 0 {
		return nil, ErrInvalidWorldMap.WithData("reason", "no cities")
	}
	g := &WorldGraph{
		title:    title,
		colorSet: make(map[Color]struct{}),
		cities:   make(map[CityID]*City, len(cities)),
		order:    make([]CityID, 0, len(cities)),
	}
	for _, c := range colors {
		if c == "" {
			return nil, ErrInvalidWorldMap.WithData("reason", "empty color")
		}
		if _, dup := g.colorSet[c]; !dup {
			g.colorSet[c] = struct{}{}
			g.colors = append(g.colors, c)
		}
	}
	deriveColors := len(colors) == 0

	for _, c := range cities {
		if c.ID == "" {
			return nil, ErrInvalidWorldMap.WithData("reason", "empty city id")
		}
		if _, dup := g.cities[c.ID]; dup {
			return nil, ErrInvalidWorldMap.WithData("reason", "duplicate city").WithData("city", string(c.ID))
		}
		if _, ok := g.colorSet[c.Color]; !ok {
			if !deriveColors || c.Color == "" {
				return nil, ErrInvalidWorldMap.WithData("reason", "unknown color").
					WithData("city", string(c.ID)).WithData("color", string(c.Color))
			}
			g.colorSet[c.Color] = struct{}{}
			g.colors = append(g.colors, c.Color)
		}
		city := c
		city.Neighbors = append([]CityID(nil), c.Neighbors...)
		g.cities[c.ID] = &city
		g.order = append(g.order, c.ID)
	}

	for _, id := range g.order {
		city := g.cities[id]
		seen := make(map[CityID]struct{}, len(city.Neighbors))
		for _, n := range city.Neighbors {
			if n == id {
				return nil, ErrInvalidWorldMap.WithData("reason", "self neighbor").WithData("city", string(id))
			}
			if _, dup := seen[n]; dup {
				return nil, ErrInvalidWorldMap.WithData("reason", "duplicate neighbor").
					WithData("city", string(id)).WithData("neighbor", string(n))
			}
			seen[n] = struct{}{}
			other, ok := g.cities[n]
			if !ok {
				return nil, ErrInvalidWorldMap.WithData("reason", "unknown neighbor").
					WithData("city", string(id)).WithData("neighbor", string(n))
			}
			if !contains(other.Neighbors, id) {
				g.asymmetric = append(g.asymmetric, Edge{From: id, To: n})
			}
		}
	}
	return g, nil
}

func (g *WorldGraph) Title() string {
	return g.title
}

func (g *WorldGraph) Len() int {
	return len(g.order)
}

// City 按 id 查城市，返回拷贝。
func (g *WorldGraph) City(id CityID) (City, bool) {
	c, ok := g.cities[id]
	if !ok {
		return City{}, false
	}
	out := *c
	out.Neighbors = append([]CityID(nil), c.Neighbors...)
	return out, true
}

// NeighborsOf 返回邻居列表（地图声明顺序），调用方不能修改。
func (g *WorldGraph) NeighborsOf(id CityID) ([]CityID, bool) {
	c, ok := g.cities[id]
	if !ok {
		return nil, false
	}
	return c.Neighbors, true
}

func (g *WorldGraph) NativeColorOf(id CityID) (Color, bool) {
	c, ok := g.cities[id]
	if !ok {
		return "", false
	}
	return c.Color, true
}

func (g *WorldGraph) HasCity(id CityID) bool {
	_, ok := g.cities[id]
	return ok
}

func (g *WorldGraph) HasColor(c Color) bool {
	_, ok := g.colorSet[c]
	return ok
}

func (g *WorldGraph) Colors() []Color {
	return append([]Color(nil), g.colors...)
}

// Cities 按地图声明顺序返回所有城市 id。
func (g *WorldGraph) Cities() []CityID {
	return append([]CityID(nil), g.order...)
}

// Asymmetric 返回单向邻接，按 From/To 排序。
func (g *WorldGraph) Asymmetric() []Edge {
	out := append([]Edge(nil), g.asymmetric...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

func contains(ids []CityID, id CityID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
