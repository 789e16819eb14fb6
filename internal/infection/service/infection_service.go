package service

import (
	"strings"

	"Pandemic/internal/infection/entity"
	"Pandemic/modules/kit/errx"
)

type CityID = entity.CityID
type Color = entity.Color

// SpreadPolicy 决定爆发扩散到邻居时用哪种颜色。
type SpreadPolicy int

const (
	// SpreadSourceColor 沿用本次放置的颜色
	SpreadSourceColor SpreadPolicy = iota
	// SpreadNativeColor 用爆发城市自己的本色
	SpreadNativeColor
)

func (p SpreadPolicy) String() string {
	switch p {
	case SpreadNativeColor:
		return "native"
	default:
		return "source"
	}
}

// ParseSpreadPolicy 解析配置里的 infection.spread_color，空串取 source。
func ParseSpreadPolicy(raw string) (SpreadPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "source":
		return SpreadSourceColor, nil
	case "native":
		return SpreadNativeColor, nil
	default:
		return SpreadSourceColor, errx.ErrReqParamERR.WithData("spread_color", raw)
	}
}

type PlaceRequest struct {
	City     CityID
	Color    Color // 为空取城市本色
	Quantity int
}

// Placement 是一次落子（源头或扩散）的结果。
type Placement struct {
	City        CityID
	Color       Color
	Requested   int
	BeforeTotal int // 落子前该城所有颜色合计
	Stored      int // 写入后该颜色的数量
	Outbreak    bool
}

// Cascade 描述一次 PlaceInfection 的完整连锁过程。
type Cascade struct {
	Origin     CityID
	Color      Color
	Quantity   int
	Sources    []CityID // 按爆发顺序
	Placements []Placement
}

func (c *Cascade) OutbreaksAdded() int {
	return len(c.Sources)
}

type pending struct {
	city     CityID
	color    Color
	quantity int
}

// InfectionService 无状态的感染引擎，地图只读，可以被多个 GameActor 共享。
type InfectionService struct {
	graph  *entity.WorldGraph
	spread SpreadPolicy
}

func NewInfectionService(graph *entity.WorldGraph, spread SpreadPolicy) *InfectionService {
	return &InfectionService{graph: graph, spread: spread}
}

func (s *InfectionService) Graph() *entity.WorldGraph {
	return s.graph
}

func (s *InfectionService) SpreadPolicy() SpreadPolicy {
	return s.spread
}

// PlaceInfection 往城市放 quantity 个方块并处理爆发连锁。
//
// 每次落子：
//  1. before = 该城所有颜色合计
//  2. 写入 min(已有+quantity, 3-其它颜色合计)，不小于 0
//  3. before+quantity > 3 即爆发：城市进入本次连锁的已爆发集合，爆发数 +1，
//     向每个未爆发的邻居扩散 1 个方块
//
// 连锁用显式栈做深度优先，邻居逆序入栈，弹出时再查已爆发集合，
// 结果和按邻居顺序递归完全一致。
// 参数错误在任何写入之前返回；连锁中途出错时，已经写入的部分保留。
func (s *InfectionService) PlaceInfection(g *entity.Game, req PlaceRequest) (*Cascade, error) {
	if g == nil {
		return nil, errx.ErrInternal.WithData("reason", "game not loaded")
	}
	if req.Quantity < 1 {
		return nil, entity.ErrInvalidQuantity.WithData("quantity", req.Quantity)
	}
	native, ok := s.graph.NativeColorOf(req.City)
	if !ok {
		return nil, entity.ErrCityNotFound.WithData("city", string(req.City))
	}
	color := req.Color
	if color == "" {
		color = native
	} else if !s.graph.HasColor(color) {
		return nil, entity.ErrInvalidColor.WithData("color", string(color))
	}

	cascade := &Cascade{Origin: req.City, Color: color, Quantity: req.Quantity}
	visited := make(map[CityID]struct{})
	stack := []pending{{city: req.City, color: color, quantity: req.Quantity}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := visited[p.city]; done {
			continue
		}

		placement, err := s.place(g, p)
		if err != nil {
			return cascade, err
		}
		cascade.Placements = append(cascade.Placements, placement)
		if !placement.Outbreak {
			continue
		}

		visited[p.city] = struct{}{}
		g.IncrementOutbreaks()
		cascade.Sources = append(cascade.Sources, p.city)

		neighbors, _ := s.graph.NeighborsOf(p.city)
		spreadColor := s.spreadColor(p)
		for i := len(neighbors) - 1; i >= 0; i-- {
			n := neighbors[i]
			if _, done := visited[n]; done {
				continue
			}
			stack = append(stack, pending{city: n, color: spreadColor, quantity: 1})
		}
	}
	return cascade, nil
}

func (s *InfectionService) place(g *entity.Game, p pending) (Placement, error) {
	if !s.graph.HasCity(p.city) {
		return Placement{}, entity.ErrCityNotFound.WithData("city", string(p.city))
	}
	ledger := g.Ledger()

	// 超过 4 个的部分不影响存量和爆发判定，先截断防止加法溢出
	q := min(p.quantity, entity.MaxCubesPerCity+1)
	before := ledger.SumAllColors(p.city)
	raw := ledger.Count(p.city, p.color) + q
	capacity := max(0, entity.MaxCubesPerCity-ledger.SumOtherColors(p.city, p.color))
	stored := min(raw, capacity)

	if err := ledger.SetCount(p.city, p.color, stored); err != nil {
		return Placement{}, err
	}
	return Placement{
		City:        p.city,
		Color:       p.color,
		Requested:   p.quantity,
		BeforeTotal: before,
		Stored:      stored,
		Outbreak:    before+q > entity.MaxCubesPerCity,
	}, nil
}

func (s *InfectionService) spreadColor(p pending) Color {
	if s.spread == SpreadNativeColor {
		if c, ok := s.graph.NativeColorOf(p.city); ok {
			return c
		}
	}
	return p.color
}
