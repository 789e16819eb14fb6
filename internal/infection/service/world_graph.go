package service

import (
	"Pandemic/internal/infection/entity"
	"Pandemic/internal/shared/gameconfig/worldmap"
)

// BuildWorldGraph 把地图配置转成校验过的 WorldGraph。
func BuildWorldGraph(conf *worldmap.MapConf) (*entity.WorldGraph, error) {
	if conf == nil {
		return nil, entity.ErrInvalidWorldMap.WithData("reason", "nil map conf")
	}
	colors := make([]entity.Color, 0, len(conf.Colors))
	for _, c := range conf.Colors {
		colors = append(colors, entity.Color(c))
	}
	cities := make([]entity.City, 0, len(conf.Cities))
	for _, c := range conf.Cities {
		neighbors := make([]entity.CityID, 0, len(c.Neighbors))
		for _, n := range c.Neighbors {
			neighbors = append(neighbors, entity.CityID(n))
		}
		cities = append(cities, entity.City{
			ID:        entity.CityID(c.ID),
			Name:      c.Name,
			Color:     entity.Color(c.Color),
			Neighbors: neighbors,
		})
	}
	return entity.NewWorldGraph(conf.Title, colors, cities)
}

// LoadWorldGraph 读取地图文件（为空用内置标准地图）并构建 WorldGraph。
func LoadWorldGraph(path string) (*entity.WorldGraph, error) {
	conf, err := worldmap.Load(path)
	if err != nil {
		return nil, entity.ErrInvalidWorldMap.WithCause(err).WithData("path", path)
	}
	return BuildWorldGraph(conf)
}
