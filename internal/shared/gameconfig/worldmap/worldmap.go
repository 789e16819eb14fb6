package worldmap

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed standard.yml
var standardMap []byte

type CityConf struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Color     string   `yaml:"color"`
	Neighbors []string `yaml:"neighbors"`
}

type MapConf struct {
	Title  string     `yaml:"title"`
	Colors []string   `yaml:"colors"`
	Cities []CityConf `yaml:"cities"`
}

// Load 读取地图配置；path 为空时使用内置的标准地图。
// 这里只做解析，城市/邻接的合法性由 entity.NewWorldGraph 校验。
func Load(path string) (*MapConf, error) {
	raw := standardMap
	source := "standard.yml(embedded)"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw, source = b, path
	}
	return Parse(raw, source)
}

func Parse(raw []byte, source string) (*MapConf, error) {
	var conf MapConf
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if len(conf.Cities) == 0 {
		return nil, fmt.Errorf("%s: no cities", source)
	}
	return &conf, nil
}

// Standard 返回内置标准地图，解析失败属于构建错误直接 panic。
func Standard() *MapConf {
	conf, err := Parse(standardMap, "standard.yml(embedded)")
	if err != nil {
		panic(err)
	}
	return conf
}
