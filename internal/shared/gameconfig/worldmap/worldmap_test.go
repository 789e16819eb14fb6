package worldmap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStandard_48城四种颜色(t *testing.T) {
	conf := Standard()
	if len(conf.Cities) != 48 {
		t.Fatalf("期望 48 座城市, got=%d", len(conf.Cities))
	}
	if len(conf.Colors) != 4 {
		t.Fatalf("期望 4 种颜色, got=%v", conf.Colors)
	}
	perColor := map[string]int{}
	for _, c := range conf.Cities {
		perColor[c.Color]++
	}
	for _, color := range conf.Colors {
		if perColor[color] != 12 {
			t.Fatalf("期望 %s 12 座城市, got=%d", color, perColor[color])
		}
	}
}

func TestLoad_读取外部文件(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tiny.yml")
	body := "title: tiny\ncolors: [blue]\ncities:\n  - id: a\n    name: A\n    color: blue\n    neighbors: [b]\n  - id: b\n    name: B\n    color: blue\n    neighbors: [a]\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	conf, err := Load(p)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if conf.Title != "tiny" || len(conf.Cities) != 2 || conf.Cities[0].Neighbors[0] != "b" {
		t.Fatalf("unexpected conf: %+v", conf)
	}
}

func TestParse_空地图报错(t *testing.T) {
	if _, err := Parse([]byte("title: empty\n"), "empty.yml"); err == nil {
		t.Fatalf("期望空地图报错")
	}
	if _, err := Parse([]byte("cities: [oops"), "broken.yml"); err == nil {
		t.Fatalf("期望非法 yaml 报错")
	}
}
