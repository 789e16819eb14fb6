package serverconfig

import (
	"sync/atomic"

	"Pandemic/internal/shared/config"
)

var Conf Config

var current atomic.Pointer[Config]

// Load 加载 configs/conf.yml；onChange 在文件热更新后被调用（目前只用于切换日志级别）。
func Load(onChange func(Config)) {
	config.Load("", &Conf, func() {
		c := Conf
		current.Store(&c)
		if onChange != nil {
			onChange(c)
		}
	})
	c := Conf
	current.Store(&c)
}

// Current 返回最近一次加载/热更新后的配置拷贝。
func Current() Config {
	if c := current.Load(); c != nil {
		return *c
	}
	return Conf
}

// Normalize 给未填的字段补默认值。
func (c *Config) Normalize() {
	if c.HTTPServer.Port <= 0 {
		c.HTTPServer.Port = 8080
	}
	if c.Infection.Storage == "" {
		c.Infection.Storage = StorageMemory
	}
	if c.Infection.SpreadColor == "" {
		c.Infection.SpreadColor = "source"
	}
	if c.Infection.NodeID <= 0 {
		c.Infection.NodeID = 1
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = "pandemic"
	}
}
