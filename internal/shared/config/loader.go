package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀：PANDEMIC_INFECTION_STORAGE 覆盖 infection.storage。
const EnvPrefix = "PANDEMIC"

var reloadMu sync.Mutex

// Read 用 viper 解析 path 指向的文件到 out。
// onChange 非空时开启文件监听，变更后重新 Unmarshal 到 out 再回调；解析失败保留旧值。
func Read(path string, out any, onChange func()) error {
	if !fileExist(path) {
		return fmt.Errorf("config file not exist, configPath=%v", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := unmarshal(v, out); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", path, err)
	}

	if onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			reloadMu.Lock()
			defer reloadMu.Unlock()
			if err := unmarshal(v, out); err != nil {
				return
			}
			onChange()
		})
		v.WatchConfig()
	}
	return nil
}

func unmarshal(v *viper.Viper, out any) error {
	return v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
