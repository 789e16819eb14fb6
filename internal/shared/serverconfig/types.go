package serverconfig

import "time"

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Infection  InfectionConfig  `yaml:"infection" mapstructure:"infection"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type MySQLConfig struct {
	Host        string `yaml:"host" mapstructure:"host"`
	Port        int    `yaml:"port" mapstructure:"port"`
	User        string `yaml:"user" mapstructure:"user"`
	Password    string `yaml:"password" mapstructure:"password"`
	DBName      string `yaml:"dbname" mapstructure:"dbname"`
	Charset     string `yaml:"charset" mapstructure:"charset"`
	MaxIdle     int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn     int    `yaml:"max_conn" mapstructure:"max_conn"`
	AutoMigrate bool   `yaml:"auto_migrate" mapstructure:"auto_migrate"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// 存储后端
const (
	StorageMemory  = "memory"
	StorageMySQL   = "mysql"
	StorageMongoDB = "mongodb"
)

type InfectionConfig struct {
	// MapData 世界地图 yaml 路径，为空使用内置标准地图
	MapData string `yaml:"map_data" mapstructure:"map_data"`
	// Storage memory/mysql/mongodb
	Storage string `yaml:"storage" mapstructure:"storage"`
	// SpreadColor source/native，见 service.SpreadPolicy
	SpreadColor string        `yaml:"spread_color" mapstructure:"spread_color"`
	FlushEvery  time.Duration `yaml:"flush_every" mapstructure:"flush_every"`
	AskTimeout  time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	// JournalDir 爆发日志目录，为空不写
	JournalDir string `yaml:"journal_dir" mapstructure:"journal_dir"`
	NodeID     int64  `yaml:"node_id" mapstructure:"node_id"`
}
