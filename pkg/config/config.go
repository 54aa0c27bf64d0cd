package config

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var appCnf *AppConfig
var dbTablePrefix string

type AppConfig struct {
	RDS      *redis.Client
	ORM      *gorm.DB
	NatsConn *nats.Conn
	Logger   *logrus.Logger

	RootWorkingDir string

	Client       ClientInfo   `yaml:"client"`
	LogSettings  LogSettings  `yaml:"log_settings"`
	DatabaseInfo DatabaseInfo `yaml:"database_info"`
	RedisInfo    RedisInfo    `yaml:"redis_info"`
	NatsInfo     NatsInfo     `yaml:"nats_info"`
	LivekitInfo  LivekitInfo  `yaml:"livekit_info"`
	RecorderInfo RecorderInfo `yaml:"recorder_info"`
	StorageInfo  StorageInfo  `yaml:"storage_info"`
	LobbyInfo    LobbyInfo    `yaml:"lobby_info"`
	NotifierInfo NotifierInfo `yaml:"notifier_info"`
}

type ClientInfo struct {
	Port                   int            `yaml:"port"`
	Debug                  bool           `yaml:"debug"`
	ApiKey                 string         `yaml:"api_key"`
	Secret                 string         `yaml:"secret"`
	ProxyHeader            string         `yaml:"proxy_header"`
	AllowUnregisteredRooms bool           `yaml:"allow_unregistered_rooms"`
	TokenValidity          *time.Duration `yaml:"token_validity"`
	PrometheusConf         PrometheusConf `yaml:"prometheus"`
}

type PrometheusConf struct {
	Enable      bool   `yaml:"enable"`
	MetricsPath string `yaml:"metrics_path"`
}

type LogSettings struct {
	LogLevel   *string `yaml:"log_level"`
	LogFile    string  `yaml:"log_file"`
	MaxSize    int     `yaml:"max_size"`
	MaxBackups int     `yaml:"max_backups"`
	MaxAge     int     `yaml:"max_age"`
}

type DatabaseInfo struct {
	Host            string          `yaml:"host"`
	Port            int32           `yaml:"port"`
	Username        string          `yaml:"username"`
	Password        string          `yaml:"password"`
	DBName          string          `yaml:"db"`
	Prefix          string          `yaml:"prefix"`
	Charset         *string         `yaml:"charset"`
	Loc             *string         `yaml:"loc"`
	ConnMaxLifetime *time.Duration  `yaml:"conn_max_lifetime"`
	MaxOpenConns    *int            `yaml:"max_open_conns"`
	Replicas        []ReplicaDBInfo `yaml:"replicas"`
}

// ReplicaDBInfo holds connection details for a read replica database.
type ReplicaDBInfo struct {
	Host     string `yaml:"host"`
	Port     int32  `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type RedisInfo struct {
	Host              string   `yaml:"host"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	DBName            int      `yaml:"db"`
	UseTLS            bool     `yaml:"use_tls"`
	MasterName        string   `yaml:"sentinel_master_name"`
	SentinelUsername  string   `yaml:"sentinel_username"`
	SentinelPassword  string   `yaml:"sentinel_password"`
	SentinelAddresses []string `yaml:"sentinel_addresses"`
}

type NatsInfo struct {
	NatsUrls []string         `yaml:"nats_urls"`
	User     string           `yaml:"user"`
	Password string           `yaml:"password"`
	Recorder NatsInfoRecorder `yaml:"recorder"`
}

type NatsInfoRecorder struct {
	RecorderChannel string         `yaml:"recorder_channel"`
	RequestTimeout  *time.Duration `yaml:"request_timeout"`
}

type LivekitInfo struct {
	Host   string `yaml:"host"`
	ApiKey string `yaml:"api_key"`
	Secret string `yaml:"secret"`
}

type RecorderInfo struct {
	// MaxStopAttempts bounds how many failed stop requests a recording may
	// accumulate before it is forced into the error state. Zero means retry
	// without bound.
	MaxStopAttempts int `yaml:"max_stop_attempts"`
}

type StorageInfo struct {
	// Provider selects the inbound event parser, "minio" or "s3".
	Provider              string         `yaml:"provider"`
	Buckets               []string       `yaml:"buckets"`
	Region                string         `yaml:"region"`
	Endpoint              string         `yaml:"endpoint"`
	AccessKey             string         `yaml:"access_key"`
	SecretKey             string         `yaml:"secret_key"`
	AllowedFileTypes      []string       `yaml:"allowed_file_types"`
	DownloadTokenValidity *time.Duration `yaml:"download_token_validity"`
}

type LobbyInfo struct {
	WaitTimeout     time.Duration `yaml:"wait_timeout"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
	CookieSecret    string        `yaml:"cookie_secret"`
}

type NotifierInfo struct {
	SubscriberUrls []string       `yaml:"subscriber_urls"`
	Workers        int            `yaml:"workers"`
	RequestTimeout *time.Duration `yaml:"request_timeout"`
}

// New applies defaults, stores the config for global usage and returns it.
func New(a *AppConfig) (*AppConfig, error) {
	if a.Client.TokenValidity == nil || *a.Client.TokenValidity < 0 {
		validity := time.Minute * 10
		a.Client.TokenValidity = &validity
	}

	if a.LobbyInfo.WaitTimeout <= 0 {
		a.LobbyInfo.WaitTimeout = DefaultLobbyWaitTimeout
	}
	if a.LobbyInfo.JanitorInterval <= 0 {
		a.LobbyInfo.JanitorInterval = DefaultLobbyJanitorInterval
	}

	if len(a.StorageInfo.AllowedFileTypes) == 0 {
		a.StorageInfo.AllowedFileTypes = []string{"mp4", "ogg", "m4a"}
	}
	if a.StorageInfo.DownloadTokenValidity == nil {
		d := time.Minute * 30
		a.StorageInfo.DownloadTokenValidity = &d
	}

	if a.NotifierInfo.Workers <= 0 {
		a.NotifierInfo.Workers = DefaultNotifierWorkers
	}
	if a.NotifierInfo.RequestTimeout == nil {
		d := time.Second * 10
		a.NotifierInfo.RequestTimeout = &d
	}

	if a.NatsInfo.Recorder.RequestTimeout == nil {
		d := time.Second * 3
		a.NatsInfo.Recorder.RequestTimeout = &d
	}

	if a.DatabaseInfo.Prefix != "" {
		dbTablePrefix = a.DatabaseInfo.Prefix
	}

	appCnf = a
	return appCnf, nil
}

func GetConfig() *AppConfig {
	return appCnf
}

func FormatDBTable(table string) string {
	if dbTablePrefix != "" {
		return dbTablePrefix + table
	}
	return table
}
