package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Access   AccessConfig
	Storage  StorageConfig
	Mail     MailConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port string
	Mode string // debug / release
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	ExpireHour int
}

// AccessConfig 访问授权引擎配置
type AccessConfig struct {
	TokenBytes               int    // 分享 Token 随机字节数（最低 16，即 128 bit）
	InviteCodeLength         int    // 邀请码长度
	DefaultInviteExpiryHours int    // 邀请默认有效期（小时，0 表示不设置）
	PermissionPolicy         string // intersect / invitation / share_link
	PasswordTokenTTLMinutes  int    // verify-password 签发的访问令牌有效期
	RateLimitPerMinute       int    // 公开接口每 IP 每分钟限流（0 表示不限制）
	ResolveTimeoutSeconds    int    // 单次授权解析的存储操作超时
}

type StorageConfig struct {
	Targets []StorageTarget
}

type StorageTarget struct {
	Name            string
	Type            string // local / s3 / cos / oss
	Enabled         bool
	LocalDir        string
	BaseURL         string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathPrefix      string
	CustomDomain    string
}

type MailConfig struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	From     string
}

type LogConfig struct {
	Level string // debug / info / warn / error
}

// PasswordTokenTTL 返回访问令牌有效期
func (c AccessConfig) PasswordTokenTTL() time.Duration {
	return time.Duration(c.PasswordTokenTTLMinutes) * time.Minute
}

// ResolveTimeout 返回授权解析超时
func (c AccessConfig) ResolveTimeout() time.Duration {
	return time.Duration(c.ResolveTimeoutSeconds) * time.Second
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// 设置默认值
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.expireHour", 24)
	viper.SetDefault("access.tokenBytes", 32)
	viper.SetDefault("access.inviteCodeLength", 10)
	viper.SetDefault("access.defaultInviteExpiryHours", 0)
	viper.SetDefault("access.permissionPolicy", "intersect")
	viper.SetDefault("access.passwordTokenTTLMinutes", 120)
	viper.SetDefault("access.rateLimitPerMinute", 60)
	viper.SetDefault("access.resolveTimeoutSeconds", 5)
	viper.SetDefault("mail.enabled", false)
	viper.SetDefault("log.level", "info")

	// 支持环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Token 熵值下限：低于 128 bit 的分享 Token 不可接受
	if cfg.Access.TokenBytes < 16 {
		cfg.Access.TokenBytes = 16
	}
	if cfg.Access.InviteCodeLength < 8 {
		cfg.Access.InviteCodeLength = 8
	}

	return &cfg, nil
}
