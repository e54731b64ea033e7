package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database    DatabaseConfigs
	ApiServer   ServerConfigs
	Auth        AuthConfigs
	Session     SessionConfigs
	Storage     S3Configs
	File        FileConfigs
	Gemini      GeminiConfigs
	Progression ProgressionConfigs
	Redis       RedisConfigs
	Kafka       KafkaConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type AuthConfigs struct {
	AccessToken  TokenConfigs
	RefreshToken TokenConfigs

	Google OAuth2Configs
}

type TokenConfigs struct {
	Name       string
	Secret     string
	Expiration time.Duration
}

type OAuth2Configs struct {
	Issuer   string
	ClientID string
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	SSLDisabled    bool
}

type FileConfigs struct {
	MaxSize        int
	AvatarCropSize uint
}

type GeminiConfigs struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type ProgressionConfigs struct {
	// BaseXPToNextLevel is the threshold a level-1 hero must reach to hit
	// level 2. Each level-up multiplies the running threshold by
	// LevelScalingFactor and floors the result.
	BaseXPToNextLevel  int
	LevelScalingFactor float64
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}
