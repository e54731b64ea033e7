package main

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chore-quest/backend/config"
)

// duration lets TOML files write expirations as "5m" or "720h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type fileConfigs struct {
	Env string `toml:"env"`

	Database struct {
		Host     string `toml:"host"`
		Port     string `toml:"port"`
		Database string `toml:"database"`
		User     string `toml:"user"`
		Password string `toml:"password"`
	} `toml:"database"`

	ApiServer struct {
		Host string `toml:"host"`
		Port string `toml:"port"`
		Cert string `toml:"cert"`
		Key  string `toml:"key"`
	} `toml:"api_server"`

	Auth struct {
		AccessToken  tokenConfigs `toml:"access_token"`
		RefreshToken tokenConfigs `toml:"refresh_token"`

		Google struct {
			Issuer   string `toml:"issuer"`
			ClientID string `toml:"client_id"`
		} `toml:"google"`
	} `toml:"auth"`

	Session struct {
		Secret string `toml:"secret"`
		Name   string `toml:"name"`
	} `toml:"session"`

	Storage struct {
		Region         string `toml:"region"`
		Endpoint       string `toml:"endpoint"`
		PublicEndpoint string `toml:"public_endpoint"`
		AccessKey      string `toml:"access_key"`
		SecretKey      string `toml:"secret_key"`
		Bucket         string `toml:"bucket"`
		SSLDisabled    bool   `toml:"ssl_disabled"`
	} `toml:"storage"`

	File struct {
		MaxSize        int  `toml:"max_size"`
		AvatarCropSize uint `toml:"avatar_crop_size"`
	} `toml:"file"`

	Gemini struct {
		Endpoint string   `toml:"endpoint"`
		APIKey   string   `toml:"api_key"`
		Model    string   `toml:"model"`
		Timeout  duration `toml:"timeout"`
	} `toml:"gemini"`

	Progression struct {
		BaseXPToNextLevel  int     `toml:"base_xp_to_next_level"`
		LevelScalingFactor float64 `toml:"level_scaling_factor"`
	} `toml:"progression"`

	Redis struct {
		Addr string `toml:"addr"`
	} `toml:"redis"`

	Kafka struct {
		Addr string `toml:"addr"`
	} `toml:"kafka"`
}

type tokenConfigs struct {
	Name       string   `toml:"name"`
	Secret     string   `toml:"secret"`
	Expiration duration `toml:"expiration"`
}

// loadConfigFile builds the runtime configuration from the TOML file at
// path. Secrets can be overridden by environment variables so they stay out
// of the file.
func loadConfigFile(path string) (config.Configs, error) {
	var f fileConfigs
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return config.Configs{}, err
	}

	overrideFromEnv(&f.Database.Password, "DB_PASSWORD")
	overrideFromEnv(&f.Auth.AccessToken.Secret, "ACCESS_TOKEN_SECRET")
	overrideFromEnv(&f.Auth.RefreshToken.Secret, "REFRESH_TOKEN_SECRET")
	overrideFromEnv(&f.Session.Secret, "SESSION_SECRET")
	overrideFromEnv(&f.Storage.SecretKey, "STORAGE_SECRET_KEY")
	overrideFromEnv(&f.Gemini.APIKey, "GEMINI_API_KEY")

	cfg := config.Configs{
		Env: f.Env,
		Database: config.DatabaseConfigs{
			Host:     f.Database.Host,
			Port:     f.Database.Port,
			Database: f.Database.Database,
			User:     f.Database.User,
			Password: f.Database.Password,
		},
		ApiServer: config.ServerConfigs{
			Host: f.ApiServer.Host,
			Port: f.ApiServer.Port,
			Cert: f.ApiServer.Cert,
			Key:  f.ApiServer.Key,
		},
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       f.Auth.AccessToken.Name,
				Secret:     f.Auth.AccessToken.Secret,
				Expiration: f.Auth.AccessToken.Expiration.Duration,
			},
			RefreshToken: config.TokenConfigs{
				Name:       f.Auth.RefreshToken.Name,
				Secret:     f.Auth.RefreshToken.Secret,
				Expiration: f.Auth.RefreshToken.Expiration.Duration,
			},
			Google: config.OAuth2Configs{
				Issuer:   f.Auth.Google.Issuer,
				ClientID: f.Auth.Google.ClientID,
			},
		},
		Session: config.SessionConfigs{
			Secret: f.Session.Secret,
			Name:   f.Session.Name,
		},
		Storage: config.S3Configs{
			Region:         f.Storage.Region,
			Endpoint:       f.Storage.Endpoint,
			PublicEndpoint: f.Storage.PublicEndpoint,
			AccessKey:      f.Storage.AccessKey,
			SecretKey:      f.Storage.SecretKey,
			Bucket:         f.Storage.Bucket,
			SSLDisabled:    f.Storage.SSLDisabled,
		},
		File: config.FileConfigs{
			MaxSize:        f.File.MaxSize,
			AvatarCropSize: f.File.AvatarCropSize,
		},
		Gemini: config.GeminiConfigs{
			Endpoint: f.Gemini.Endpoint,
			APIKey:   f.Gemini.APIKey,
			Model:    f.Gemini.Model,
			Timeout:  f.Gemini.Timeout.Duration,
		},
		Progression: config.ProgressionConfigs{
			BaseXPToNextLevel:  f.Progression.BaseXPToNextLevel,
			LevelScalingFactor: f.Progression.LevelScalingFactor,
		},
		Redis: config.RedisConfigs{Addr: f.Redis.Addr},
		Kafka: config.KafkaConfigs{Addr: f.Kafka.Addr},
	}

	if cfg.Progression.BaseXPToNextLevel == 0 {
		cfg.Progression.BaseXPToNextLevel = 100
	}

	if cfg.Progression.LevelScalingFactor == 0 {
		cfg.Progression.LevelScalingFactor = 1.5
	}

	if cfg.Session.Name == "" {
		cfg.Session.Name = "chore_quest_session"
	}

	if cfg.Gemini.Endpoint == "" {
		cfg.Gemini.Endpoint = "https://generativelanguage.googleapis.com"
	}

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}

	return cfg, nil
}

func overrideFromEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
