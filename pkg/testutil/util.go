package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/chore-quest/backend/config"
	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/migration"
	"github.com/chore-quest/backend/pkg/authenticator"
	"github.com/chore-quest/backend/pkg/logger"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/gorilla/sessions"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     "secret",
				Expiration: time.Minute,
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Secret:     "secret",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "chore_quest_session",
		},
		File: config.FileConfigs{
			MaxSize:        2 * 1024 * 1024,
			AvatarCropSize: 128,
		},
		Progression: config.ProgressionConfigs{
			BaseXPToNextLevel:  100,
			LevelScalingFactor: 1.5,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	CreateFixture(ctx)
	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

func SnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return node
}
