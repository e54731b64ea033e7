package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/chore-quest/backend/config"
	"github.com/chore-quest/backend/internal/common"
	"github.com/chore-quest/backend/internal/domain"
	"github.com/chore-quest/backend/internal/domain/statistic"
	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/api/gemini"
	"github.com/chore-quest/backend/pkg/authenticator"
	"github.com/chore-quest/backend/pkg/kafka"
	"github.com/chore-quest/backend/pkg/logger"
	"github.com/chore-quest/backend/pkg/pubsub"
	"github.com/chore-quest/backend/pkg/router"
	"github.com/chore-quest/backend/pkg/storage"
	"github.com/chore-quest/backend/pkg/ws"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/chore-quest/backend/pkg/xredis"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	userRepo           repository.UserRepository
	bossRepo           repository.BossRepository
	choreRepo          repository.ChoreRepository
	friendRequestRepo  repository.FriendRequestRepository
	friendshipRepo     repository.FriendshipRepository
	dailyActivityRepo  repository.DailyActivityRepository
	bossGenerationRepo repository.BossGenerationRepository
	refreshTokenRepo   repository.RefreshTokenRepository

	authDomain      domain.AuthDomain
	userDomain      domain.UserDomain
	bossDomain      domain.BossDomain
	friendDomain    domain.FriendDomain
	fileDomain      domain.FileDomain
	statisticDomain domain.StatisticDomain
	wsDomain        domain.WsDomain

	geminiEndpoint gemini.IEndpoint
	oauth2Services []authenticator.IOAuth2Service
	refreshEngine  authenticator.TokenEngine[model.RefreshToken]
	fileStorage    storage.Storage
	publisher      pubsub.Publisher
	subscriber     pubsub.Subscriber
	redisClient    xredis.Client
	leaderboard    statistic.Leaderboard
	hub            *ws.Hub

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(ct *cli.Context) {
	cfg, err := loadConfigFile(ct.String("config"))
	if err != nil {
		panic(err)
	}

	s.configs = cfg
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

// loadContext assembles the base context every request derives from.
func (s *srv) loadContext() {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(s.configs.Session.Secret)))
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](s.configs.Auth.AccessToken))

	s.ctx = ctx
}

func (s *srv) loadEndpoint() {
	s.geminiEndpoint = gemini.New(s.configs.Gemini)
	s.refreshEngine = authenticator.NewTokenEngine[model.RefreshToken](s.configs.Auth.RefreshToken)

	if s.configs.Auth.Google.ClientID != "" {
		google, err := authenticator.NewOAuth2Service(s.ctx, "google", s.configs.Auth.Google)
		if err != nil {
			panic(err)
		}

		s.oauth2Services = append(s.oauth2Services, google)
	}
}

func (s *srv) loadStorage() {
	s.fileStorage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadPublisher() {
	if s.configs.Kafka.Addr == "" {
		s.logger.Warnf("No kafka address, events will not be published")
		return
	}

	publisher, err := kafka.NewPublisher("chore-quest-api", []string{s.configs.Kafka.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadRedis() {
	if s.configs.Redis.Addr == "" {
		s.logger.Warnf("No redis address, leaderboard reads fall back to database only")
		return
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadRepos() {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.userRepo = repository.NewUserRepository()
	s.bossRepo = repository.NewBossRepository()
	s.choreRepo = repository.NewChoreRepository()
	s.friendRequestRepo = repository.NewFriendRequestRepository()
	s.friendshipRepo = repository.NewFriendshipRepository()
	s.dailyActivityRepo = repository.NewDailyActivityRepository()
	s.bossGenerationRepo = repository.NewBossGenerationRepository(node)
	s.refreshTokenRepo = repository.NewRefreshTokenRepository()
}

func (s *srv) loadDomains() {
	s.hub = ws.NewHub()
	notifier := domain.NewNotifier(s.publisher, s.hub, s.friendshipRepo)
	engine := domain.NewProgressionEngine(s.userRepo, s.dailyActivityRepo)

	if s.redisClient != nil {
		s.leaderboard = statistic.New(s.dailyActivityRepo, s.redisClient)
	}

	s.authDomain = domain.NewAuthDomain(
		s.userRepo, s.refreshTokenRepo, s.refreshEngine, s.oauth2Services)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.friendshipRepo, s.dailyActivityRepo)
	s.bossDomain = domain.NewBossDomain(
		s.bossRepo, s.choreRepo, s.bossGenerationRepo, s.userRepo, s.friendshipRepo,
		s.geminiEndpoint, engine, s.leaderboard, notifier)
	s.friendDomain = domain.NewFriendDomain(
		s.friendRequestRepo, s.friendshipRepo, s.userRepo, notifier)
	s.fileDomain = domain.NewFileDomain(s.fileStorage, s.userRepo)
	s.wsDomain = domain.NewWsDomain(s.ctx, s.hub)

	if s.leaderboard != nil {
		s.statisticDomain = domain.NewStatisticDomain(s.leaderboard, s.userRepo)
	}
}

// loadSubscriber consumes the event topic and hands every pack to the local
// hub. The group id is unique per instance so each api server sees every
// event and can deliver it to its own websocket connections.
func (s *srv) loadSubscriber() {
	if s.publisher == nil {
		return
	}

	subscriber, err := kafka.NewSubscriber(
		"chore-quest-ws-"+uuid.NewString(),
		[]string{s.configs.Kafka.Addr},
		[]string{common.EventTopic},
		func(ctx context.Context, pack *pubsub.Pack, t time.Time) {
			s.hub.BroadcastTo(pack.Msg, string(pack.Key))
		},
	)
	if err != nil {
		panic(err)
	}

	s.subscriber = subscriber
}
