package main

import (
	"net/http"

	"github.com/chore-quest/backend/internal/middleware"
	"github.com/chore-quest/backend/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()
	s.loadContext()
	s.loadEndpoint()
	s.loadStorage()
	s.loadPublisher()
	s.loadRedis()
	s.loadRepos()
	s.loadDomains()
	s.loadSubscriber()
	s.loadRouter()

	if s.subscriber != nil {
		s.subscriber.Subscribe(s.ctx)
		defer s.subscriber.Stop(s.ctx)
	}

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting api server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.AllowCors)
	s.router.Before(middleware.WithAuthentication())
	s.router.After(middleware.HandleSaveSession())

	// Public API
	{
		router.POST(s.router, "/register", s.authDomain.Register)
		router.POST(s.router, "/login", s.authDomain.Login)
		router.POST(s.router, "/verifyOAuth2", s.authDomain.OAuth2Verify)
		router.POST(s.router, "/refresh", s.authDomain.Refresh)
	}

	// These APIs need authentication but work before the hero finishes the
	// setup flow.
	setupRouter := s.router.Branch()
	setupRouter.Before(middleware.Authenticate)
	{
		router.GET(setupRouter, "/getMe", s.userDomain.GetMe)
		router.POST(setupRouter, "/updateUser", s.userDomain.Update)
		router.POST(setupRouter, "/uploadAvatar", s.fileDomain.UploadAvatar)
	}

	// Everything else requires a fully set up hero.
	authRouter := setupRouter.Branch()
	authRouter.Before(middleware.MustUpdateUsername(s.userRepo))
	{
		// User API
		router.GET(authRouter, "/searchUsers", s.userDomain.Search)
		router.GET(authRouter, "/getWeeklyActivity", s.userDomain.GetWeeklyActivity)

		// Boss API
		router.POST(authRouter, "/createBoss", s.bossDomain.Create)
		router.POST(authRouter, "/summonBoss", s.bossDomain.Summon)
		router.POST(authRouter, "/resummonBoss", s.bossDomain.Resummon)
		router.GET(authRouter, "/getSummonHistory", s.bossDomain.GetSummonHistory)
		router.GET(authRouter, "/getBoss", s.bossDomain.Get)
		router.GET(authRouter, "/getMyBosses", s.bossDomain.GetMyList)
		router.POST(authRouter, "/completeChore", s.bossDomain.CompleteChore)

		// Friend API
		router.POST(authRouter, "/sendFriendRequest", s.friendDomain.SendRequest)
		router.POST(authRouter, "/acceptFriendRequest", s.friendDomain.AcceptRequest)
		router.POST(authRouter, "/declineFriendRequest", s.friendDomain.DeclineRequest)
		router.POST(authRouter, "/cancelFriendRequest", s.friendDomain.CancelRequest)
		router.GET(authRouter, "/getFriendRequests", s.friendDomain.GetPendingRequests)
		router.GET(authRouter, "/getFriends", s.friendDomain.GetFriends)
		router.POST(authRouter, "/removeFriend", s.friendDomain.RemoveFriend)

		// Leaderboard API
		if s.statisticDomain != nil {
			router.GET(authRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
		}
	}

	// Realtime events
	s.router.Mount("/ws", s.wsDomain)
}
