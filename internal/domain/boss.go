package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/chore-quest/backend/internal/common"
	"github.com/chore-quest/backend/internal/domain/statistic"
	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/api/gemini"
	"github.com/chore-quest/backend/pkg/enum"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxSummonHistory = 20

type BossDomain interface {
	Create(context.Context, *model.CreateBossRequest) (*model.CreateBossResponse, error)
	Summon(context.Context, *model.SummonBossRequest) (*model.SummonBossResponse, error)
	Resummon(context.Context, *model.ResummonBossRequest) (*model.ResummonBossResponse, error)
	GetSummonHistory(context.Context, *model.GetSummonHistoryRequest) (*model.GetSummonHistoryResponse, error)
	Get(context.Context, *model.GetBossRequest) (*model.GetBossResponse, error)
	GetMyList(context.Context, *model.GetMyBossesRequest) (*model.GetMyBossesResponse, error)
	CompleteChore(context.Context, *model.CompleteChoreRequest) (*model.CompleteChoreResponse, error)
}

type bossDomain struct {
	bossRepo           repository.BossRepository
	choreRepo          repository.ChoreRepository
	bossGenerationRepo repository.BossGenerationRepository
	userRepo           repository.UserRepository
	friendshipRepo     repository.FriendshipRepository
	geminiEndpoint     gemini.IEndpoint
	engine             *ProgressionEngine
	leaderboard        statistic.Leaderboard
	notifier           *Notifier
}

func NewBossDomain(
	bossRepo repository.BossRepository,
	choreRepo repository.ChoreRepository,
	bossGenerationRepo repository.BossGenerationRepository,
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	geminiEndpoint gemini.IEndpoint,
	engine *ProgressionEngine,
	leaderboard statistic.Leaderboard,
	notifier *Notifier,
) *bossDomain {
	return &bossDomain{
		bossRepo:           bossRepo,
		choreRepo:          choreRepo,
		bossGenerationRepo: bossGenerationRepo,
		userRepo:           userRepo,
		friendshipRepo:     friendshipRepo,
		geminiEndpoint:     geminiEndpoint,
		engine:             engine,
		leaderboard:        leaderboard,
		notifier:           notifier,
	}
}

func (d *bossDomain) Create(
	ctx context.Context, req *model.CreateBossRequest,
) (*model.CreateBossResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty boss name")
	}

	if len(req.Chores) == 0 {
		return nil, errorx.New(errorx.BadRequest, "A boss needs at least one chore")
	}

	boss := &entity.Boss{
		Base:             entity.Base{ID: uuid.NewString()},
		UserID:           xcontext.RequestUserID(ctx),
		Name:             req.Name,
		Description:      req.Description,
		TotalHealth:      req.TotalHealth,
		Status:           entity.BossAlive,
		LevelRequirement: req.LevelRequirement,
	}

	totalDamage := 0
	for i, c := range req.Chores {
		if c.Title == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow an empty chore title")
		}

		xp := c.XP
		if xp <= 0 {
			xp = 10
		}

		damage := c.Damage
		if damage <= 0 {
			damage = 10
		}

		totalDamage += damage
		boss.Chores = append(boss.Chores, entity.Chore{
			Base:             entity.Base{ID: uuid.NewString()},
			Title:            c.Title,
			XP:               xp,
			Damage:           damage,
			Difficulty:       parseDifficulty(c.Difficulty),
			EstimatedMinutes: c.EstimatedMinutes,
			Position:         i,
		})
	}

	// An unspecified health pool is sized so that finishing every chore
	// defeats the boss exactly.
	if boss.TotalHealth <= 0 {
		boss.TotalHealth = totalDamage
	}
	boss.CurrentHealth = boss.TotalHealth

	if err := d.bossRepo.Create(ctx, boss); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create boss: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateBossResponse{Boss: model.ConvertBoss(boss)}, nil
}

func (d *bossDomain) Summon(
	ctx context.Context, req *model.SummonBossRequest,
) (*model.SummonBossResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty description")
	}

	boss, fallback, err := d.summonFromPrompt(ctx, req.Description)
	if err != nil {
		return nil, err
	}

	return &model.SummonBossResponse{Boss: model.ConvertBoss(boss), Fallback: fallback}, nil
}

// summonFromPrompt asks the generative provider for a boss and persists it
// together with its audit record. When the provider fails, a stand-in boss
// is created instead so the session keeps going.
func (d *bossDomain) summonFromPrompt(ctx context.Context, prompt string) (*entity.Boss, bool, error) {
	requestUserID := xcontext.RequestUserID(ctx)

	generated, raw, err := d.geminiEndpoint.GenerateBoss(ctx, prompt)
	fallback := false
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot generate boss: %v", err)
		generated = gemini.FailedSummonBoss(prompt)
		fallback = true
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.bossGenerationRepo.Create(ctx, &entity.BossGeneration{
		UserID:      requestUserID,
		Prompt:      prompt,
		RawResponse: raw,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record boss generation: %v", err)
		return nil, false, errorx.Unknown
	}

	boss := &entity.Boss{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        requestUserID,
		Name:          generated.Name,
		Description:   generated.Description,
		TotalHealth:   generated.TotalHealth,
		CurrentHealth: generated.TotalHealth,
		Status:        entity.BossAlive,
	}

	for i, c := range generated.Chores {
		boss.Chores = append(boss.Chores, entity.Chore{
			Base:             entity.Base{ID: uuid.NewString()},
			Title:            c.Title,
			XP:               c.XP,
			Damage:           c.Damage,
			Difficulty:       parseDifficulty(c.Difficulty),
			EstimatedMinutes: c.EstimatedTime,
			Position:         i,
		})
	}

	if err := d.bossRepo.Create(ctx, boss); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create summoned boss: %v", err)
		return nil, false, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return boss, fallback, nil
}

func (d *bossDomain) Resummon(
	ctx context.Context, req *model.ResummonBossRequest,
) (*model.ResummonBossResponse, error) {
	generationID, err := strconv.ParseInt(req.GenerationID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid generation id")
	}

	generation, err := d.bossGenerationRepo.GetByID(ctx, generationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found generation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get generation: %v", err)
		return nil, errorx.Unknown
	}

	if generation.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	boss, _, err := d.summonFromPrompt(ctx, generation.Prompt)
	if err != nil {
		return nil, err
	}

	return &model.ResummonBossResponse{Boss: model.ConvertBoss(boss)}, nil
}

func (d *bossDomain) GetSummonHistory(
	ctx context.Context, req *model.GetSummonHistoryRequest,
) (*model.GetSummonHistoryResponse, error) {
	generations, err := d.bossGenerationRepo.GetListByUserID(
		ctx, xcontext.RequestUserID(ctx), maxSummonHistory)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get summon history: %v", err)
		return nil, errorx.Unknown
	}

	clientGenerations := []model.BossGeneration{}
	for _, g := range generations {
		clientGenerations = append(clientGenerations, model.BossGeneration{
			ID:        strconv.FormatInt(g.ID, 10),
			Prompt:    g.Prompt,
			CreatedAt: g.CreatedAt.Format(model.DefaultTimeLayout),
		})
	}

	return &model.GetSummonHistoryResponse{Generations: clientGenerations}, nil
}

func (d *bossDomain) Get(
	ctx context.Context, req *model.GetBossRequest,
) (*model.GetBossResponse, error) {
	boss, err := d.bossRepo.GetByID(ctx, req.BossID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found boss")
		}

		xcontext.Logger(ctx).Errorf("Cannot get boss: %v", err)
		return nil, errorx.Unknown
	}

	requestUserID := xcontext.RequestUserID(ctx)
	if boss.UserID != requestUserID {
		// Friends can watch each other's battles.
		isFriend, err := d.friendshipRepo.IsFriend(ctx, requestUserID, boss.UserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check friendship: %v", err)
			return nil, errorx.Unknown
		}

		if !isFriend {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	return &model.GetBossResponse{Boss: model.ConvertBoss(boss)}, nil
}

func (d *bossDomain) GetMyList(
	ctx context.Context, req *model.GetMyBossesRequest,
) (*model.GetMyBossesResponse, error) {
	var bosses []entity.Boss
	var err error
	if req.AliveOnly {
		bosses, err = d.bossRepo.GetAliveByUserID(ctx, xcontext.RequestUserID(ctx))
	} else {
		bosses, err = d.bossRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx))
	}
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get bosses: %v", err)
		return nil, errorx.Unknown
	}

	clientBosses := []model.Boss{}
	for i := range bosses {
		clientBosses = append(clientBosses, model.ConvertBoss(&bosses[i]))
	}

	return &model.GetMyBossesResponse{Bosses: clientBosses}, nil
}

func (d *bossDomain) CompleteChore(
	ctx context.Context, req *model.CompleteChoreRequest,
) (*model.CompleteChoreResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)

	chore, err := d.choreRepo.GetByID(ctx, req.ChoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found chore")
		}

		xcontext.Logger(ctx).Errorf("Cannot get chore: %v", err)
		return nil, errorx.Unknown
	}

	if req.BossID != "" && req.BossID != chore.BossID {
		return nil, errorx.New(errorx.NotFound, "Not found chore in this boss")
	}

	boss, err := d.bossRepo.GetByID(ctx, chore.BossID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get boss of chore: %v", err)
		return nil, errorx.Unknown
	}

	if boss.UserID != requestUserID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if boss.Status != entity.BossAlive {
		return nil, errorx.New(errorx.BadRequest, "This boss is already defeated")
	}

	user, err := d.userRepo.GetByID(ctx, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.Level < boss.LevelRequirement {
		return nil, errorx.New(errorx.PermissionDenied,
			"Need level %d to fight this boss", boss.LevelRequirement)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.choreRepo.MarkCompleted(ctx, chore.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "This chore is already completed")
		}

		xcontext.Logger(ctx).Errorf("Cannot complete chore: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.bossRepo.ApplyDamage(ctx, boss.ID, chore.Damage); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply damage: %v", err)
		return nil, errorx.Unknown
	}

	grant, err := d.engine.GrantXP(ctx, requestUserID, chore.XP)
	if err != nil {
		return nil, err
	}

	bossDefeated := boss.CurrentHealth <= chore.Damage
	if bossDefeated {
		if err := d.bossRepo.MarkDefeated(ctx, boss.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark boss defeated: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.userRepo.IncreaseBossesDefeated(ctx, requestUserID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase bosses defeated: %v", err)
			return nil, errorx.Unknown
		}

		grant.User.BossesDefeated++
	}

	updatedBoss, err := d.bossRepo.GetByID(ctx, boss.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload boss: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.afterGrant(ctx, grant, updatedBoss, chore)

	return &model.CompleteChoreResponse{
		User:         model.ConvertUser(grant.User, true),
		Boss:         model.ConvertBoss(updatedBoss),
		XPGained:     chore.XP,
		DamageDealt:  chore.Damage,
		LeveledUp:    grant.LeveledUp,
		BossDefeated: bossDefeated,
	}, nil
}

// afterGrant runs the best-effort side effects of a committed grant.
func (d *bossDomain) afterGrant(
	ctx context.Context, grant *GrantXPResult, boss *entity.Boss, chore *entity.Chore,
) {
	if d.leaderboard != nil {
		err := d.leaderboard.ChangeXP(ctx, grant.User.ID, time.Now(), int64(chore.XP))
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
		}
	}

	if d.notifier == nil {
		return
	}

	d.notifier.Emit(ctx, common.Event{
		Type:   common.XPGrantedEvent,
		UserID: grant.User.ID,
		Data:   map[string]any{"xp": chore.XP, "chore_id": chore.ID},
	})

	if grant.LeveledUp {
		d.notifier.Emit(ctx, common.Event{
			Type:   common.LevelUpEvent,
			UserID: grant.User.ID,
			Data:   map[string]any{"level": grant.User.Level},
		})
	}

	if boss.Status == entity.BossDefeated {
		d.notifier.Emit(ctx, common.Event{
			Type:   common.BossDefeatedEvent,
			UserID: grant.User.ID,
			Data:   map[string]any{"boss_id": boss.ID, "boss_name": boss.Name},
		})
	}
}

func parseDifficulty(s string) entity.ChoreDifficulty {
	difficulty, err := enum.ToEnum[entity.ChoreDifficulty](strings.ToLower(s))
	if err != nil {
		return entity.ChoreMedium
	}

	return difficulty
}
