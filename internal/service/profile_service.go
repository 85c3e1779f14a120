package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/looptrack/internal/db"
	"github.com/looptrack/internal/engine"
	"gorm.io/gorm"
)

var (
	// ErrAvatarUnknown 在头像不在目录内时返回
	ErrAvatarUnknown = errors.New("unknown avatar")
	// ErrAvatarLocked 在用户等级未达到头像要求时返回
	ErrAvatarLocked = errors.New("avatar requires a higher level")
	// ErrProfileNameRequired 在名字为空时返回
	ErrProfileNameRequired = errors.New("profile name is required")
)

// AvatarOption 描述一个可选头像及解锁所需等级。
type AvatarOption struct {
	Emoji         string `json:"emoji"`
	RequiredLevel int    `json:"required_level"`
}

// AvatarCatalog 是固定的头像目录，高等级头像作为升级奖励逐步解锁。
var AvatarCatalog = []AvatarOption{
	{Emoji: "🦊", RequiredLevel: 0},
	{Emoji: "🐼", RequiredLevel: 0},
	{Emoji: "🦁", RequiredLevel: 5},
	{Emoji: "🐯", RequiredLevel: 10},
	{Emoji: "🐨", RequiredLevel: 15},
	{Emoji: "🐸", RequiredLevel: 20},
	{Emoji: "🦄", RequiredLevel: 30},
	{Emoji: "🐙", RequiredLevel: 50},
}

// ProfileService 负责用户档案的读取与更新。
// 积分/等级/徽章由打卡事务维护，这里只处理名字、头像和引导流程。
type ProfileService struct {
	db     *gorm.DB
	states *StateService
	habits *HabitService
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{
		db:     gdb,
		states: NewStateService(gdb),
		habits: NewHabitService(gdb),
	}
}

// UpdateName 更新用户名字。
func (s *ProfileService) UpdateName(name string) (engine.UserProfile, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return engine.UserProfile{}, ErrProfileNameRequired
	}

	state, err := s.states.Load()
	if err != nil {
		return engine.UserProfile{}, fmt.Errorf("load state: %w", err)
	}

	state.Profile.Name = trimmed
	if err := s.states.Save(state); err != nil {
		return engine.UserProfile{}, fmt.Errorf("save state: %w", err)
	}
	return state.Profile, nil
}

// UpdateAvatar 更新头像，头像必须在目录内且等级达到要求。
func (s *ProfileService) UpdateAvatar(emoji string) (engine.UserProfile, error) {
	option, found := avatarOption(emoji)
	if !found {
		return engine.UserProfile{}, ErrAvatarUnknown
	}

	state, err := s.states.Load()
	if err != nil {
		return engine.UserProfile{}, fmt.Errorf("load state: %w", err)
	}

	if state.Profile.Level < option.RequiredLevel {
		return engine.UserProfile{}, fmt.Errorf("%w: need level %d", ErrAvatarLocked, option.RequiredLevel)
	}

	state.Profile.Avatar = option.Emoji
	if err := s.states.Save(state); err != nil {
		return engine.UserProfile{}, fmt.Errorf("save state: %w", err)
	}
	return state.Profile, nil
}

// CompleteOnboarding 完成引导：写入名字/头像并创建第一个习惯。
func (s *ProfileService) CompleteOnboarding(name, avatar string, firstHabit HabitInput) (engine.UserProfile, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return engine.UserProfile{}, ErrProfileNameRequired
	}

	if avatar != "" {
		if _, found := avatarOption(avatar); !found {
			return engine.UserProfile{}, ErrAvatarUnknown
		}
	}

	if _, err := s.habits.Create(firstHabit); err != nil {
		return engine.UserProfile{}, err
	}

	state, err := s.states.Load()
	if err != nil {
		return engine.UserProfile{}, fmt.Errorf("load state: %w", err)
	}

	state.Profile.Name = trimmed
	if avatar != "" {
		state.Profile.Avatar = avatar
	}
	state.Profile.IsOnboarded = true
	if state.Profile.JoinedDate.IsZero() {
		state.Profile.JoinedDate = time.Now()
	}

	if err := s.states.Save(state); err != nil {
		return engine.UserProfile{}, fmt.Errorf("save state: %w", err)
	}
	return state.Profile, nil
}

// Reset 清空所有用户数据（档案、习惯、日志），用于"重新开始"。
func (s *ProfileService) Reset() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&db.Habit{}).Error; err != nil {
			return fmt.Errorf("reset habits: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&db.DailyLog{}).Error; err != nil {
			return fmt.Errorf("reset daily logs: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&db.UserProfile{}).Error; err != nil {
			return fmt.Errorf("reset profile: %w", err)
		}
		return nil
	})
}

func avatarOption(emoji string) (AvatarOption, bool) {
	for _, option := range AvatarCatalog {
		if option.Emoji == emoji {
			return option, true
		}
	}
	return AvatarOption{}, false
}
