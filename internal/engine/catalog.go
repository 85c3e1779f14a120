package engine

// DefaultBadgeCatalog 是内置的成就目录。
// early_bird / night_owl 依据 DailyLog.CompletedAt 记录的真实完成时间评估，
// 描述与条件保持一致，不使用积分阈值做代理。
var DefaultBadgeCatalog = []Badge{
	{
		ID:          "first_step",
		Name:        "First Step",
		Description: "完成第一次习惯打卡。",
		Icon:        "🌱",
		Color:       "#34C759",
		Condition: func(state AppState) bool {
			for _, log := range state.Logs {
				if len(log.CompletedHabitIDs) > 0 {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "hat_trick",
		Name:        "Hat Trick",
		Description: "单日完成 3 个习惯。",
		Icon:        "🎩",
		Color:       "#007AFF",
		Condition: func(state AppState) bool {
			for _, log := range state.Logs {
				if len(log.CompletedHabitIDs) >= 3 {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "on_fire",
		Name:        "On Fire",
		Description: "任意习惯达到 3 天连胜。",
		Icon:        "🔥",
		Color:       "#FF9500",
		Condition:   anyStreakAtLeast(3),
	},
	{
		ID:          "unstoppable",
		Name:        "Unstoppable",
		Description: "任意习惯达到 7 天连胜。",
		Icon:        "🚀",
		Color:       "#FF2D55",
		Condition:   anyStreakAtLeast(7),
	},
	{
		ID:          "early_bird",
		Name:        "Early Bird",
		Description: "在早上 8 点前完成一次习惯。",
		Icon:        "🌅",
		Color:       "#FFCC00",
		Condition: func(state AppState) bool {
			for _, log := range state.Logs {
				for _, at := range log.CompletedAt {
					if at.Hour() < 8 {
						return true
					}
				}
			}
			return false
		},
	},
	{
		ID:          "night_owl",
		Name:        "Night Owl",
		Description: "在晚上 10 点后完成一次习惯。",
		Icon:        "🦉",
		Color:       "#5856D6",
		Condition: func(state AppState) bool {
			for _, log := range state.Logs {
				for _, at := range log.CompletedAt {
					if at.Hour() >= 22 {
						return true
					}
				}
			}
			return false
		},
	},
	{
		ID:          "centurion",
		Name:        "Centurion",
		Description: "累计获得 100 XP。",
		Icon:        "💯",
		Color:       "#AF52DE",
		Condition: func(state AppState) bool {
			return state.Profile.Points >= 100
		},
	},
	{
		ID:          "master",
		Name:        "Habit Master",
		Description: "达到 5 级。",
		Icon:        "👑",
		Color:       "#FFD60A",
		Condition: func(state AppState) bool {
			return state.Profile.Level >= 5
		},
	},
}

// anyStreakAtLeast 构造"任意习惯当前连胜不低于 n"的谓词，以今天为基准评估。
func anyStreakAtLeast(n int) func(AppState) bool {
	return func(state AppState) bool {
		today := Today(nil)
		for _, habit := range state.Habits {
			if CurrentStreak(state.Logs, habit, today) >= n {
				return true
			}
		}
		return false
	}
}
