package engine

// LevelTier 描述一个等级档位：达到 MinPoints 即进入该档。
type LevelTier struct {
	MinPoints int    `json:"min_points"`
	Name      string `json:"name"`
}

// LevelTiers 是固定升序的等级表，首档从 0 起步，因此任何积分都能匹配到档位。
var LevelTiers = []LevelTier{
	{MinPoints: 0, Name: "Novice"},
	{MinPoints: 100, Name: "Apprentice"},
	{MinPoints: 300, Name: "Practitioner"},
	{MinPoints: 600, Name: "Expert"},
	{MinPoints: 1000, Name: "Master"},
	{MinPoints: 2000, Name: "Grandmaster"},
	{MinPoints: 5000, Name: "Legend"},
}

// LevelForPoints 返回积分对应的等级序号（1 起）。
func LevelForPoints(points int) int {
	level := 1
	for i, tier := range LevelTiers {
		if points >= tier.MinPoints {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// TitleForPoints 返回积分对应档位的称号。
func TitleForPoints(points int) string {
	return LevelTiers[LevelForPoints(points)-1].Name
}

// ProgressToNext 返回当前档位向下一档位的线性进度，取值 [0,1]；已到顶档返回 1。
func ProgressToNext(points int) float64 {
	idx := LevelForPoints(points) - 1
	if idx >= len(LevelTiers)-1 {
		return 1.0
	}

	current := LevelTiers[idx].MinPoints
	next := LevelTiers[idx+1].MinPoints
	return float64(points-current) / float64(next-current)
}
