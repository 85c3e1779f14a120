package engine

// Badge 是构建期固定的成就目录条目。
// Condition 是对完整 AppState 的只读谓词，徽章逻辑全部以数据表的形式表达，
// 新增徽章只需增加目录条目，评估器本身不需要改动。
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Condition   func(AppState) bool `json:"-"`
}

// NewlyUnlocked 按目录顺序评估所有尚未解锁的徽章，返回本次新满足的条目。
// 评估器自身无状态且幂等：同一状态调用两次结果相同；
// 合并结果进 UnlockedBadges 由调用方负责，已解锁的徽章不会再次出现。
func NewlyUnlocked(state AppState, catalog []Badge) []Badge {
	var unlocked []Badge
	for _, badge := range catalog {
		if state.Profile.HasBadge(badge.ID) {
			continue
		}
		if badge.Condition != nil && badge.Condition(state) {
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}
