package main

import (
	"fmt"
	"log"

	"github.com/looptrack/internal/config"
	"github.com/looptrack/internal/db"
	"github.com/looptrack/internal/engine"
	"github.com/looptrack/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器：创建管理员账号、一组示例习惯和最近 30 天的打卡记录。
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	createDemoUser()

	habits, err := createDemoHabits()
	if err != nil {
		log.Fatal("创建示例习惯失败:", err)
	}

	if err := backfillDemoLogs(habits); err != nil {
		log.Fatal("回填打卡记录失败:", err)
	}

	fmt.Println("演示数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
	fmt.Printf("习惯: %d 个，含最近 30 天打卡\n", len(habits))
}

func createDemoUser() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	db.DB.Create(&db.User{Username: "admin", Password: string(hashedPassword)})
}

func createDemoHabits() ([]string, error) {
	svc := service.NewHabitService(db.DB)

	existing, err := svc.List()
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		fmt.Println("习惯已存在，跳过创建")
		ids := make([]string, 0, len(existing))
		for _, habit := range existing {
			ids = append(ids, habit.ID)
		}
		return ids, nil
	}

	inputs := []service.HabitInput{
		{Title: "晨跑", Description: "每次 5 公里", Icon: "🏃", Color: "#FF9500", Category: "Health", Frequency: []int{1, 3, 5}, ReminderTime: "07:00"},
		{Title: "喝水", Icon: "💧", Color: "#007AFF", Category: "Health", Frequency: []int{0, 1, 2, 3, 4, 5, 6}},
		{Title: "读书", Description: "睡前 30 分钟", Icon: "📖", Color: "#34C759", Category: "Study", Frequency: []int{0, 1, 2, 3, 4, 5, 6}, ReminderTime: "21:30"},
		{Title: "记账", Icon: "💰", Color: "#FFCC00", Category: "Finance", Frequency: []int{0, 6}},
		{Title: "冥想", Icon: "🧘", Color: "#AF52DE", Category: "Mindfulness", Frequency: []int{1, 2, 3, 4, 5}},
	}

	ids := make([]string, 0, len(inputs))
	for _, input := range inputs {
		habit, err := svc.Create(input)
		if err != nil {
			return nil, err
		}
		ids = append(ids, habit.ID)
	}
	return ids, nil
}

// backfillDemoLogs 通过打卡事务回填最近 30 天的记录，
// 积分、连胜和徽章由引擎按正常路径结算。
func backfillDemoLogs(habitIDs []string) error {
	tracker := service.NewTrackerService(db.DB)
	today := engine.Today(nil)

	for offset := 29; offset >= 0; offset-- {
		day := today.AddDays(-offset)
		for index, habitID := range habitIDs {
			if !shouldComplete(day, index) {
				continue
			}
			if _, _, err := tracker.Toggle(habitID, day); err != nil {
				return err
			}
		}
		if _, err := tracker.SetSleep(day, demoSleepHours(day)); err != nil {
			return err
		}
	}
	return nil
}

// shouldComplete 给出确定性的完成模式：大部分日子完成，周期性留出缺口，
// 让连胜统计和徽章评估有真实的断档可看。
func shouldComplete(day engine.Day, index int) bool {
	seed := int(day.Time().Unix()/86400) + index*3
	return seed%5 != 0
}

func demoSleepHours(day engine.Day) float64 {
	seed := int(day.Time().Unix()/86400) % 4
	return 6.5 + float64(seed)*0.5
}
