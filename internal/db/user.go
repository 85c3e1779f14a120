package db

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 是登录账号。个人应用只有一个管理员，由启动配置引导创建。
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// EnsureUser 引导管理员账号：用户名与密码均非空且账号不存在时，
// 以 bcrypt 哈希创建；已存在的账号不改动密码。
func EnsureUser(username, password string) error {
	name := strings.TrimSpace(username)
	secret := strings.TrimSpace(password)
	if name == "" || secret == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var count int64
	if err := DB.Model(&User{}).Where("username = ?", name).Count(&count).Error; err != nil {
		return fmt.Errorf("check user %s: %w", name, err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := DB.Create(&User{Username: name, Password: string(hashed)}).Error; err != nil {
		return fmt.Errorf("create user %s: %w", name, err)
	}
	return nil
}
