package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/looptrack/internal/service"
)

// GetProfile 返回用户档案。
func (a *API) GetProfile(c *gin.Context) {
	state, err := a.tracker.State()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载档案失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profileView(state.Profile),
		"avatars": service.AvatarCatalog,
	})
}

// UpdateProfileName 更新用户名字。
func (a *API) UpdateProfileName(c *gin.Context) {
	var payload struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	profile, err := a.profiles.UpdateName(payload.Name)
	if err != nil {
		if errors.Is(err, service.ErrProfileNameRequired) {
			respondError(c, http.StatusBadRequest, "请填写名字")
			return
		}
		respondError(c, http.StatusInternalServerError, "更新名字失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileView(profile)})
}

// UpdateProfileAvatar 更新头像，等级不足或头像未知时拒绝。
func (a *API) UpdateProfileAvatar(c *gin.Context) {
	var payload struct {
		Avatar string `json:"avatar"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	profile, err := a.profiles.UpdateAvatar(payload.Avatar)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarUnknown):
			respondError(c, http.StatusBadRequest, "头像不在可选范围内")
		case errors.Is(err, service.ErrAvatarLocked):
			respondError(c, http.StatusForbidden, "等级不足，头像尚未解锁")
		default:
			respondError(c, http.StatusInternalServerError, "更新头像失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileView(profile)})
}

type onboardingRequest struct {
	Name       string       `json:"name"`
	Avatar     string       `json:"avatar"`
	FirstHabit habitPayload `json:"first_habit"`
}

// CompleteOnboarding 完成引导流程：写入名字/头像并创建第一个习惯。
func (a *API) CompleteOnboarding(c *gin.Context) {
	var payload onboardingRequest
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	profile, err := a.profiles.CompleteOnboarding(payload.Name, payload.Avatar, payload.FirstHabit.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNameRequired):
			respondError(c, http.StatusBadRequest, "请填写名字")
		case errors.Is(err, service.ErrAvatarUnknown):
			respondError(c, http.StatusBadRequest, "头像不在可选范围内")
		case errors.Is(err, service.ErrHabitTitleRequired),
			errors.Is(err, service.ErrHabitInvalidFrequency),
			errors.Is(err, service.ErrHabitInvalidCategory),
			errors.Is(err, service.ErrHabitInvalidReminder):
			handleHabitError(c, err)
		default:
			respondError(c, http.StatusInternalServerError, "完成引导失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileView(profile)})
}

// ResetData 清空全部用户数据，重新开始。
func (a *API) ResetData(c *gin.Context) {
	if err := a.profiles.Reset(); err != nil {
		respondError(c, http.StatusInternalServerError, "重置数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset": true})
}
