package converter

import (
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/dto"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
)

func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
