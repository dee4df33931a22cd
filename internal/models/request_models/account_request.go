package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=50"`
	Avatar *string `json:"avatar" binding:"omitempty,url"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active banned"`
}
