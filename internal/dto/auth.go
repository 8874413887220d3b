package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// TokenResponse Token 响应
type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	ExpiresIn   int               `json:"expires_in"` // Access Token 有效期（秒）
	User        AdminUserResponse `json:"user"`
}

// AdminUserResponse 后台账号信息响应（脱敏）
type AdminUserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
