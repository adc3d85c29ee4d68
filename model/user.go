package model

// User 用户结构体 (用于登录认证, 目前只有配置文件里的管理员)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt 加密后的密码
	Email    string `json:"email,omitempty"`
}
