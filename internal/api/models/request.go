package models

// LoginRequest represents authentication login request
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// VerifyTokenRequest carries a token for introspection
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// CheckRoleRequest lists the roles a bearer token is checked against
type CheckRoleRequest struct {
	Roles []string `json:"roles" binding:"required,min=1" example:"ADMIN,TEACHER"`
}

// UserCreateRequest represents user creation request
type UserCreateRequest struct {
	Username    string  `json:"username" binding:"required,max=50" example:"teacher1"`
	Password    string  `json:"password" binding:"required,min=8" example:"securepass123"`
	DisplayName string  `json:"display_name" binding:"required,max=100" example:"Jane Doe"`
	Role        string  `json:"role" binding:"required" example:"TEACHER"`
	AuxID       *uint64 `json:"aux_id,omitempty" example:"1001"`
}

// UserListQuery holds the filters accepted when listing users
type UserListQuery struct {
	Role   string `form:"role"`
	Limit  int    `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}
