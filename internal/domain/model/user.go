package model

// 使用者角色
// buyer: 一般買家, seller: 賣家, admin: 系統管理員
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Actor 呼叫者身份
// 所有core操作都要顯式帶入, core內部不再查詢身份資料
type Actor struct {
	UserID uint
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns 檢查資源擁有權
func (a Actor) Owns(ownerID uint) bool {
	return a.UserID == ownerID
}

type User struct {
	BaseModel
	UserID      uint    `gorm:"primaryKey" json:"user_id"`
	UserName    string  `gorm:"not null;type:varchar(50)" json:"user_name"`
	UserEmail   string  `gorm:"unique;not null;type:varchar(50)" json:"user_email"`
	UserPhone   string  `gorm:"unique;not null;type:varchar(50)" json:"user_phone"`
	UserAddress string  `gorm:"not null;type:varchar(255)" json:"user_address"`
	Role        Role    `gorm:"not null;type:varchar(20);default:'buyer'" json:"role"`
	Orders      []Order `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 一對多，級聯刪除
	Carts       []Cart  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 級聯刪除，實際上限制一人一車
}
