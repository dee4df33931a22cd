package db_models

type AccountRole string

const (
	RoleUser  AccountRole = "user"
	RoleAdmin AccountRole = "admin"
)

type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountBanned AccountStatus = "banned"
)

type Account struct {
	BaseModel
	Name         string
	Email        string        `gorm:"uniqueIndex;size:255"`
	PasswordHash string        `json:"-"`
	Role         AccountRole   `gorm:"type:varchar(16);default:'user';index"`
	Status       AccountStatus `gorm:"type:varchar(16);default:'active';index"`
	Avatar       string

	Itineraries []Itinerary
	Reviews     []Review
}
