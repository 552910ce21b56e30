package employee

import "time"

type Role string

const (
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

type Employee struct {
	ID           string
	OrgID        string
	Code         string
	FullName     string
	Timezone     string // IANA name, e.g. "Asia/Seoul"
	Role         Role
	PasswordHash *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
