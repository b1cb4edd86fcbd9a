package domain

// User is a dashboard operator. Only the fields the sale engine needs are
// modeled here; role/permission management is owned elsewhere.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	AuditFields
}
