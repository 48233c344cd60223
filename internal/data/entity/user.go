package entity

type User struct {
	Base
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	FullName     string `db:"full_name"`
	Role         string `db:"role"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
