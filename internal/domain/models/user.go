package models

// User представляет покупателя
type User struct {
	ID       int64
	Username string
	Email    string
	PassHash []byte
	FullName string
	Address  string
	IsAdmin  bool
}
