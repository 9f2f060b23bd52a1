package models

type Account struct {
	ID      int64 `json:"id" db:"id"`
	UserID  int64 `json:"user_id" db:"user_id"`
	Balance Money `json:"balance" db:"balance"`
}
