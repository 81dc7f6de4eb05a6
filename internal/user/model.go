package user

import "time"

type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	CreatedAtHumanised string    `json:"created_at_humanised"`
	CreatedAt          time.Time `json:"created_at"`
}
