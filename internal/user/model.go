package user

import "time"

type User struct {
	ID                 string
	Name               string
	Email              string
	Password           string
	Resume             string
	IsAdmin            bool
	CreatedAt          time.Time
	CreatedAtHumanised string
}

func (u User) HasResume() bool {
	return u.Resume != ""
}
