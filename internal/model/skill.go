package model

type Skill struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Endorsements int    `json:"endorsements"`
}
