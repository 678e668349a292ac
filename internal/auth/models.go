package auth

import "time"

type Customer struct {
	ID        string
	Name      string
	Email     string
	Status    string
	CreatedAt time.Time
}
