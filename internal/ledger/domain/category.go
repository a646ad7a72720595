package domain

import "time"

type Category struct {
	ID        string
	ProfileID string
	Name      string
	Icon      string
	Type      Kind
	CreatedAt time.Time
	UpdatedAt time.Time
}
