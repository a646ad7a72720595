package domain

import "time"

type Profile struct {
	ID                  string
	FullName            string
	Email               string
	PasswordHash        string // argon2 encoded
	ProfileImageURL     string
	IsActive            bool
	ActivationTokenHash string // fingerprint of the token mailed at registration
	ActivatedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PublicProfile is what leaves the service. It never carries the password
// hash or the activation token.
type PublicProfile struct {
	ID              string
	FullName        string
	Email           string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p Profile) Public() PublicProfile {
	return PublicProfile{
		ID:              p.ID,
		FullName:        p.FullName,
		Email:           p.Email,
		ProfileImageURL: p.ProfileImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
