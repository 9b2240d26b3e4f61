package users

import "time"

// User is keyed by the applicant's social security number, the natural key
// every lookup uses. Applications is an ordered set of application ids.
type User struct {
	ID                   string    `json:"user_id"`
	FullName             string    `json:"full_name"`
	SocialSecurityNumber string    `json:"socialSecurityNumber"`
	Applications         []string  `json:"applications"`
	CreatedAt            time.Time `json:"created_at"`
}

// Summary is the cheap listing projection: identity and counts only.
type Summary struct {
	ID                   string    `json:"user_id"`
	FullName             string    `json:"full_name"`
	SocialSecurityNumber string    `json:"socialSecurityNumber"`
	ApplicationCount     int       `json:"application_count"`
	CreatedAt            time.Time `json:"created_at"`
}
