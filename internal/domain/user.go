package domain

import "time"

// User is the domain model for shoppers. The user aggregate owns its favorite
// list: Favorites holds product ids in the order they were added and is always
// persisted wholesale with the user row.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Favorites    []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasFavorite reports whether productID is a member of the favorite list.
func (u *User) HasFavorite(productID string) bool {
	for _, id := range u.Favorites {
		if id == productID {
			return true
		}
	}
	return false
}
