package database

import (
	"log"

	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/utils/auth"
)

// SeedAdmin provisions the bootstrap admin account from environment
// credentials. An existing account with the same username is left untouched,
// so rotating ADMIN_PASSWORD requires an out-of-band reset.
func (s *GORMStore) SeedAdmin(username, password string) error {
	if username == "" || password == "" {
		log.Println("Admin bootstrap credentials not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := s.db.Model(&model.Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.Admin{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin account %q", username)
	return nil
}
