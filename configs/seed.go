package configs

import (
	"log"

	"backend/entity"

	"golang.org/x/crypto/bcrypt"
)

// first-run admin account
func SeedAdmin(email, pass string) error {
	db := DB()
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      string(entity.RoleAdmin),
	}
	return db.Create(&admin).Error
}

// Seed the closed order-status set. Status rows are a lookup table so
// the state machine never stores free text.
func SeedLookups() error {
	db := DB()

	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusPreOrdered})
	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusServed})
	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusCancelled})
	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusUnavailable})
	db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: entity.StatusNotPickedUp})

	log.Println("lookup tables seeded")
	return nil
}
