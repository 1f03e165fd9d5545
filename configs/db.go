package configs

import (
	"backend/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(dsn string) {
	// TranslateError turns sqlite unique violations into
	// gorm.ErrDuplicatedKey, which the admission path relies on
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {

	// Migrate the schema
	db.AutoMigrate(
		&entity.User{}, &entity.Group{},
		&entity.OrderStatus{},
		&entity.DailyMenu{},
		&entity.Order{},
		&entity.ConsumptionRecord{},
	)
}
