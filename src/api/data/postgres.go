package data

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustPostgres(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	return db
}
