package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"entry_hashtags", "entries", "case_files", "hashtags", "auth_tokens", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUser(db, "admin", "admin@mail.com", "Admin", "Root", string(hash), true, true)
		seedUser(db, "clerk", "clerk@mail.com", "Claudia", "Reyes", string(hash), true, false)
		seedUser(db, "field", "field@mail.com", "Marco", "Luna", string(hash), false, false)

		hashtags := []string{"urgent", "follow-up", "evidence", "resolved"}
		for _, description := range hashtags {
			var exists int
			if err := db.Raw("SELECT 1 FROM hashtags WHERE description = ?", description).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO hashtags (description, is_active, created_at, updated_at) VALUES (?, true, now(), now())", description).Error; err != nil {
				log.Fatalf("failed to insert hashtag %s: %v", description, err)
			}
			fmt.Println("Seeded hashtag:", description)
		}
	},
}

func seedUser(db *gorm.DB, username, email, firstName, lastName, passwordHash string, isStaff, isSuperuser bool) {
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE username = ?", username).Row().Scan(&exists); err == nil {
		fmt.Println("user already exists:", username)
		return
	}

	err := db.Exec(
		"INSERT INTO users (username, email, password_hash, first_name, last_name, is_active, is_staff, is_superuser, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, ?, ?, now(), now())",
		username, email, passwordHash, firstName, lastName, isStaff, isSuperuser,
	).Error
	if err != nil {
		log.Fatalf("failed to insert user %s: %v", username, err)
	}
	fmt.Println("Seeded user:", username)
}
