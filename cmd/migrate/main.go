package main

import (
	"flag"
	"log"
	"strings"

	"github.com/smoker-app/backend/internal/config"
	"github.com/smoker-app/backend/internal/database"
	"github.com/smoker-app/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	seed := flag.Bool("seed", false, "seed demo data after migrating")
	backfillLikes := flag.Bool("backfill-likes", false, "fold legacy liked_by arrays into comment_likes rows")
	flag.Parse()

	log.Println("Starting migration...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connected successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	log.Println("Schema migrated")

	if *backfillLikes {
		if err := backfillLegacyLikes(db); err != nil {
			log.Fatalf("Failed to backfill legacy likes: %v", err)
		}
		log.Println("Legacy likes backfilled")
	}

	if *seed {
		if err := seedDemoData(db); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		log.Println("Demo data seeded")
	}

	log.Println("Migration complete")
}

// backfillLegacyLikes converts pre-migration liked_by text[] entries into
// comment_likes rows. Rows already present are left alone, so the
// backfill can be re-run safely.
func backfillLegacyLikes(db *gorm.DB) error {
	var comments []domain.Comment
	if err := db.Where("legacy_liked_by IS NOT NULL").Find(&comments).Error; err != nil {
		return err
	}

	migrated := 0
	for _, comment := range comments {
		for _, likerID := range comment.LegacyLikedBy {
			key := strings.ToLower(strings.TrimSpace(likerID))
			if key == "" {
				continue
			}
			like := domain.CommentLike{
				CommentID: comment.ID,
				LikerKey:  key,
				LikerKind: "personal",
			}
			if err := db.Where("comment_id = ? AND liker_key = ?", comment.ID, key).
				FirstOrCreate(&like).Error; err != nil {
				return err
			}
			migrated++
		}
	}
	log.Printf("Processed %d comments, %d legacy like entries", len(comments), migrated)
	return nil
}

func seedDemoData(db *gorm.DB) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	owner := domain.User{
		Username:     "demo_owner",
		Email:        "owner@example.com",
		PasswordHash: string(passwordHash),
		DisplayName:  "Demo Owner",
		Role:         domain.RoleMember,
		IsActive:     true,
	}
	if err := db.Where("username = ?", owner.Username).FirstOrCreate(&owner).Error; err != nil {
		return err
	}

	page := domain.EntityAccount{
		OwnerID: owner.ID,
		Name:    "Demo Bar",
		Role:    domain.EntityPage,
	}
	if err := db.Where("owner_id = ? AND name = ?", owner.ID, page.Name).FirstOrCreate(&page).Error; err != nil {
		return err
	}

	post := domain.Post{
		AuthorID: owner.ID,
		Content:  "Live music this Friday. Who's coming?",
		Tags:     []string{"live-music", "friday"},
	}
	if err := db.Where("author_id = ? AND content = ?", owner.ID, post.Content).FirstOrCreate(&post).Error; err != nil {
		return err
	}

	return nil
}
