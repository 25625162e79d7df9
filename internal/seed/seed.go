package seed

import (
	"fmt"
	"log"
	"time"

	"jotter/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumJots     int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d jots...", opts.NumUsers, opts.NumJots)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := Emotions(db); err != nil {
		return fmt.Errorf("failed to seed emotion catalog: %w", err)
	}

	f := NewFactory(db)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	if err := createFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Println("✓ follow mesh created")

	jots, err := createJots(f, users, opts.NumJots)
	if err != nil {
		return fmt.Errorf("failed to create jots: %w", err)
	}
	log.Printf("✓ %d jots created", len(jots))

	if err := createEngagement(f, users, jots); err != nil {
		return fmt.Errorf("failed to create reactions and comments: %w", err)
	}
	log.Println("✓ reactions and comments created")

	if err := createDiaries(f, users); err != nil {
		return fmt.Errorf("failed to create diaries: %w", err)
	}
	log.Println("✓ diaries and entries created")

	if err := createStories(f, users); err != nil {
		return fmt.Errorf("failed to create stories: %w", err)
	}
	log.Println("✓ stories created")

	if err := createTrackers(f, db, users); err != nil {
		return fmt.Errorf("failed to create emotion trackers: %w", err)
	}
	log.Println("✓ emotion trackers created")

	// Seeded child rows bypass the repositories, so recompute the
	// denormalized counters from the actual tables.
	if err := recountCaches(db); err != nil {
		return fmt.Errorf("failed to recount caches: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE story_views, stories, emotion_trackers, diary_entry_tags, tags, diary_entries, diaries, jot_comments, jot_reactions, jots, follows, notifications, fcm_tokens, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a few known accounts so developers can log in.
	if count >= 3 {
		for _, name := range []string{"ava", "finn", "test"} {
			n := name
			user, err := f.CreateUser(func(u *models.User) {
				u.Username = n
				u.Email = fmt.Sprintf("%s@example.com", n)
				u.Bio = "One of the OGs."
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

func createFollowMesh(f *Factory, users []*models.User) error {
	for _, follower := range users {
		// each user follows roughly a third of the others
		for _, following := range users {
			if follower.ID == following.ID {
				continue
			}
			if f.r.Float32() < 0.33 {
				if err := f.CreateFollow(follower, following); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func createJots(f *Factory, users []*models.User, count int) ([]*models.Jot, error) {
	jots := make([]*models.Jot, 0, count)
	for i := 0; i < count; i++ {
		user := users[f.r.Intn(len(users))]
		jot, err := f.CreateJot(user, 90)
		if err != nil {
			return nil, err
		}
		jots = append(jots, jot)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d jots...", i)
		}
	}
	return jots, nil
}

func createEngagement(f *Factory, users []*models.User, jots []*models.Jot) error {
	kinds := []models.ReactionKind{
		models.ReactionLike, models.ReactionLove,
		models.ReactionInsightful, models.ReactionCelebrate,
	}
	for _, jot := range jots {
		for _, user := range users {
			if user.ID == jot.UserID {
				continue
			}
			if f.r.Float32() < 0.25 {
				kind := kinds[f.r.Intn(len(kinds))]
				if err := f.CreateReaction(user, jot, kind); err != nil {
					return err
				}
			}
			if f.r.Float32() < 0.1 {
				if _, err := f.CreateComment(user, jot); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func createDiaries(f *Factory, users []*models.User) error {
	tagNames := []string{"gratitude", "work", "family", "travel", "health", "dreams", "reading"}

	for _, user := range users {
		numDiaries := 1 + f.r.Intn(2)
		for i := 0; i < numDiaries; i++ {
			diary, err := f.CreateDiary(user)
			if err != nil {
				return err
			}

			numEntries := 1 + f.r.Intn(4)
			for j := 0; j < numEntries; j++ {
				var tags []models.Tag
				numTags := f.r.Intn(3)
				for k := 0; k < numTags; k++ {
					tag, err := f.CreateTag(user, tagNames[f.r.Intn(len(tagNames))])
					if err != nil {
						return err
					}
					tags = appendTagOnce(tags, *tag)
				}
				if _, err := f.CreateEntry(diary, tags); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// appendTagOnce guards the unique (entry, tag) join pair when the random
// picker selects the same tag name twice.
func appendTagOnce(tags []models.Tag, tag models.Tag) []models.Tag {
	for _, t := range tags {
		if t.ID == tag.ID {
			return tags
		}
	}
	return append(tags, tag)
}

func createStories(f *Factory, users []*models.User) error {
	for _, user := range users {
		if f.r.Float32() < 0.5 {
			continue
		}
		story, err := f.CreateStory(user)
		if err != nil {
			return err
		}
		for _, viewer := range users {
			if viewer.ID == user.ID {
				continue
			}
			if f.r.Float32() < 0.3 {
				if err := f.CreateStoryView(viewer, story); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func createTrackers(f *Factory, db *gorm.DB, users []*models.User) error {
	var emotions []models.Emotion
	if err := db.Find(&emotions).Error; err != nil {
		return err
	}
	if len(emotions) == 0 {
		return nil
	}

	for _, user := range users {
		daysBack := 5 + f.r.Intn(10)
		for d := 0; d < daysBack; d++ {
			if f.r.Float32() < 0.3 {
				continue // skipped days are normal
			}
			emotion := emotions[f.r.Intn(len(emotions))]
			day := time.Now().AddDate(0, 0, -d)
			if _, err := f.CreateTrackerEntry(user, &emotion, day); err != nil {
				return err
			}
		}
	}
	return nil
}

func recountCaches(db *gorm.DB) error {
	statements := []string{
		`UPDATE users SET followers_count = (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id)`,
		`UPDATE users SET following_count = (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id)`,
		`UPDATE jots SET reactions_count = (SELECT COUNT(*) FROM jot_reactions WHERE jot_reactions.jot_id = jots.id)`,
		`UPDATE jots SET comments_count = (SELECT COUNT(*) FROM jot_comments WHERE jot_comments.jot_id = jots.id AND jot_comments.deleted_at IS NULL)`,
		`UPDATE stories SET views_count = (SELECT COUNT(*) FROM story_views WHERE story_views.story_id = stories.id)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
