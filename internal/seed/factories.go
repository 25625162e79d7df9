// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"jotter/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateJot constructs and persists a sample `models.Jot` for the given user
// with a realistic created_at spread over the past maxDays days.
func (f *Factory) CreateJot(user *models.User, maxDays int, overrides ...func(*models.Jot)) (*models.Jot, error) {
	if maxDays <= 0 {
		maxDays = 90
	}
	jot := &models.Jot{
		Content: gofakeit.Paragraph(1, 3, 8, "\n"),
		UserID:  user.ID,
	}

	daysBack := f.r.Intn(maxDays)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	jot.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	if f.r.Float32() < 0.3 {
		jot.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(jot)
	}

	if err := f.db.Create(jot).Error; err != nil {
		return nil, err
	}
	return jot, nil
}

// CreateFollow persists a follow edge from `follower` to `following`.
func (f *Factory) CreateFollow(follower, following *models.User) error {
	follow := &models.Follow{
		FollowerID:  follower.ID,
		FollowingID: following.ID,
	}
	return f.db.Create(follow).Error
}

// CreateReaction persists a reaction of the given kind from `user` on `jot`.
func (f *Factory) CreateReaction(user *models.User, jot *models.Jot, kind models.ReactionKind) error {
	reaction := &models.JotReaction{
		JotID:  jot.ID,
		UserID: user.ID,
		Kind:   kind,
	}
	return f.db.Create(reaction).Error
}

// CreateComment constructs and persists a sample `models.JotComment` on the
// provided jot authored by the provided user.
func (f *Factory) CreateComment(user *models.User, jot *models.Jot, overrides ...func(*models.JotComment)) (*models.JotComment, error) {
	comment := &models.JotComment{
		Body:   gofakeit.Sentence(8),
		UserID: user.ID,
		JotID:  jot.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateDiary constructs and persists a sample `models.Diary` for the user.
func (f *Factory) CreateDiary(user *models.User, overrides ...func(*models.Diary)) (*models.Diary, error) {
	diary := &models.Diary{
		Title:       gofakeit.Sentence(3),
		Description: gofakeit.Sentence(12),
		IsPublic:    f.r.Float32() < 0.4,
		UserID:      user.ID,
	}

	for _, override := range overrides {
		override(diary)
	}

	if err := f.db.Create(diary).Error; err != nil {
		return nil, err
	}
	return diary, nil
}

// CreateEntry constructs and persists a sample `models.DiaryEntry` in the
// provided diary, optionally linked to the provided tags.
func (f *Factory) CreateEntry(diary *models.Diary, tags []models.Tag, overrides ...func(*models.DiaryEntry)) (*models.DiaryEntry, error) {
	moods := []string{"calm", "reflective", "restless", "content", "hopeful", ""}
	entry := &models.DiaryEntry{
		Title:   gofakeit.Sentence(4),
		Body:    gofakeit.Paragraph(2, 4, 10, "\n\n"),
		Mood:    moods[f.r.Intn(len(moods))],
		DiaryID: diary.ID,
		UserID:  diary.UserID,
	}

	for _, override := range overrides {
		override(entry)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(entry).Error; err != nil {
			return err
		}
		for _, tag := range tags {
			link := models.DiaryEntryTag{EntryID: entry.ID, TagID: tag.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateTag finds or creates a tag with the given name for the user.
func (f *Factory) CreateTag(user *models.User, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name, UserID: user.ID}
	if err := f.db.Where(models.Tag{Name: name, UserID: user.ID}).FirstOrCreate(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateStory constructs and persists a sample `models.Story` for the user.
// Roughly a third of generated stories are already expired so feeds and
// owner views exercise both states.
func (f *Factory) CreateStory(user *models.User, overrides ...func(*models.Story)) (*models.Story, error) {
	story := &models.Story{
		Caption:  gofakeit.Sentence(5),
		MediaURL: fmt.Sprintf("https://picsum.photos/seed/%s/1080/1920", gofakeit.UUID()),
		UserID:   user.ID,
	}

	if f.r.Float32() < 0.33 {
		story.CreatedAt = time.Now().Add(-30 * time.Hour)
		story.ExpiresAt = story.CreatedAt.Add(models.StoryLifetime)
	} else {
		hoursBack := time.Duration(f.r.Intn(20)) * time.Hour
		story.CreatedAt = time.Now().Add(-hoursBack)
		story.ExpiresAt = story.CreatedAt.Add(models.StoryLifetime)
	}

	for _, override := range overrides {
		override(story)
	}

	if err := f.db.Create(story).Error; err != nil {
		return nil, err
	}
	return story, nil
}

// CreateStoryView persists a view of `story` by `viewer`.
func (f *Factory) CreateStoryView(viewer *models.User, story *models.Story) error {
	view := &models.StoryView{
		StoryID:  story.ID,
		ViewerID: viewer.ID,
	}
	return f.db.Create(view).Error
}

// CreateTrackerEntry persists an emotion tracker row for the user on the
// given day.
func (f *Factory) CreateTrackerEntry(user *models.User, emotion *models.Emotion, day time.Time, overrides ...func(*models.EmotionTracker)) (*models.EmotionTracker, error) {
	entry := &models.EmotionTracker{
		UserID:    user.ID,
		EmotionID: emotion.ID,
		Date:      models.TrackerDay(day),
		Note:      gofakeit.Sentence(6),
	}

	for _, override := range overrides {
		override(entry)
	}

	if err := f.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}
