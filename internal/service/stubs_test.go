package service

import (
	"context"
	"time"

	"jotter/internal/media"
	"jotter/internal/models"
)

// Function-field stubs for the repository interfaces. Only the fields a test
// sets are callable; the noop constructors fill in inert defaults.

type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	updateFn     func(context.Context, uint, map[string]any) (*models.User, error)
	deleteFn     func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, updates map[string]any) (*models.User, error) {
	return s.updateFn(ctx, id, updates)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, id uint, _ map[string]any) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		deleteFn: func(context.Context, uint) error { return nil },
	}
}

type followRepoStub struct {
	followFn        func(context.Context, uint, uint) error
	unfollowFn      func(context.Context, uint, uint) error
	existsFn        func(context.Context, uint, uint) (bool, error)
	listFollowersFn func(context.Context, uint, int, int) ([]models.User, int64, error)
	listFollowingFn func(context.Context, uint, int, int) ([]models.User, int64, error)
	followedIDsFn   func(context.Context, uint) ([]uint, error)
}

func (s *followRepoStub) Follow(ctx context.Context, followerID, followingID uint) error {
	return s.followFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, followerID, followingID uint) error {
	return s.unfollowFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	return s.listFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	return s.listFollowingFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) FollowedIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followedIDsFn(ctx, followerID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:   func(context.Context, uint, uint) error { return nil },
		unfollowFn: func(context.Context, uint, uint) error { return nil },
		existsFn:   func(context.Context, uint, uint) (bool, error) { return false, nil },
		listFollowersFn: func(context.Context, uint, int, int) ([]models.User, int64, error) {
			return nil, 0, nil
		},
		listFollowingFn: func(context.Context, uint, int, int) ([]models.User, int64, error) {
			return nil, 0, nil
		},
		followedIDsFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
	}
}

type jotRepoStub struct {
	createFn        func(context.Context, *models.Jot) error
	getByIDFn       func(context.Context, uint, uint) (*models.Jot, error)
	listFeedFn      func(context.Context, uint, int, int) ([]*models.Jot, int64, error)
	listByUserFn    func(context.Context, uint, int, int, uint) ([]*models.Jot, int64, error)
	deleteFn        func(context.Context, uint) error
	getReactionFn   func(context.Context, uint, uint) (*models.JotReaction, error)
	reactFn         func(context.Context, *models.JotReaction) error
	unreactFn       func(context.Context, uint, uint) error
	listReactionsFn func(context.Context, uint) ([]*models.JotReaction, error)
}

func (s *jotRepoStub) Create(ctx context.Context, jot *models.Jot) error {
	return s.createFn(ctx, jot)
}
func (s *jotRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Jot, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *jotRepoStub) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Jot, int64, error) {
	return s.listFeedFn(ctx, userID, limit, offset)
}
func (s *jotRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Jot, int64, error) {
	return s.listByUserFn(ctx, userID, limit, offset, currentUserID)
}
func (s *jotRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *jotRepoStub) GetReaction(ctx context.Context, jotID, userID uint) (*models.JotReaction, error) {
	return s.getReactionFn(ctx, jotID, userID)
}
func (s *jotRepoStub) React(ctx context.Context, reaction *models.JotReaction) error {
	return s.reactFn(ctx, reaction)
}
func (s *jotRepoStub) Unreact(ctx context.Context, jotID, userID uint) error {
	return s.unreactFn(ctx, jotID, userID)
}
func (s *jotRepoStub) ListReactions(ctx context.Context, jotID uint) ([]*models.JotReaction, error) {
	return s.listReactionsFn(ctx, jotID)
}

func noopJotRepo() *jotRepoStub {
	return &jotRepoStub{
		createFn: func(context.Context, *models.Jot) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Jot, error) {
			return &models.Jot{ID: id, UserID: 99}, nil
		},
		listFeedFn: func(context.Context, uint, int, int) ([]*models.Jot, int64, error) {
			return nil, 0, nil
		},
		listByUserFn: func(context.Context, uint, int, int, uint) ([]*models.Jot, int64, error) {
			return nil, 0, nil
		},
		deleteFn:      func(context.Context, uint) error { return nil },
		getReactionFn: func(context.Context, uint, uint) (*models.JotReaction, error) { return nil, nil },
		reactFn:       func(context.Context, *models.JotReaction) error { return nil },
		unreactFn:     func(context.Context, uint, uint) error { return nil },
		listReactionsFn: func(context.Context, uint) ([]*models.JotReaction, error) {
			return nil, nil
		},
	}
}

type commentRepoStub struct {
	createFn    func(context.Context, *models.JotComment) error
	getByIDFn   func(context.Context, uint) (*models.JotComment, error)
	listByJotFn func(context.Context, uint, int, int) ([]*models.JotComment, int64, error)
	deleteFn    func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.JotComment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.JotComment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByJot(ctx context.Context, jotID uint, limit, offset int) ([]*models.JotComment, int64, error) {
	return s.listByJotFn(ctx, jotID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(context.Context, *models.JotComment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.JotComment, error) {
			return &models.JotComment{ID: id}, nil
		},
		listByJotFn: func(context.Context, uint, int, int) ([]*models.JotComment, int64, error) {
			return nil, 0, nil
		},
		deleteFn: func(context.Context, uint) error { return nil },
	}
}

type storyRepoStub struct {
	createFn         func(context.Context, *models.Story) error
	getByIDFn        func(context.Context, uint) (*models.Story, error)
	listByUserFn     func(context.Context, uint) ([]*models.Story, error)
	listActiveFeedFn func(context.Context, uint, time.Time) ([]*models.Story, error)
	deleteFn         func(context.Context, uint) error
	recordViewFn     func(context.Context, uint, uint) (bool, error)
	listViewsFn      func(context.Context, uint, int, int) ([]*models.StoryView, int64, error)
}

func (s *storyRepoStub) Create(ctx context.Context, story *models.Story) error {
	return s.createFn(ctx, story)
}
func (s *storyRepoStub) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	return s.getByIDFn(ctx, id)
}
func (s *storyRepoStub) ListByUser(ctx context.Context, userID uint) ([]*models.Story, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *storyRepoStub) ListActiveFeed(ctx context.Context, userID uint, now time.Time) ([]*models.Story, error) {
	return s.listActiveFeedFn(ctx, userID, now)
}
func (s *storyRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *storyRepoStub) RecordView(ctx context.Context, storyID, viewerID uint) (bool, error) {
	return s.recordViewFn(ctx, storyID, viewerID)
}
func (s *storyRepoStub) ListViews(ctx context.Context, storyID uint, limit, offset int) ([]*models.StoryView, int64, error) {
	return s.listViewsFn(ctx, storyID, limit, offset)
}
func noopStoryRepo() *storyRepoStub {
	return &storyRepoStub{
		createFn: func(context.Context, *models.Story) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Story, error) {
			return &models.Story{ID: id}, nil
		},
		listByUserFn: func(context.Context, uint) ([]*models.Story, error) { return nil, nil },
		listActiveFeedFn: func(context.Context, uint, time.Time) ([]*models.Story, error) {
			return nil, nil
		},
		deleteFn:     func(context.Context, uint) error { return nil },
		recordViewFn: func(context.Context, uint, uint) (bool, error) { return true, nil },
		listViewsFn: func(context.Context, uint, int, int) ([]*models.StoryView, int64, error) {
			return nil, 0, nil
		},
	}
}

type diaryRepoStub struct {
	createDiaryFn       func(context.Context, *models.Diary) error
	getDiaryByIDFn      func(context.Context, uint) (*models.Diary, error)
	listDiariesByUserFn func(context.Context, uint, bool, int, int) ([]*models.Diary, int64, error)
	listPublicDiariesFn func(context.Context, int, int) ([]*models.Diary, int64, error)
	updateDiaryFn       func(context.Context, uint, map[string]any) error
	deleteDiaryFn       func(context.Context, uint) error
	createEntryFn       func(context.Context, *models.DiaryEntry, []string) error
	getEntryByIDFn      func(context.Context, uint) (*models.DiaryEntry, error)
	listEntriesFn       func(context.Context, uint, int, int) ([]*models.DiaryEntry, int64, error)
	updateEntryFn       func(context.Context, *models.DiaryEntry, map[string]any, *[]string) error
	deleteEntryFn       func(context.Context, uint) error
	listTagsByUserFn    func(context.Context, uint) ([]*models.Tag, error)
	listEntriesByTagFn  func(context.Context, uint, uint, int, int) ([]*models.DiaryEntry, int64, error)
}

func (s *diaryRepoStub) CreateDiary(ctx context.Context, diary *models.Diary) error {
	return s.createDiaryFn(ctx, diary)
}
func (s *diaryRepoStub) GetDiaryByID(ctx context.Context, id uint) (*models.Diary, error) {
	return s.getDiaryByIDFn(ctx, id)
}
func (s *diaryRepoStub) ListDiariesByUser(ctx context.Context, userID uint, publicOnly bool, limit, offset int) ([]*models.Diary, int64, error) {
	return s.listDiariesByUserFn(ctx, userID, publicOnly, limit, offset)
}
func (s *diaryRepoStub) ListPublicDiaries(ctx context.Context, limit, offset int) ([]*models.Diary, int64, error) {
	return s.listPublicDiariesFn(ctx, limit, offset)
}
func (s *diaryRepoStub) UpdateDiary(ctx context.Context, id uint, updates map[string]any) error {
	return s.updateDiaryFn(ctx, id, updates)
}
func (s *diaryRepoStub) DeleteDiary(ctx context.Context, id uint) error {
	return s.deleteDiaryFn(ctx, id)
}
func (s *diaryRepoStub) CreateEntry(ctx context.Context, entry *models.DiaryEntry, tagNames []string) error {
	return s.createEntryFn(ctx, entry, tagNames)
}
func (s *diaryRepoStub) GetEntryByID(ctx context.Context, id uint) (*models.DiaryEntry, error) {
	return s.getEntryByIDFn(ctx, id)
}
func (s *diaryRepoStub) ListEntries(ctx context.Context, diaryID uint, limit, offset int) ([]*models.DiaryEntry, int64, error) {
	return s.listEntriesFn(ctx, diaryID, limit, offset)
}
func (s *diaryRepoStub) UpdateEntry(ctx context.Context, entry *models.DiaryEntry, updates map[string]any, tagNames *[]string) error {
	return s.updateEntryFn(ctx, entry, updates, tagNames)
}
func (s *diaryRepoStub) DeleteEntry(ctx context.Context, id uint) error {
	return s.deleteEntryFn(ctx, id)
}
func (s *diaryRepoStub) ListTagsByUser(ctx context.Context, userID uint) ([]*models.Tag, error) {
	return s.listTagsByUserFn(ctx, userID)
}
func (s *diaryRepoStub) ListEntriesByTag(ctx context.Context, userID, tagID uint, limit, offset int) ([]*models.DiaryEntry, int64, error) {
	return s.listEntriesByTagFn(ctx, userID, tagID, limit, offset)
}

func noopDiaryRepo() *diaryRepoStub {
	return &diaryRepoStub{
		createDiaryFn: func(context.Context, *models.Diary) error { return nil },
		getDiaryByIDFn: func(_ context.Context, id uint) (*models.Diary, error) {
			return &models.Diary{ID: id, UserID: 1}, nil
		},
		listDiariesByUserFn: func(context.Context, uint, bool, int, int) ([]*models.Diary, int64, error) {
			return nil, 0, nil
		},
		listPublicDiariesFn: func(context.Context, int, int) ([]*models.Diary, int64, error) {
			return nil, 0, nil
		},
		updateDiaryFn: func(context.Context, uint, map[string]any) error { return nil },
		deleteDiaryFn: func(context.Context, uint) error { return nil },
		createEntryFn: func(context.Context, *models.DiaryEntry, []string) error { return nil },
		getEntryByIDFn: func(_ context.Context, id uint) (*models.DiaryEntry, error) {
			return &models.DiaryEntry{ID: id, UserID: 1}, nil
		},
		listEntriesFn: func(context.Context, uint, int, int) ([]*models.DiaryEntry, int64, error) {
			return nil, 0, nil
		},
		updateEntryFn: func(context.Context, *models.DiaryEntry, map[string]any, *[]string) error {
			return nil
		},
		deleteEntryFn:    func(context.Context, uint) error { return nil },
		listTagsByUserFn: func(context.Context, uint) ([]*models.Tag, error) { return nil, nil },
		listEntriesByTagFn: func(context.Context, uint, uint, int, int) ([]*models.DiaryEntry, int64, error) {
			return nil, 0, nil
		},
	}
}

type emotionRepoStub struct {
	createFn           func(context.Context, *models.Emotion) error
	getByIDFn          func(context.Context, uint) (*models.Emotion, error)
	getBySlugFn        func(context.Context, string) (*models.Emotion, error)
	listFn             func(context.Context) ([]*models.Emotion, error)
	updateFn           func(context.Context, uint, map[string]any) error
	deleteFn           func(context.Context, uint) error
	countTrackerRefsFn func(context.Context, uint) (int64, error)
	trackFn            func(context.Context, uint, uint, time.Time, string) (*models.EmotionTracker, error)
	historyFn          func(context.Context, uint, time.Time, time.Time, int, int) ([]*models.EmotionTracker, int64, error)
}

func (s *emotionRepoStub) Create(ctx context.Context, emotion *models.Emotion) error {
	return s.createFn(ctx, emotion)
}
func (s *emotionRepoStub) GetByID(ctx context.Context, id uint) (*models.Emotion, error) {
	return s.getByIDFn(ctx, id)
}
func (s *emotionRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Emotion, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *emotionRepoStub) List(ctx context.Context) ([]*models.Emotion, error) {
	return s.listFn(ctx)
}
func (s *emotionRepoStub) Update(ctx context.Context, id uint, updates map[string]any) error {
	return s.updateFn(ctx, id, updates)
}
func (s *emotionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *emotionRepoStub) CountTrackerRefs(ctx context.Context, emotionID uint) (int64, error) {
	return s.countTrackerRefsFn(ctx, emotionID)
}
func (s *emotionRepoStub) Track(ctx context.Context, userID, emotionID uint, day time.Time, note string) (*models.EmotionTracker, error) {
	return s.trackFn(ctx, userID, emotionID, day, note)
}
func (s *emotionRepoStub) History(ctx context.Context, userID uint, from, to time.Time, limit, offset int) ([]*models.EmotionTracker, int64, error) {
	return s.historyFn(ctx, userID, from, to, limit, offset)
}

func noopEmotionRepo() *emotionRepoStub {
	return &emotionRepoStub{
		createFn: func(context.Context, *models.Emotion) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Emotion, error) {
			return &models.Emotion{ID: id, Slug: "calm", Name: "Calm"}, nil
		},
		getBySlugFn:        func(context.Context, string) (*models.Emotion, error) { return nil, nil },
		listFn:             func(context.Context) ([]*models.Emotion, error) { return nil, nil },
		updateFn:           func(context.Context, uint, map[string]any) error { return nil },
		deleteFn:           func(context.Context, uint) error { return nil },
		countTrackerRefsFn: func(context.Context, uint) (int64, error) { return 0, nil },
		trackFn: func(_ context.Context, userID, emotionID uint, day time.Time, note string) (*models.EmotionTracker, error) {
			return &models.EmotionTracker{UserID: userID, EmotionID: emotionID, Date: day, Note: note}, nil
		},
		historyFn: func(context.Context, uint, time.Time, time.Time, int, int) ([]*models.EmotionTracker, int64, error) {
			return nil, 0, nil
		},
	}
}

type notificationRepoStub struct {
	createFn           func(context.Context, *models.Notification) error
	listByRecipientFn  func(context.Context, uint, bool, int, int) ([]*models.Notification, int64, error)
	unreadCountFn      func(context.Context, uint) (int64, error)
	markReadFn         func(context.Context, uint, uint) error
	markAllReadFn      func(context.Context, uint) (int64, error)
	registerFCMTokenFn func(context.Context, *models.FCMToken) error
	removeFCMTokenFn   func(context.Context, uint, string) error
	listFCMTokensFn    func(context.Context, uint) ([]*models.FCMToken, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	return s.createFn(ctx, notification)
}
func (s *notificationRepoStub) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, int64, error) {
	return s.listByRecipientFn(ctx, recipientID, unreadOnly, limit, offset)
}
func (s *notificationRepoStub) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.unreadCountFn(ctx, recipientID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, recipientID, id uint) error {
	return s.markReadFn(ctx, recipientID, id)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.markAllReadFn(ctx, recipientID)
}
func (s *notificationRepoStub) RegisterFCMToken(ctx context.Context, token *models.FCMToken) error {
	return s.registerFCMTokenFn(ctx, token)
}
func (s *notificationRepoStub) RemoveFCMToken(ctx context.Context, userID uint, token string) error {
	return s.removeFCMTokenFn(ctx, userID, token)
}
func (s *notificationRepoStub) ListFCMTokens(ctx context.Context, userID uint) ([]*models.FCMToken, error) {
	return s.listFCMTokensFn(ctx, userID)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn: func(context.Context, *models.Notification) error { return nil },
		listByRecipientFn: func(context.Context, uint, bool, int, int) ([]*models.Notification, int64, error) {
			return nil, 0, nil
		},
		unreadCountFn:      func(context.Context, uint) (int64, error) { return 0, nil },
		markReadFn:         func(context.Context, uint, uint) error { return nil },
		markAllReadFn:      func(context.Context, uint) (int64, error) { return 0, nil },
		registerFCMTokenFn: func(context.Context, *models.FCMToken) error { return nil },
		removeFCMTokenFn:   func(context.Context, uint, string) error { return nil },
		listFCMTokensFn:    func(context.Context, uint) ([]*models.FCMToken, error) { return nil, nil },
	}
}

func noopNotifications() *NotificationService {
	return NewNotificationService(noopNotificationRepo(), nil)
}

// fakeMediaStore records uploads and deletions in memory.
type fakeMediaStore struct {
	uploads  []string
	deletes  []string
	uploadFn func(folder string) (*media.Asset, error)
}

func (s *fakeMediaStore) Upload(_ context.Context, _ []byte, _ string, folder string) (*media.Asset, error) {
	if s.uploadFn != nil {
		return s.uploadFn(folder)
	}
	s.uploads = append(s.uploads, folder)
	return &media.Asset{URL: "/uploads/" + folder + "/fake.webp", PublicID: folder + "/fake.webp"}, nil
}

func (s *fakeMediaStore) Delete(_ context.Context, publicID string) error {
	s.deletes = append(s.deletes, publicID)
	return nil
}
