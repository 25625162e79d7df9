package seed

import (
	"testing"

	"jotter/internal/database"
	"jotter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestEmotionsSeedIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:seeddb?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	require.NoError(t, Emotions(db))

	var count int64
	require.NoError(t, db.Model(&models.Emotion{}).Count(&count).Error)
	assert.Greater(t, count, int64(0))

	// Re-running must not duplicate or error on the unique slug index.
	require.NoError(t, Emotions(db))

	var again int64
	require.NoError(t, db.Model(&models.Emotion{}).Count(&again).Error)
	assert.Equal(t, count, again)

	var calm models.Emotion
	require.NoError(t, db.Where("slug = ?", "calm").First(&calm).Error)
	assert.Equal(t, "Calm", calm.Name)
}
