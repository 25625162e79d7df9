package seed

import (
	_ "embed"
	"fmt"

	"jotter/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed emotions.yml
var emotionsYAML []byte

type emotionCatalog struct {
	Emotions []struct {
		Slug  string `yaml:"slug"`
		Name  string `yaml:"name"`
		Icon  string `yaml:"icon"`
		Color string `yaml:"color"`
	} `yaml:"emotions"`
}

// Emotions loads the embedded emotion catalog into the database.
// Existing slugs are left untouched so the call is safe to repeat on
// every startup or seed run.
func Emotions(db *gorm.DB) error {
	var catalog emotionCatalog
	if err := yaml.Unmarshal(emotionsYAML, &catalog); err != nil {
		return fmt.Errorf("parse emotion catalog: %w", err)
	}

	for _, e := range catalog.Emotions {
		emotion := models.Emotion{Slug: e.Slug}
		err := db.Where(models.Emotion{Slug: e.Slug}).
			Attrs(models.Emotion{Name: e.Name, Icon: e.Icon, Color: e.Color}).
			FirstOrCreate(&emotion).Error
		if err != nil {
			return fmt.Errorf("seed emotion %q: %w", e.Slug, err)
		}
	}
	return nil
}
