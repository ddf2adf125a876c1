package seed

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokinadorabulls/kennel-cms/pkg/content"
)

func TestDefaultDataset(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)

	assert.Equal(t, content.PublicActions, ds.PublicActions)
	assert.Len(t, ds.Puppies, 6)
	assert.Len(t, ds.Studs, 4)
	assert.Len(t, ds.Testimonials, 3)
	assert.Len(t, ds.HeroSlides, 4)

	for _, puppy := range ds.Puppies {
		assert.Equal(t, "French Bulldog", puppy.Breed, puppy.Name)
		assert.Len(t, puppy.Features, 8, puppy.Name)
	}
	assert.Equal(t, "Luna", ds.Puppies[0].Name)
	assert.Equal(t, 4500, ds.Puppies[0].Price)
	assert.False(t, ds.Puppies[2].Available, "Bella is reserved")

	assert.Equal(t, "King Arthur", ds.Studs[0].Name)
	assert.Len(t, ds.Studs[0].Achievements, 5)

	assert.Equal(t, "frenchbulldoghero.png", ds.HeroSlides[0].ImageURL)
	assert.Equal(t, 4, ds.HeroSlides[3].Order)

	assert.Equal(t, "info@smokinadorabulls.com", ds.SiteSettings.Email)
	assert.Equal(t, "By appointment only", ds.SiteSettings.BusinessHours.Sunday.Hours)

	assert.Equal(t, "About Smokin Adorabulls", ds.AboutPage.Title)
	assert.Contains(t, ds.AboutPage.StoryContent, "\n\n")
}

func TestHeroSlideRecordsDropImage(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)

	records, err := ds.HeroSlideRecords()
	require.NoError(t, err)
	require.Len(t, records, 4)
	for _, rec := range records {
		assert.NotContains(t, rec, "imageUrl")
		assert.Contains(t, rec, "order")
	}
}

func TestLoadDatasetFallsBackPerFile(t *testing.T) {
	fsys := fstest.MapFS{
		StudsFile: &fstest.MapFile{Data: []byte(`
studs:
  - name: Rex
    breed: English Bulldog
    achievements: [Good boy]
`)},
	}

	ds, err := LoadDataset(fsys)
	require.NoError(t, err)
	require.Len(t, ds.Studs, 1)
	assert.Equal(t, "Rex", ds.Studs[0].Name)
	assert.Len(t, ds.Puppies, 6, "puppies come from the built-in file")
}

func TestLoadDatasetRejectsUnknownKeys(t *testing.T) {
	fsys := fstest.MapFS{
		PuppiesFile: &fstest.MapFile{Data: []byte(`
puppies:
  - name: Luna
    colour: Fawn
`)},
	}

	_, err := LoadDataset(fsys)
	assert.ErrorIs(t, err, ErrDataset)
	assert.Contains(t, err.Error(), PuppiesFile)
}

func TestLoadDatasetInvalidYAML(t *testing.T) {
	fsys := fstest.MapFS{
		AboutPageFile: &fstest.MapFile{Data: []byte("about_page: [unterminated")},
	}

	_, err := LoadDataset(fsys)
	assert.ErrorIs(t, err, ErrDataset)
}

func TestLoadDatasetDir(t *testing.T) {
	_, err := LoadDatasetDir("/does/not/exist")
	assert.ErrorIs(t, err, ErrDataset)

	ds, err := LoadDatasetDir(t.TempDir())
	require.NoError(t, err)
	assert.Len(t, ds.Testimonials, 3)
}
