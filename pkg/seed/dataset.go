package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// ErrDataset is returned when seed data can't be read or decoded
var ErrDataset = errors.New("invalid seed dataset")

//go:embed data/*.yaml
var embedded embed.FS

// Dataset file names. A data directory override uses the same names.
const (
	PermissionsFile  = "permissions.yaml"
	PuppiesFile      = "puppies.yaml"
	StudsFile        = "studs.yaml"
	TestimonialsFile = "testimonials.yaml"
	HeroSlidesFile   = "hero_slides.yaml"
	SiteSettingsFile = "site_settings.yaml"
	AboutPageFile    = "about_page.yaml"
)

// Feature is a selling point listed on a puppy
type Feature struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Puppy is a puppy listing
type Puppy struct {
	Name        string    `yaml:"name" json:"name"`
	Breed       string    `yaml:"breed" json:"breed"`
	Age         string    `yaml:"age" json:"age"`
	Gender      string    `yaml:"gender" json:"gender"`
	Color       string    `yaml:"color" json:"color"`
	Price       int       `yaml:"price" json:"price"`
	Available   bool      `yaml:"available" json:"available"`
	Description string    `yaml:"description" json:"description"`
	Tagline     string    `yaml:"tagline" json:"tagline"`
	Features    []Feature `yaml:"features" json:"features"`
}

// Stud is a stud dog listing
type Stud struct {
	Name         string   `yaml:"name" json:"name"`
	Breed        string   `yaml:"breed" json:"breed"`
	Age          string   `yaml:"age" json:"age"`
	Color        string   `yaml:"color" json:"color"`
	Weight       string   `yaml:"weight" json:"weight"`
	Height       string   `yaml:"height" json:"height"`
	Description  string   `yaml:"description" json:"description"`
	Achievements []string `yaml:"achievements" json:"achievements"`
}

// Testimonial is a customer quote
type Testimonial struct {
	Name     string `yaml:"name" json:"name"`
	Quote    string `yaml:"quote" json:"quote"`
	Location string `yaml:"location" json:"location"`
}

// HeroSlide is a homepage carousel slide. ImageURL names the asset an
// operator has to upload through the admin; it is never stored.
type HeroSlide struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Order    int    `yaml:"order" json:"order"`
	ImageURL string `yaml:"imageUrl" json:"-"`
}

// Hours is one line of the business hours block
type Hours struct {
	Days  string `yaml:"days" json:"days"`
	Hours string `yaml:"hours" json:"hours"`
}

// BusinessHours groups the opening hours shown in the site footer
type BusinessHours struct {
	Weekdays Hours `yaml:"weekdays" json:"weekdays"`
	Saturday Hours `yaml:"saturday" json:"saturday"`
	Sunday   Hours `yaml:"sunday" json:"sunday"`
}

// SiteSettings is the contact block singleton
type SiteSettings struct {
	Address       string        `yaml:"address" json:"address"`
	Phone         string        `yaml:"phone" json:"phone"`
	Email         string        `yaml:"email" json:"email"`
	BusinessHours BusinessHours `yaml:"businessHours" json:"businessHours"`
	MapEmbedURL   string        `yaml:"mapEmbedUrl" json:"mapEmbedUrl"`
}

// AboutPage is the about page singleton without its featured puppies,
// which are linked after puppies are seeded
type AboutPage struct {
	Title             string `yaml:"title" json:"title"`
	Subtitle          string `yaml:"subtitle" json:"subtitle"`
	StoryTitle        string `yaml:"storyTitle" json:"storyTitle"`
	StoryContent      string `yaml:"storyContent" json:"storyContent"`
	PhilosophyTitle   string `yaml:"philosophyTitle" json:"philosophyTitle"`
	PhilosophyContent string `yaml:"philosophyContent" json:"philosophyContent"`
}

// Dataset holds every default record the provisioner can create
type Dataset struct {
	PublicActions []string
	Puppies       []Puppy
	Studs         []Stud
	Testimonials  []Testimonial
	HeroSlides    []HeroSlide
	SiteSettings  SiteSettings
	AboutPage     AboutPage
}

// DefaultDataset returns the dataset compiled into the binary
func DefaultDataset() (*Dataset, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}
	return LoadDataset(sub)
}

// LoadDatasetDir reads a dataset from dir. Files missing from dir fall
// back to the compiled-in defaults.
func LoadDatasetDir(dir string) (*Dataset, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDataset, dir)
	}
	return LoadDataset(os.DirFS(dir))
}

// LoadDataset reads every dataset file from fsys. Unknown keys are
// rejected so that typos in operator-supplied files surface at startup.
func LoadDataset(fsys fs.FS) (*Dataset, error) {
	var (
		ds          Dataset
		permissions struct {
			PublicActions []string `yaml:"public_actions"`
		}
		puppies struct {
			FeatureSets map[string][]Feature `yaml:"feature_sets"`
			Puppies     []Puppy              `yaml:"puppies"`
		}
		studs struct {
			Studs []Stud `yaml:"studs"`
		}
		testimonials struct {
			Testimonials []Testimonial `yaml:"testimonials"`
		}
		heroSlides struct {
			HeroSlides []HeroSlide `yaml:"hero_slides"`
		}
		siteSettings struct {
			SiteSettings SiteSettings `yaml:"site_settings"`
		}
		aboutPage struct {
			AboutPage AboutPage `yaml:"about_page"`
		}
	)

	files := []struct {
		name string
		out  interface{}
	}{
		{PermissionsFile, &permissions},
		{PuppiesFile, &puppies},
		{StudsFile, &studs},
		{TestimonialsFile, &testimonials},
		{HeroSlidesFile, &heroSlides},
		{SiteSettingsFile, &siteSettings},
		{AboutPageFile, &aboutPage},
	}
	for _, f := range files {
		if err := decodeFile(fsys, f.name, f.out); err != nil {
			return nil, err
		}
	}

	ds.PublicActions = permissions.PublicActions
	ds.Puppies = puppies.Puppies
	ds.Studs = studs.Studs
	ds.Testimonials = testimonials.Testimonials
	ds.HeroSlides = heroSlides.HeroSlides
	ds.SiteSettings = siteSettings.SiteSettings
	ds.AboutPage = aboutPage.AboutPage
	return &ds, nil
}

func decodeFile(fsys fs.FS, name string, out interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		raw, err = embedded.ReadFile("data/" + name)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDataset, name, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDataset, name, err)
	}
	return nil
}

// PuppyRecords returns the puppy listings as document fields
func (d *Dataset) PuppyRecords() ([]document.Fields, error) {
	return records(d.Puppies)
}

// StudRecords returns the stud listings as document fields
func (d *Dataset) StudRecords() ([]document.Fields, error) {
	return records(d.Studs)
}

// TestimonialRecords returns the testimonials as document fields
func (d *Dataset) TestimonialRecords() ([]document.Fields, error) {
	return records(d.Testimonials)
}

// HeroSlideRecords returns the hero slides as document fields, without
// their image file names
func (d *Dataset) HeroSlideRecords() ([]document.Fields, error) {
	return records(d.HeroSlides)
}

func records[T any](items []T) ([]document.Fields, error) {
	out := make([]document.Fields, 0, len(items))
	for i := range items {
		fields, err := document.FieldsOf(items[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, fields)
	}
	return out, nil
}
