package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/smokinadorabulls/kennel-cms/pkg/audit"
	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// DefaultFeaturedCount is how many puppies the about page features
const DefaultFeaturedCount = 3

// Auditor receives an event for every change the provisioner makes
type Auditor interface {
	Log(event audit.Event)
}

// AboutPageOutcome reports what the provisioner did with the about page
type AboutPageOutcome string

const (
	AboutPageUnchanged AboutPageOutcome = "unchanged"
	AboutPageCreated   AboutPageOutcome = "created"
	AboutPagePatched   AboutPageOutcome = "patched"
)

// Result summarizes a provisioning run
type Result struct {
	// PublicRoleFound is false when the permission backfill was skipped
	PublicRoleFound bool
	// Granted lists the actions newly granted to the public role
	Granted []string
	// Seeded maps a content type UID to the number of documents created
	Seeded map[string]int
	// FeaturedPuppies are the references offered to the about page
	FeaturedPuppies []document.Ref
	AboutPage       AboutPageOutcome
}

// Provisioner brings a store to its baseline state: public read
// permissions and default site content. Running it again is a no-op.
type Provisioner struct {
	store          document.Store
	dataset        *Dataset
	logger         *slog.Logger
	auditor        Auditor
	publicRoleType string
	featuredCount  int
}

// New creates a provisioner seeding store from dataset
func New(store document.Store, dataset *Dataset) *Provisioner {
	return &Provisioner{
		store:          store,
		dataset:        dataset,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		publicRoleType: content.RolePublic,
		featuredCount:  DefaultFeaturedCount,
	}
}

// WithLogger sets the logger for progress lines
func (p *Provisioner) WithLogger(logger *slog.Logger) *Provisioner {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// WithAudit sets where audit events go
func (p *Provisioner) WithAudit(a Auditor) *Provisioner {
	p.auditor = a
	return p
}

// WithPublicRoleType overrides the type of the role that receives the
// public actions
func (p *Provisioner) WithPublicRoleType(roleType string) *Provisioner {
	if roleType != "" {
		p.publicRoleType = roleType
	}
	return p
}

// WithFeaturedCount sets how many puppies the about page features
func (p *Provisioner) WithFeaturedCount(n int) *Provisioner {
	if n >= 0 {
		p.featuredCount = n
	}
	return p
}

// Provision runs every step in order. The first failing step aborts the
// run; steps already done stay done.
func (p *Provisioner) Provision(ctx context.Context) (*Result, error) {
	result := &Result{
		Seeded:    map[string]int{},
		AboutPage: AboutPageUnchanged,
	}

	if err := p.provisionPermissions(ctx, result); err != nil {
		return result, fmt.Errorf("permissions: %w", err)
	}

	puppies, err := p.dataset.PuppyRecords()
	if err != nil {
		return result, fmt.Errorf("puppies: %w", err)
	}
	if err := p.seedCollection(ctx, result, content.PuppyUID, puppies, ""); err != nil {
		return result, fmt.Errorf("puppies: %w", err)
	}

	studs, err := p.dataset.StudRecords()
	if err != nil {
		return result, fmt.Errorf("studs: %w", err)
	}
	if err := p.seedCollection(ctx, result, content.StudUID, studs, ""); err != nil {
		return result, fmt.Errorf("studs: %w", err)
	}

	testimonials, err := p.dataset.TestimonialRecords()
	if err != nil {
		return result, fmt.Errorf("testimonials: %w", err)
	}
	if err := p.seedCollection(ctx, result, content.TestimonialUID, testimonials, ""); err != nil {
		return result, fmt.Errorf("testimonials: %w", err)
	}

	slides, err := p.dataset.HeroSlideRecords()
	if err != nil {
		return result, fmt.Errorf("hero slides: %w", err)
	}
	if err := p.seedCollection(ctx, result, content.HeroSlideUID, slides, "images must be uploaded via admin"); err != nil {
		return result, fmt.Errorf("hero slides: %w", err)
	}

	if err := p.seedSiteSettings(ctx, result); err != nil {
		return result, fmt.Errorf("site settings: %w", err)
	}

	if err := p.provisionAboutPage(ctx, result); err != nil {
		return result, fmt.Errorf("about page: %w", err)
	}

	return result, nil
}

func (p *Provisioner) provisionPermissions(ctx context.Context, result *Result) error {
	role, err := FindRole(ctx, p.store, p.publicRoleType)
	if err != nil {
		return err
	}
	if role == nil {
		p.logger.Warn("Role not found, skipping permission backfill", "role", p.publicRoleType)
		p.audit(audit.SeedSkipEvent{Step: "permissions", Reason: fmt.Sprintf("role %q not found", p.publicRoleType)})
		return nil
	}
	result.PublicRoleFound = true

	granted, err := EnsurePermissions(ctx, p.store, role, p.dataset.PublicActions)
	if err != nil {
		return err
	}
	result.Granted = granted
	for _, action := range granted {
		p.audit(audit.PermissionGrantEvent{RoleType: p.publicRoleType, RoleID: role.ID, Action: action})
	}
	if len(granted) > 0 {
		p.logger.Info(fmt.Sprintf("Granted %d permission(s) to %s role", len(granted), p.publicRoleType))
	}
	return nil
}

func (p *Provisioner) seedCollection(ctx context.Context, result *Result, uid string, records []document.Fields, note string) error {
	if uid == content.HeroSlideUID {
		for _, slide := range p.dataset.HeroSlides {
			if slide.ImageURL != "" {
				p.logger.Debug("Hero slide image must be uploaded", "order", slide.Order, "image", slide.ImageURL)
			}
		}
	}

	created, err := EnsureCollection(ctx, p.store, uid, records)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		return nil
	}

	result.Seeded[uid] = len(created)
	msg := fmt.Sprintf("Seeded %d %s", len(created), content.PluralName(uid))
	if note != "" {
		msg += " (" + note + ")"
	}
	p.logger.Info(msg)
	p.audit(audit.SeedEvent{Collection: uid, Count: len(created)})
	return nil
}

func (p *Provisioner) seedSiteSettings(ctx context.Context, result *Result) error {
	data, err := document.FieldsOf(p.dataset.SiteSettings)
	if err != nil {
		return err
	}
	doc, err := EnsureSingleton(ctx, p.store, content.SiteSettingsUID, data)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	result.Seeded[content.SiteSettingsUID] = 1
	p.logger.Info("Seeded site settings")
	p.audit(audit.SeedEvent{Collection: content.SiteSettingsUID, Count: 1})
	return nil
}

func (p *Provisioner) audit(event audit.Event) {
	if p.auditor != nil {
		p.auditor.Log(event)
	}
}
