package seed

import (
	"context"
	"fmt"

	"github.com/smokinadorabulls/kennel-cms/pkg/audit"
	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// FeaturedPuppiesField is the about page relation to Puppy
const FeaturedPuppiesField = "featuredPuppies"

// FeaturedRefs returns references to the first n puppies. Each uses the
// stable document ID when the store assigned one, the raw ID otherwise.
func FeaturedRefs(puppies []document.Document, n int) []document.Ref {
	if n > len(puppies) {
		n = len(puppies)
	}
	if n <= 0 {
		return nil
	}
	refs := make([]document.Ref, 0, n)
	for _, puppy := range puppies[:n] {
		refs = append(refs, puppy.Ref())
	}
	return refs
}

func (p *Provisioner) provisionAboutPage(ctx context.Context, result *Result) error {
	puppies, err := p.store.FindMany(ctx, content.PuppyUID, nil)
	if err != nil {
		return fmt.Errorf("list puppies: %w", err)
	}
	refs := FeaturedRefs(puppies, p.featuredCount)
	result.FeaturedPuppies = refs

	existing, err := p.store.FindFirst(ctx, content.AboutPageUID, nil)
	if err != nil {
		return fmt.Errorf("check %s: %w", content.AboutPageUID, err)
	}

	if existing == nil {
		data, err := document.FieldsOf(p.dataset.AboutPage)
		if err != nil {
			return err
		}
		if len(refs) > 0 {
			data[FeaturedPuppiesField] = document.Relation{Set: refs}
		}
		if _, err := p.store.Create(ctx, content.AboutPageUID, document.CreateParams{
			Data:   data,
			Status: document.StatusPublished,
		}); err != nil {
			return fmt.Errorf("create %s: %w", content.AboutPageUID, err)
		}

		result.Seeded[content.AboutPageUID] = 1
		result.AboutPage = AboutPageCreated
		p.logger.Info("Seeded about page", "featured", len(refs))
		p.audit(audit.SeedEvent{Collection: content.AboutPageUID, Count: 1})
		return nil
	}

	if len(refs) == 0 || len(existing.Refs(FeaturedPuppiesField)) > 0 {
		return nil
	}

	if _, err := p.store.Update(ctx, content.AboutPageUID, document.UpdateParams{
		ID:         existing.ID,
		DocumentID: existing.DocumentID,
		Data:       document.Fields{FeaturedPuppiesField: document.Relation{Set: refs}},
		Status:     document.StatusPublished,
	}); err != nil {
		return fmt.Errorf("update %s: %w", content.AboutPageUID, err)
	}

	result.AboutPage = AboutPagePatched
	p.logger.Info("Seeded featured puppies on about page")
	p.audit(audit.SeedPatchEvent{
		Collection: content.AboutPageUID,
		DocumentID: existing.Ref().String(),
		Field:      FeaturedPuppiesField,
		Count:      len(refs),
	})
	return nil
}
