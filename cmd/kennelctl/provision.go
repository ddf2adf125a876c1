package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/smokinadorabulls/kennel-cms/pkg/audit"
	"github.com/smokinadorabulls/kennel-cms/pkg/config"
	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
	"github.com/smokinadorabulls/kennel-cms/pkg/seed"
)

// loadDataset reads the seed data from dir, or the built-in data when
// dir is empty
func loadDataset(dir string) (*seed.Dataset, error) {
	if dir == "" {
		return seed.DefaultDataset()
	}
	return seed.LoadDatasetDir(dir)
}

// provision runs the startup provisioner against store
func provision(ctx context.Context, store document.Store, ds *seed.Dataset, cfg *config.KennelConfig, logger *slog.Logger) (*seed.Result, error) {
	p := seed.New(store, ds).
		WithLogger(logger).
		WithPublicRoleType(cfg.PublicRoleType).
		WithFeaturedCount(cfg.FeaturedPuppies)
	if audit.IsEnabled() {
		p = p.WithAudit(audit.Func(audit.Log))
	}
	return p.Provision(ctx)
}

// bootstrapRoles creates the default roles the migrations would create,
// for stores that don't run migrations
func bootstrapRoles(ctx context.Context, store document.Store) error {
	for _, roleType := range []string{content.RolePublic, content.RoleAuthenticated} {
		existing, err := seed.FindRole(ctx, store, roleType)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		_, err = store.Create(ctx, content.RoleUID, document.CreateParams{
			Data: document.Fields{"name": roleType, "type": roleType},
		})
		if err != nil {
			return fmt.Errorf("create role %s: %w", roleType, err)
		}
	}
	return nil
}

func printResult(w io.Writer, result *seed.Result) {
	if !result.PublicRoleFound {
		fmt.Fprintln(w, "Permissions: skipped (public role not found)")
	} else {
		fmt.Fprintf(w, "Permissions: %d granted\n", len(result.Granted))
		for _, action := range result.Granted {
			fmt.Fprintf(w, "  + %s\n", action)
		}
	}

	uids := make([]string, 0, len(result.Seeded))
	for uid := range result.Seeded {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	if len(uids) == 0 {
		fmt.Fprintln(w, "Content: nothing to seed")
	} else {
		fmt.Fprintln(w, "Content:")
		for _, uid := range uids {
			fmt.Fprintf(w, "  %-40s %d\n", uid, result.Seeded[uid])
		}
	}

	fmt.Fprintf(w, "About page: %s (%d featured puppies)\n", result.AboutPage, len(result.FeaturedPuppies))
}
