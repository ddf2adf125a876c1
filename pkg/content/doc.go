// Package content declares the kennel site's content types.
//
// Each content type is addressed by a UID of the form
// "api::<name>.<name>" and each controller operation on it by an action
// identifier "<uid>.<op>", e.g. "api::puppy.puppy.findOne". The public
// role is granted PublicActions at startup by pkg/seed.
//
// # Content Types
//
//   - Puppy, Stud, Testimonial, HeroSlide: collection types
//   - SiteSettings, AboutPage: single types
//   - AboutPage.featuredPuppies: ordered relation to Puppy
//
// Roles and permissions live in the same store under the
// "plugin::users-permissions" UIDs.
package content
