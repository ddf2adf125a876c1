package content

import (
	"strings"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// Content type UIDs
const (
	RoleUID       = "plugin::users-permissions.role"
	PermissionUID = "plugin::users-permissions.permission"

	PuppyUID        = "api::puppy.puppy"
	StudUID         = "api::stud.stud"
	TestimonialUID  = "api::testimonial.testimonial"
	HeroSlideUID    = "api::hero-slide.hero-slide"
	SiteSettingsUID = "api::site-settings.site-settings"
	AboutPageUID    = "api::about-page.about-page"
)

// Role types created by migrations
const (
	RolePublic        = "public"
	RoleAuthenticated = "authenticated"
)

// Controller operations that can be granted
const (
	OpFind    = "find"
	OpFindOne = "findOne"
)

// PublicActions are the read-only actions granted to the public role
var PublicActions = []string{
	Action(PuppyUID, OpFind),
	Action(PuppyUID, OpFindOne),
	Action(StudUID, OpFind),
	Action(StudUID, OpFindOne),
	Action(TestimonialUID, OpFind),
	Action(HeroSlideUID, OpFind),
	Action(SiteSettingsUID, OpFind),
	Action(AboutPageUID, OpFind),
}

// Action builds a permission action identifier, e.g. "api::puppy.puppy.find"
func Action(uid, op string) string {
	return uid + "." + op
}

// Schema returns every content type known to the CMS
func Schema() document.Schema {
	return document.NewSchema(
		document.ContentType{UID: RoleUID, Kind: document.KindCollection},
		document.ContentType{UID: PermissionUID, Kind: document.KindCollection},
		document.ContentType{UID: PuppyUID, Kind: document.KindCollection},
		document.ContentType{UID: StudUID, Kind: document.KindCollection},
		document.ContentType{UID: TestimonialUID, Kind: document.KindCollection},
		document.ContentType{UID: HeroSlideUID, Kind: document.KindCollection},
		document.ContentType{UID: SiteSettingsUID, Kind: document.KindSingle},
		document.ContentType{
			UID:       AboutPageUID,
			Kind:      document.KindSingle,
			Relations: map[string]string{"featuredPuppies": PuppyUID},
			RichText:  []string{"storyContent", "philosophyContent"},
		},
	)
}

// IsAPI reports whether uid is a content API type (as opposed to a plugin type)
func IsAPI(uid string) bool {
	return strings.HasPrefix(uid, "api::")
}

var pluralNames = map[string]string{
	PuppyUID: "puppies",
}

// PluralName returns a human readable plural for log lines,
// e.g. "hero slides" for api::hero-slide.hero-slide.
func PluralName(uid string) string {
	if name, ok := pluralNames[uid]; ok {
		return name
	}
	name := uid
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "-", " ")
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}
