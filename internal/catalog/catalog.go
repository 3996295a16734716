package catalog

import "github.com/kunu2009/socials/internal/models"

// platforms is the canonical catalog. The order here defines the display
// order of every result set; it never changes at runtime.
var platforms = []models.Platform{
	{Name: models.PlatformLinkedIn, AspectRatio: "16:9", Icon: "linkedin", Kind: models.KindImage},
	{Name: models.PlatformTwitter, AspectRatio: "16:9", Icon: "twitter", Kind: models.KindImage},
	{Name: models.PlatformInstagram, AspectRatio: "1:1", Icon: "instagram", Kind: models.KindImage},
	{Name: models.PlatformPinterest, AspectRatio: "2:3", Icon: "pinterest", Kind: models.KindImage},
	{Name: models.PlatformPinterestVideo, AspectRatio: "9:16", Icon: "pinterest-video", Kind: models.KindVideo},
	{Name: models.PlatformFacebook, AspectRatio: "1:1", Icon: "facebook", Kind: models.KindImage},
	{Name: models.PlatformTikTok, AspectRatio: "9:16", Icon: "tiktok", Kind: models.KindVideo},
}

// All returns the catalog in canonical order.
func All() []models.Platform {
	out := make([]models.Platform, len(platforms))
	copy(out, platforms)
	return out
}

// ByName looks up a platform by its display name.
func ByName(name string) (models.Platform, bool) {
	for _, p := range platforms {
		if p.Name == name {
			return p, true
		}
	}
	return models.Platform{}, false
}

// IndexOf returns the canonical position of a platform, or -1 when the name
// is not part of the catalog.
func IndexOf(name string) int {
	for i, p := range platforms {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Resolve maps platform names onto catalog entries, dropping unknown names.
func Resolve(names []string) []models.Platform {
	var out []models.Platform
	for _, name := range names {
		if p, ok := ByName(name); ok {
			out = append(out, p)
		}
	}
	return out
}
