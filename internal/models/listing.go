package models

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ListingStatus is the moderation state of a listing.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
)

// IsValidListingStatus reports whether s is one of the three moderation states.
func IsValidListingStatus(s ListingStatus) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Listing is a submitted game server record.
type Listing struct {
	ID            uuid.UUID
	Name          string
	Host          string
	Port          int
	Game          string
	Description   string
	BannerURL     string
	LogoURL       string
	Tags          []string
	Status        ListingStatus
	Votes         int
	Online        bool       // advisory, refreshed out-of-band
	Players       int        // advisory
	MaxPlayers    int        // advisory
	Featured      bool
	FeaturedUntil *time.Time // nil while featured means indefinite promotion
	SubmittedBy   uuid.UUID  // uuid.Nil only for legacy seed data
	SubmittedAt   time.Time
	LastVoteAt    time.Time
}

// IsCurrentlyFeatured reports whether the listing's promotion window is
// active at the given instant. An expired window leaves the stored flag
// in place as stale data; every read path must go through this check.
func (l *Listing) IsCurrentlyFeatured(now time.Time) bool {
	if !l.Featured {
		return false
	}
	return l.FeaturedUntil == nil || l.FeaturedUntil.After(now)
}

// IsVisible reports whether the listing appears in default public queries.
func (l *Listing) IsVisible() bool {
	return l.Status == StatusApproved
}

// KnownGames is the fixed set of game tags a listing may be submitted under.
var KnownGames = []string{
	"Rust",
	"Minecraft",
	"CS2",
	"Terraria",
	"Valheim",
	"ARK",
	"DayZ",
	"Garry's Mod",
	"Project Zomboid",
	"7 Days to Die",
}

// IsKnownGame reports whether game matches a known game tag.
func IsKnownGame(game string) bool {
	for _, g := range KnownGames {
		if g == game {
			return true
		}
	}
	return false
}

const (
	MinNameLen        = 3
	MaxNameLen        = 50
	MinDescriptionLen = 10
	MaxDescriptionLen = 1000
	MaxTags           = 5
	MaxTagLen         = 20
)

// ListingDraft carries the user-supplied fields of a submission before
// the server assigns identity, status and timestamps.
type ListingDraft struct {
	Name        string
	Host        string
	Port        int
	Game        string
	Description string
	BannerURL   string
	LogoURL     string
	Tags        []string
}

var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
var dottedQuadPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// isValidHost accepts an IPv4 dotted-quad or a domain name, no embedded port.
func isValidHost(host string) bool {
	if dottedQuadPattern.MatchString(host) {
		ip := net.ParseIP(host)
		return ip != nil && ip.To4() != nil
	}
	return domainPattern.MatchString(host)
}

// isValidImageURL accepts an absolute http(s) URL. Empty is allowed;
// the caller treats the field as optional.
func isValidImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate checks every draft field and returns a map of field name to
// human-readable problem. An empty map means the draft is acceptable.
func (d *ListingDraft) Validate() map[string]string {
	problems := make(map[string]string)

	name := strings.TrimSpace(d.Name)
	if len(name) < MinNameLen || len(name) > MaxNameLen {
		problems["name"] = fmt.Sprintf("name must be between %d and %d characters", MinNameLen, MaxNameLen)
	}

	if !isValidHost(strings.TrimSpace(d.Host)) {
		problems["host"] = "host must be an IPv4 address or a domain name, without a port"
	}

	if d.Port < 1 || d.Port > 65535 {
		problems["port"] = "port must be between 1 and 65535"
	}

	if !IsKnownGame(d.Game) {
		problems["game"] = fmt.Sprintf("game must be one of: %s", strings.Join(KnownGames, ", "))
	}

	if len(d.Description) < MinDescriptionLen || len(d.Description) > MaxDescriptionLen {
		problems["description"] = fmt.Sprintf("description must be between %d and %d characters", MinDescriptionLen, MaxDescriptionLen)
	}

	if d.BannerURL != "" && !isValidImageURL(d.BannerURL) {
		problems["bannerUrl"] = "banner URL must be an absolute http(s) URL"
	}

	if d.LogoURL != "" && !isValidImageURL(d.LogoURL) {
		problems["logoUrl"] = "logo URL must be an absolute http(s) URL"
	}

	if len(d.Tags) > MaxTags {
		problems["tags"] = fmt.Sprintf("at most %d tags are allowed", MaxTags)
	} else {
		for _, tag := range d.Tags {
			if len(tag) < 1 || len(tag) > MaxTagLen {
				problems["tags"] = fmt.Sprintf("each tag must be between 1 and %d characters", MaxTagLen)
				break
			}
		}
	}

	return problems
}

// ParseTags splits a comma-separated tag string the way the submission
// form sends it, dropping empty entries.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
