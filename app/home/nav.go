package home

import "github.com/weavelink/weavelink/models"

// Link is a navigation entry.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Nav is the navigation bar of a signed-in user.
type Nav struct {
	Brand   Link   `json:"brand"`
	Links   []Link `json:"links"`
	Profile string `json:"profile"`
	SignOut Link   `json:"sign_out"`
}

const (
	ListingsPath    = "/listings"
	MarketplacePath = "/catalog"
)

// NavFor builds the navigation for sess. Home is always present. Weavers get
// their own products; the marketplace link is offered only to roles that can
// browse but not manage listings.
func NavFor(sess models.Session) Nav {
	links := []Link{{Label: "Home", Path: "/"}}
	switch {
	case sess.Can(models.CapabilityManageListings):
		links = append(links, Link{Label: "My Products", Path: ListingsPath})
	case sess.Can(models.CapabilityBrowseMarketplace):
		links = append(links, Link{Label: "Marketplace", Path: MarketplacePath})
	}
	return Nav{
		Brand:   Link{Label: "WeaveLink", Path: "/"},
		Links:   links,
		Profile: sess.Name,
		SignOut: Link{Label: "Sign out", Path: "/auth/signout"},
	}
}
