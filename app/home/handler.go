// Package home serves the landing page, the role dashboard and the
// navigation bar.
package home

import (
	"net/http"

	"github.com/weavelink/weavelink/app/api"
	"github.com/weavelink/weavelink/app/auth"
	"github.com/weavelink/weavelink/models"
)

type Pitch struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Points   []string `json:"points"`
	Action   Link     `json:"action"`
}

type Landing struct {
	Title   string  `json:"title"`
	Tagline string  `json:"tagline"`
	Action  Link    `json:"action"`
	Pitches []Pitch `json:"pitches"`
	Mission Pitch   `json:"mission"`
}

type Card struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Actions     []Link `json:"actions"`
}

type Dashboard struct {
	Greeting string `json:"greeting"`
	Subtitle string `json:"subtitle"`
	Cards    []Card `json:"cards"`
}

var landing = Landing{
	Title:   "WeaveLink",
	Tagline: "Connecting traditional Indian handloom weavers with buyers worldwide. Discover authentic, handcrafted textiles directly from artisans.",
	Action:  Link{Label: "Join Our Community", Path: auth.SignInPath},
	Pitches: []Pitch{
		{
			Title:    "For Weavers",
			Subtitle: "Showcase your beautiful handloom creations",
			Points: []string{
				"Share your craft with the world",
				"List your products easily",
				"Connect with your local heritage",
			},
			Action: Link{Label: "Join as Weaver", Path: auth.SignInPath},
		},
		{
			Title:    "For Buyers",
			Subtitle: "Discover authentic handloom treasures",
			Points: []string{
				"Browse authentic handloom products",
				"Support traditional artisans",
				"Find unique, handcrafted items",
			},
			Action: Link{Label: "Browse Products", Path: auth.SignInPath},
		},
	},
	Mission: Pitch{
		Title:    "Preserving Traditional Craftsmanship",
		Subtitle: "Every thread tells a story. Every pattern carries centuries of tradition. Join us in celebrating and preserving the rich heritage of Indian handloom weaving.",
	},
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// HandleHome serves the landing page to visitors and the role dashboard to
// signed-in users. It runs behind auth.Gate.Optional.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess.IsZero() {
		api.OKResponse(w, http.StatusOK, landing)
		return
	}
	api.OKResponse(w, http.StatusOK, DashboardFor(sess))
}

// HandleNav serves the navigation bar. It runs behind auth.Gate.Authenticate.
func (h *Handler) HandleNav(w http.ResponseWriter, r *http.Request) {
	api.OKResponse(w, http.StatusOK, NavFor(auth.SessionFromContext(r.Context())))
}

// DashboardFor builds the signed-in home page.
func DashboardFor(sess models.Session) Dashboard {
	d := Dashboard{Greeting: "Welcome back, " + sess.Name + "!"}
	if sess.Can(models.CapabilityManageListings) {
		d.Subtitle = "Ready to showcase your beautiful handloom creations?"
		d.Cards = []Card{{
			Title:       "Weaver Dashboard",
			Description: "Manage your products and showcase your craft",
			Actions: []Link{
				{Label: "Go to My Products", Path: ListingsPath},
				{Label: "Browse All Products", Path: MarketplacePath},
			},
		}}
		return d
	}
	d.Subtitle = "Discover amazing handloom products from talented weavers"
	d.Cards = []Card{{
		Title:       "Buyer Dashboard",
		Description: "Explore beautiful handloom products from talented weavers",
		Actions:     []Link{{Label: "Explore Marketplace", Path: MarketplacePath}},
	}}
	return d
}
