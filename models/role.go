package models

import "fmt"

// Role is the marketplace role chosen at sign-up.
type Role string

const (
	RoleWeaver Role = "weaver"
	RoleBuyer  Role = "buyer"
)

// Capability is something a role may be allowed to do.
type Capability int

const (
	// CapabilityManageListings allows creating, editing and deleting own products.
	CapabilityManageListings Capability = iota + 1
	// CapabilityBrowseMarketplace allows reading the full catalog.
	CapabilityBrowseMarketplace
)

func (c Capability) String() string {
	switch c {
	case CapabilityManageListings:
		return "manage_listings"
	case CapabilityBrowseMarketplace:
		return "browse_marketplace"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// ParseRole accepts "weaver" or "buyer".
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleWeaver, RoleBuyer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Can reports whether the role holds capability c.
func (r Role) Can(c Capability) bool {
	switch r {
	case RoleWeaver:
		return c == CapabilityManageListings || c == CapabilityBrowseMarketplace
	case RoleBuyer:
		return c == CapabilityBrowseMarketplace
	default:
		return false
	}
}
