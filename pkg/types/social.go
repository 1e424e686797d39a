package types

// SocialLinks holds the storefront's social profiles, stored as jsonb on the
// store settings row.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Pinterest string `json:"pinterest,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}
