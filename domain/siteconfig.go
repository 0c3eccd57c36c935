package domain

import "encoding/json"

// Socials holds the footer links.
type Socials struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Youtube   string `json:"youtube"`
	Whatsapp  string `json:"whatsapp"`
}

// SiteConfig is the singleton brand configuration. It is always replaced whole.
type SiteConfig struct {
	BrandName      string  `json:"brandName"`
	Tagline        string  `json:"tagline"`
	PrimaryColor   string  `json:"primaryColor"`
	SecondaryColor string  `json:"secondaryColor"`
	ContactEmail   string  `json:"contactEmail"`
	ContactPhone   string  `json:"contactPhone"`
	Address        string  `json:"address"`
	Socials        Socials `json:"socials"`
}

// IsZero reports whether no field has been set.
func (c SiteConfig) IsZero() bool {
	return c == SiteConfig{}
}

// Present reports whether the config carries a brand, which is what the
// initial merge treats as "non-empty".
func (c SiteConfig) Present() bool {
	return c.BrandName != ""
}

// siteConfigJSON breaks the MarshalJSON recursion.
type siteConfigJSON SiteConfig

// MarshalJSON writes an unset config as {} to match an uninitialised backend.
func (c SiteConfig) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("{}"), nil
	}
	return json.Marshal(siteConfigJSON(c))
}
