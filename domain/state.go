package domain

// Collection keys used by document stores and the snapshot layout.
const (
	KeyProducts   = "products"
	KeyBlogs      = "blogs"
	KeyEnquiries  = "enquiries"
	KeySiteConfig = "siteConfig"
)

// CMSState is the unit of synchronization between client, backend and the
// local fallback copy.
type CMSState struct {
	Products   []Product  `json:"products"`
	Blogs      []BlogPost `json:"blogs"`
	Enquiries  []Enquiry  `json:"enquiries"`
	SiteConfig SiteConfig `json:"siteConfig"`
}

// EmptyState is what a backend returns before anything has been written.
func EmptyState() CMSState {
	return CMSState{
		Products:  []Product{},
		Blogs:     []BlogPost{},
		Enquiries: []Enquiry{},
	}
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (s *CMSState) Normalize() {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Blogs == nil {
		s.Blogs = []BlogPost{}
	}
	if s.Enquiries == nil {
		s.Enquiries = []Enquiry{}
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s CMSState) Clone() CMSState {
	out := CMSState{
		Products:   make([]Product, len(s.Products)),
		Blogs:      append([]BlogPost{}, s.Blogs...),
		Enquiries:  append([]Enquiry{}, s.Enquiries...),
		SiteConfig: s.SiteConfig,
	}
	for i, p := range s.Products {
		out.Products[i] = p.clone()
	}
	return out
}

// MergeNonEmpty overlays remote onto s field by field: a non-empty remote
// value replaces the local one, an empty one leaves it untouched.
func (s CMSState) MergeNonEmpty(remote CMSState) CMSState {
	out := s.Clone()
	if len(remote.Products) > 0 {
		out.Products = remote.Clone().Products
	}
	if len(remote.Blogs) > 0 {
		out.Blogs = append([]BlogPost{}, remote.Blogs...)
	}
	if len(remote.Enquiries) > 0 {
		out.Enquiries = append([]Enquiry{}, remote.Enquiries...)
	}
	if remote.SiteConfig.Present() {
		out.SiteConfig = remote.SiteConfig
	}
	return out
}

// FindEnquiry returns the index of the enquiry with id, or -1.
func (s CMSState) FindEnquiry(id string) int {
	for i := range s.Enquiries {
		if s.Enquiries[i].ID == id {
			return i
		}
	}
	return -1
}
