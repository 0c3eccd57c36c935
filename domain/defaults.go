package domain

// DefaultState is the sample content shown before remote data arrives.
func DefaultState() CMSState {
	return CMSState{
		Products: []Product{
			{
				ID:          "1",
				Name:        "Whole Jeera (Cumin Seeds)",
				Type:        SpiceWhole,
				Description: "Hand-picked premium cumin seeds from the Deccan region, known for their intense aroma and high essential oil content.",
				Sizes:       []string{"50g", "100g", "200g", "500g", "1kg"},
				Image:       "https://images.unsplash.com/photo-1593001872095-7d5b12877bc9?q=80&w=1000&auto=format&fit=crop",
				Category:    "Whole Spices",
				IsFeatured:  true,
			},
			{
				ID:          "2",
				Name:        "Guntur Chilli Powder",
				Type:        SpicePowdered,
				Description: "Sun-dried Guntur chillies stone-ground for a deep red colour and a clean, lingering heat.",
				Sizes:       []string{"100g", "200g", "500g", "1kg"},
				Image:       "https://images.unsplash.com/photo-1599909533730-f9d7e4b8a1a5?q=80&w=1000&auto=format&fit=crop",
				Category:    "Ground Spices",
				IsFeatured:  true,
			},
			{
				ID:          "3",
				Name:        "Turmeric Powder",
				Type:        SpicePowdered,
				Description: "High-curcumin turmeric from Nizamabad, cleaned, boiled and milled in small batches.",
				Sizes:       []string{"100g", "200g", "500g"},
				Image:       "https://images.unsplash.com/photo-1615485500704-8e990f9900f7?q=80&w=1000&auto=format&fit=crop",
				Category:    "Ground Spices",
				IsFeatured:  false,
			},
		},
		Blogs: []BlogPost{
			{
				ID:       "1",
				Title:    "Why Whole Spices Keep Their Flavour Longer",
				Slug:     "why-whole-spices-keep-their-flavour",
				Excerpt:  "Grinding releases volatile oils. Here is how to store and toast whole spices for the best aroma.",
				Content:  "Whole spices protect their essential oils inside the seed coat. Buy whole, store airtight away from light, and grind just before cooking.",
				Image:    "https://images.unsplash.com/photo-1596040033229-a9821ebd058d?q=80&w=1000&auto=format&fit=crop",
				Date:     "2024-03-12",
				Author:   "Deccan Tadka Kitchen",
				Category: "Guides",
				Status:   PostPublished,
			},
		},
		Enquiries: []Enquiry{},
		SiteConfig: SiteConfig{
			BrandName:      "Deccan Tadka",
			Tagline:        "Pure Spices from the Heart of the Deccan",
			PrimaryColor:   "#D32F2F",
			SecondaryColor: "#FFC107",
			ContactEmail:   "info@deccantadka.com",
			ContactPhone:   "+91 98765 43210",
			Address:        "Plot No. 45, Industrial Estate, Hyderabad, Telangana, India - 500001",
			Socials: Socials{
				Facebook:  "#",
				Instagram: "#",
				Youtube:   "#",
				Whatsapp:  "#",
			},
		},
	}
}
