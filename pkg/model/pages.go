package model

// Page variants served out of the box.
const (
	VariantBasic  = "basic"
	VariantStatus = "status"
)

// DefaultName is the initial value of the name field.
const DefaultName = "Jon Doe"

// BasicPage edits a single name field.
func BasicPage() Page {
	return Page{
		Variant: VariantBasic,
		Title:   "Settings",
		Fields: []Field{
			{Name: "name", Label: "Name", Required: true, Default: DefaultName},
		},
	}
}

// StatusPage adds an optional status line to the basic page.
func StatusPage() Page {
	page := BasicPage()
	page.Variant = VariantStatus
	page.Fields = append(page.Fields, Field{
		Name:        "status",
		Label:       "Status",
		Placeholder: "What are you up to?",
	})
	return page
}

// Pages returns the built-in variants keyed by name.
func Pages() map[string]Page {
	return map[string]Page{
		VariantBasic:  BasicPage(),
		VariantStatus: StatusPage(),
	}
}

// LookupPage resolves a variant name, treating an empty name as basic.
func LookupPage(variant string) (Page, bool) {
	if variant == "" {
		variant = VariantBasic
	}
	page, ok := Pages()[variant]
	return page, ok
}
