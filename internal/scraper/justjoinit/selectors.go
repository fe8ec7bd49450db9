package justjoinit

// Selectors maps logical fields to their locator strategies on justjoin.it
// listing markup. The site ships auto-generated class names and marks the
// company only by icon proximity, so this set is versioned configuration:
// when the markup shifts, update here, not the extraction flow.
type Selectors struct {
	CookieAccept        string
	OfferLink           string
	Title               string
	Company             string
	Location            string
	MultiLocationButton string
	Popover             string
	PopoverLocality     string
	Salary              string
	SkillChip           string
}

func DefaultSelectors() Selectors {
	return Selectors{
		CookieAccept:        "#cookiescript_accept",
		OfferLink:           `a[href^='/job-offer/']`,
		Title:               "h3",
		Company:             `p:near(svg[data-testid="ApartmentRoundedIcon"])`,
		Location:            "span.mui-1o4wo1x",
		MultiLocationButton: `button[name="multilocation_button"]`,
		Popover:             "div.MuiPopper-root",
		PopoverLocality:     "span.mui-1jh5lol",
		Salary:              "span.mui-13a157h",
		SkillChip:           "div.mui-jikuwi",
	}
}
