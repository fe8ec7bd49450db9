package nofluffjobs

// Selectors maps logical fields to their locator strategies on nofluffjobs.com
// listing markup. The site exposes stable data-cy attributes for most fields;
// treat the set as versioned configuration all the same.
type Selectors struct {
	CookieAccept  string
	ListContainer string
	OfferLink     string
	Title         string
	Company       string
	Location      string
	PopoverBody   string
	PopoverLink   string
	Salary        string
	SkillTile     string
}

func DefaultSelectors() Selectors {
	return Selectors{
		CookieAccept:  ".accept",
		ListContainer: "div.list-container",
		OfferLink:     "a[nfj-postings-item]",
		Title:         "h3.posting-title__position",
		Company:       "h4.company-name",
		Location:      `[data-cy="location on the job offer listing"]`,
		PopoverBody:   "popover-content .popover-body",
		PopoverLink:   "a",
		Salary:        `[data-cy="salary ranges on the job offer listing"]`,
		SkillTile:     "nfj-posting-item-tiles span",
	}
}
