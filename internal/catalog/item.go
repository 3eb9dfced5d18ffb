package catalog

// Item is one catalog record. Name is its identity within a page.
type Item struct {
	Name      string `json:"name"`
	Height    string `json:"height"`
	Mass      string `json:"mass"`
	HairColor string `json:"hair_color"`
	SkinColor string `json:"skin_color"`
	EyeColor  string `json:"eye_color"`
	BirthYear string `json:"birth_year"`
	Gender    string `json:"gender"`
	Homeworld string `json:"homeworld,omitempty"`
	URL       string `json:"url,omitempty"`
	Created   string `json:"created,omitempty"`
	Edited    string `json:"edited,omitempty"`
}

// Page is one page of the listing, in server order.
type Page struct {
	Number   int
	Count    int
	Next     string
	Previous string
	Items    []Item
}

// Names returns the display names of the page's items in order.
func (p Page) Names() []string {
	out := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, it.Name)
	}
	return out
}
