package catalog

// Fixed category set served by the backend. "All" is a client-side
// pseudo-category meaning no filter.
const CategoryAll = "All"

var Categories = []string{"Mobiles", "Laptops", "Accessories", "Fashion"}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Product is read-only on the client; the backend owns it.
type Product struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Brand       string            `json:"brand"`
	Price       float64           `json:"price"`
	Images      []string          `json:"images"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
	Rating      float64           `json:"rating,omitempty"`
}

const defaultRating = 4

// PrimaryImage returns the first image URL, or "" when there is none.
func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

func normalize(p *Product) {
	if p.Rating == 0 {
		p.Rating = defaultRating
	}
}
