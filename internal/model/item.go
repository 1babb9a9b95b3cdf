package model

// Item is a single wardrobe entry. The photo is stored inline as a
// self-describing data URL, never as a file reference.
type Item struct {
	ID        string   `json:"id"`
	Profile   Profile  `json:"profile"`
	Category  Category `json:"category"`
	Image     string   `json:"image"`
	CreatedAt int64    `json:"created_at"`
}

// Profile is the top-level partition of the catalog.
type Profile string

// Profiles.
const (
	ProfileMen   Profile = "men"
	ProfileWomen Profile = "women"
)

// Valid reports whether p is a known profile.
func (p Profile) Valid() bool {
	return p == ProfileMen || p == ProfileWomen
}

// Category classifies a garment. CategoryAll is a filter value only and
// is never stored on an item.
type Category string

// Categories.
const (
	CategoryAll       Category = "all"
	CategoryHead      Category = "head"
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryShoes     Category = "shoes"
	CategoryAccessory Category = "accessory"
)

// Valid reports whether c is a category that can be stored on an item.
func (c Category) Valid() bool {
	switch c {
	case CategoryHead, CategoryTop, CategoryBottom, CategoryShoes, CategoryAccessory:
		return true
	}
	return false
}

// Filter is the only addressable query shape: a profile plus an
// optional category (CategoryAll means no category predicate).
type Filter struct {
	Profile  Profile  `json:"profile"`
	Category Category `json:"category"`
}
