package core

// Category is an optional spending classification.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryTransport     Category = "transport"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryBills         Category = "bills"
	CategoryHousing       Category = "housing"
	CategoryTravel        Category = "travel"
	CategoryGifts         Category = "gifts"
	CategoryOther         Category = "other"
)

type CategoryInfo struct {
	ID   Category `json:"id"`
	Name string   `json:"name"`
	Icon string   `json:"icon"`
}

var categories = []CategoryInfo{
	{CategoryFood, "Food & Dining", "🍔"},
	{CategoryShopping, "Shopping", "🛍️"},
	{CategoryEntertainment, "Entertainment", "🎬"},
	{CategoryTransport, "Transport", "🚗"},
	{CategoryHealth, "Health & Fitness", "💪"},
	{CategoryEducation, "Education", "📚"},
	{CategoryBills, "Bills & Utilities", "📝"},
	{CategoryHousing, "Housing", "🏠"},
	{CategoryTravel, "Travel", "✈️"},
	{CategoryGifts, "Gifts", "🎁"},
	{CategoryOther, "Other", "📦"},
}

// Categories returns the known categories in display order.
func Categories() []CategoryInfo {
	return append([]CategoryInfo(nil), categories...)
}

func (c Category) IsValid() bool {
	for _, info := range categories {
		if info.ID == c {
			return true
		}
	}
	return false
}

// Info looks up display metadata, falling back to "other" for unknown ids.
func (c Category) Info() CategoryInfo {
	for _, info := range categories {
		if info.ID == c {
			return info
		}
	}
	return categories[len(categories)-1]
}
