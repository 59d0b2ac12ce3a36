package entities

// Category is one of the mutually exclusive display classes an event is sorted into
type Category int

const (
	CategorySupply Category = iota
	CategoryDemand
	CategorySuggestedSupply
	CategoryPendingRequisition
	CategoryPlanningComponent
	CategoryForecast
)

// Categories lists every category in legend order
var Categories = []Category{
	CategorySupply,
	CategoryDemand,
	CategorySuggestedSupply,
	CategoryPendingRequisition,
	CategoryPlanningComponent,
	CategoryForecast,
}

// SupplySide lists the categories a tracking pair's supply endpoint may live in
var SupplySide = []Category{CategorySupply, CategorySuggestedSupply, CategoryPendingRequisition}

// DemandSide lists the categories a tracking pair's demand endpoint may live in
var DemandSide = []Category{CategoryDemand, CategoryPlanningComponent, CategoryForecast}

// String method for Category enum
func (c Category) String() string {
	switch c {
	case CategorySupply:
		return "Existing Supply"
	case CategoryDemand:
		return "Demand"
	case CategorySuggestedSupply:
		return "Suggested Supply"
	case CategoryPendingRequisition:
		return "Pending Req. Lines"
	case CategoryPlanningComponent:
		return "Planning Components"
	case CategoryForecast:
		return "Demand Forecast"
	default:
		return "Unknown"
	}
}

// Key is a stable lower-case identifier used in URLs and CSS classes
func (c Category) Key() string {
	switch c {
	case CategorySupply:
		return "supply"
	case CategoryDemand:
		return "demand"
	case CategorySuggestedSupply:
		return "suggested"
	case CategoryPendingRequisition:
		return "pending"
	case CategoryPlanningComponent:
		return "component"
	case CategoryForecast:
		return "forecast"
	default:
		return "unknown"
	}
}

// ParseCategory is the inverse of Key
func ParseCategory(key string) (Category, bool) {
	for _, c := range Categories {
		if c.Key() == key {
			return c, true
		}
	}
	return 0, false
}
