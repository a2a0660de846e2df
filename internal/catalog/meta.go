package catalog

// Pick lists for the filter panel. These are catalog metadata, not derived
// from the seeded products: a category can be listed before any part in it
// is stocked.

var Categories = []string{
	"Engine", "Brakes", "Suspension", "Electrical", "Body Parts", "Interior", "Wheels & Tires",
}

var Makes = []string{
	"Toyota", "Honda", "Ford", "Chevrolet", "Nissan", "BMW", "Mercedes", "Audi", "Tesla",
}

var ModelsByMake = map[string][]string{
	"Toyota":    {"Camry", "Corolla", "RAV4", "Tacoma", "Tundra", "Supra", "86"},
	"Honda":     {"Civic", "Accord", "CR-V", "Pilot", "Odyssey"},
	"Ford":      {"F-150", "Mustang", "Explorer", "Focus", "Escape"},
	"BMW":       {"3 Series", "5 Series", "X5", "M3"},
	"Chevrolet": {"Silverado", "Tahoe", "Camaro"},
	"Nissan":    {"Altima", "370Z"},
	"Mazda":     {"MX-5 Miata", "CX-5"},
	"Dodge":     {"Ram 1500", "Charger"},
}

var SeriesByMake = map[string][]string{
	"Toyota": {"Standard", "L", "LE", "XLE", "SE", "XSE", "TRD"},
	"Honda":  {"Standard", "LX", "EX", "EX-L", "Touring", "Sport", "Type R"},
	"BMW":    {"Standard", "Base", "Luxury Line", "Sport Line", "M Sport"},
}

var PerformanceLevels = []string{"Standard", "High Performance", "Racing"}
