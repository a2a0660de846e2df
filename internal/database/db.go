// Package db manages the in-memory catalog store. The catalog lives in a
// process-lifetime sqlite database: seeded once at startup, read-only
// afterwards.
package db

import (
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"autopart/models"
)

// Connect opens the shared in-memory database. cache=shared keeps every
// pooled connection on the same store; a plain :memory: DSN would give
// each connection its own empty database.
func Connect() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open in-memory catalog store")
	}
	return db, nil
}

// Migrate creates the catalog schema.
func Migrate(DB *gorm.DB) error {
	return DB.AutoMigrate(&models.Product{})
}

// GetProducts returns the full catalog in seed order.
func GetProducts(DB *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	// String IDs sort as "1", "10", "11", ...; rowid preserves seed order.
	err := DB.Order("rowid").Find(&products).Error
	return products, err
}

// GetProduct looks up a single catalog record by ID.
func GetProduct(DB *gorm.DB, id string) (models.Product, error) {
	var product models.Product
	err := DB.First(&product, "id = ?", id).Error
	return product, err
}

// GetCategories returns the distinct categories present in the catalog.
func GetCategories(DB *gorm.DB) ([]string, error) {
	var categories []string
	err := DB.Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).
		Error
	return categories, err
}

// SeedCatalog loads the demo parts catalog. Safe to call once per process;
// the store is empty when it runs.
func SeedCatalog(DB *gorm.DB) error {
	for i := range demoCatalog {
		if err := DB.Create(&demoCatalog[i]).Error; err != nil {
			return errors.Wrapf(err, "seed product %s", demoCatalog[i].ID)
		}
	}
	return nil
}

// yearRange returns count consecutive years starting at first.
func yearRange(first, count int) []int {
	years := make([]int, count)
	for i := range years {
		years[i] = first + i
	}
	return years
}

var demoCatalog = []models.Product{
	{
		ID:          "1",
		Name:        "Performance Ceramic Brake Pads - Front Set",
		Category:    "Brakes",
		SubCategory: "Brake Pads",
		Brand:       "StopTech",
		Price:       89.99,
		Rating:      4.8,
		Reviews:     124,
		Image:       "https://images.unsplash.com/photo-1486262715619-67b85e0b08d3?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Toyota", "Honda", "Ford"},
			Models: []string{"Camry", "Civic", "F-150"},
			Years:  yearRange(2018, 5),
			Series: []string{"Sport", "TRD"},
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "High-performance ceramic brake pads designed for maximum stopping power and low dust generation.",
		Specifications: map[string]string{
			"Material": "Ceramic",
			"Position": "Front",
			"Warranty": "2 Years",
		},
		Difficulty:       models.DifficultyModerate,
		PerformanceLevel: models.PerformanceHigh,
	},
	{
		ID:          "2",
		Name:        "Full Synthetic 5W-30 Motor Oil - 5 Quart",
		Category:    "Engine",
		SubCategory: "Oil & Filters",
		Brand:       "Mobil 1",
		Price:       34.50,
		Rating:      4.9,
		Reviews:     2150,
		Image:       "https://images.unsplash.com/photo-1635832626458-71e80816828f?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Any"},
			Models: []string{"Any"},
			Years:  yearRange(1995, 30),
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Mobil 1 High Mileage full synthetic motor oil 5W-30 is designed for engines with over 75,000 miles.",
		Specifications: map[string]string{
			"Viscosity": "5W-30",
			"Volume":    "5 Quarts",
			"Type":      "Full Synthetic",
		},
		Difficulty:       models.DifficultyEasy,
		PerformanceLevel: models.PerformanceStandard,
	},
	{
		ID:          "3",
		Name:        "Iridium IX Spark Plug",
		Category:    "Engine",
		SubCategory: "Ignition",
		Brand:       "NGK",
		Price:       12.99,
		Rating:      4.7,
		Reviews:     562,
		Image:       "https://images.unsplash.com/photo-1494976388531-d1058494cdd8?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Nissan", "Honda", "Mazda"},
			Models: []string{"Altima", "Accord", "CX-5"},
			Years:  yearRange(2015, 6),
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Designed specifically for the performance enthusiast. Iridium IX offers extreme ignitability.",
		Specifications: map[string]string{
			"Material":   "Iridium",
			"Gap Size":   "0.044\"",
			"Heat Range": "6",
		},
		Difficulty:       models.DifficultyModerate,
		PerformanceLevel: models.PerformanceHigh,
	},
	{
		ID:          "4",
		Name:        "Bilstein B6 Performance Shock Absorber",
		Category:    "Suspension",
		SubCategory: "Shocks & Struts",
		Brand:       "Bilstein",
		Price:       145.00,
		Rating:      4.9,
		Reviews:     89,
		Image:       "https://images.unsplash.com/photo-1599256629825-8291ff9742e0?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"BMW", "Audi", "Mercedes"},
			Models: []string{"3 Series", "A4", "C-Class"},
			Years:  yearRange(2012, 5),
			Series: []string{"M-Sport", "S-Line"},
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "The perfect choice for those who want to improve their vehicle's handling without lowering it.",
		Specifications: map[string]string{
			"Position":     "Rear",
			"Construction": "Monotube",
			"Damping":      "High Pressure",
		},
		Difficulty:       models.DifficultyAdvanced,
		PerformanceLevel: models.PerformanceHigh,
	},
	{
		ID:          "5",
		Name:        "Platinum AGM Power Battery",
		Category:    "Electrical",
		SubCategory: "Batteries",
		Brand:       "DieHard",
		Price:       219.99,
		Rating:      4.8,
		Reviews:     342,
		Image:       "https://images.unsplash.com/photo-1511919884226-fd3cad34687c?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Ford", "Chevrolet", "Dodge"},
			Models: []string{"F-150", "Silverado", "Ram 1500"},
			Years:  yearRange(2015, 8),
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Absorbent Glass Mat (AGM) technology for superior starting power and 2x the cycle life.",
		Specifications: map[string]string{
			"Voltage":            "12V",
			"Cold Cranking Amps": "850 CCA",
			"Warranty":           "3 Years",
		},
		Difficulty:       models.DifficultyEasy,
		PerformanceLevel: models.PerformanceHigh,
	},
	{
		ID:          "6",
		Name:        "High-Output 160A Alternator",
		Category:    "Electrical",
		SubCategory: "Charging",
		Brand:       "Bosch",
		Price:       189.50,
		Rating:      4.6,
		Reviews:     115,
		Image:       "https://images.unsplash.com/photo-1621415124040-42f2052f6b28?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"BMW", "Mercedes", "Audi"},
			Models: []string{"5 Series", "E-Class", "A6"},
			Years:  yearRange(2010, 6),
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Premium Bosch alternator providing stable power supply for vehicles with high electrical loads.",
		Specifications: map[string]string{
			"Amperage": "160A",
			"Voltage":  "14V",
			"Rotation": "Clockwise",
		},
		Difficulty:       models.DifficultyModerate,
		PerformanceLevel: models.PerformanceStandard,
	},
	{
		ID:          "7",
		Name:        "Aluminum Dual-Core Radiator",
		Category:    "Engine",
		SubCategory: "Cooling",
		Brand:       "Mishimoto",
		Price:       325.00,
		Rating:      4.9,
		Reviews:     76,
		Image:       "https://images.unsplash.com/photo-1492144534655-ae79c964c9d7?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Toyota", "Subaru", "Nissan"},
			Models: []string{"Supra", "WRX STI", "370Z"},
			Years:  yearRange(2015, 7),
			Series: []string{"Sport", "TRD", "Nismo"},
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilitySpecialOrder,
		Description:  "Full aluminum radiator designed for maximum cooling efficiency for modified and racing engines.",
		Specifications: map[string]string{
			"Material":   "Aluminum",
			"Cores":      "Dual",
			"Inlet Size": "1.38\"",
		},
		Difficulty:       models.DifficultyAdvanced,
		PerformanceLevel: models.PerformanceRacing,
	},
	{
		ID:          "8",
		Name:        "Black Housing Projector Headlights",
		Category:    "Body Parts",
		SubCategory: "Lighting",
		Brand:       "Spyder",
		Price:       249.00,
		Rating:      4.5,
		Reviews:     184,
		Image:       "https://images.unsplash.com/photo-1542281286-9e0a16bb7366?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Honda", "Nissan"},
			Models: []string{"Civic", "Altima"},
			Years:  yearRange(2016, 4),
			Series: []string{"Standard", "Sport"},
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Aggressive black housing with clear lenses and projector beams for improved visibility.",
		Specifications: map[string]string{
			"Housing":   "Black",
			"Lens":      "Clear",
			"Bulb Type": "H1 High / H7 Low",
		},
		Difficulty:       models.DifficultyModerate,
		PerformanceLevel: models.PerformanceStandard,
	},
	{
		ID:          "9",
		Name:        "Stainless Steel Cat-Back Exhaust System",
		Category:    "Engine",
		SubCategory: "Exhaust",
		Brand:       "MagnaFlow",
		Price:       845.00,
		Rating:      4.9,
		Reviews:     52,
		Image:       "https://images.unsplash.com/photo-1583121274602-3e2820c69888?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Ford", "Chevrolet"},
			Models: []string{"Mustang", "Camaro"},
			Years:  yearRange(2015, 8),
			Series: []string{"GT", "SS"},
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityPreOrder,
		Description:  "Performance-tuned exhaust note with increased flow and horsepower gains.",
		Specifications: map[string]string{
			"Material":      "Stainless Steel",
			"Pipe Diameter": "3.0\"",
			"Tip Exit":      "Rear Dual",
		},
		Difficulty:       models.DifficultyAdvanced,
		PerformanceLevel: models.PerformanceRacing,
	},
	{
		ID:          "10",
		Name:        "HEPA Premium Cabin Air Filter",
		Category:    "Interior",
		SubCategory: "Air Filtration",
		Brand:       "K&N",
		Price:       49.99,
		Rating:      4.7,
		Reviews:     890,
		Image:       "https://images.unsplash.com/photo-1502877338535-766e1452684a?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Any"},
			Models: []string{"Any"},
			Years:  yearRange(2005, 20),
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Washable and reusable cabin filter that traps 99% of dust, pollen, and contaminants.",
		Specifications: map[string]string{
			"Media":             "HEPA Synthetic",
			"Life Span":         "Lifetime (Washable)",
			"Installation Time": "5 Mins",
		},
		Difficulty:       models.DifficultyEasy,
		PerformanceLevel: models.PerformanceStandard,
	},
	{
		ID:          "11",
		Name:        "Heavy Duty Front Control Arm",
		Category:    "Suspension",
		SubCategory: "Control Arms",
		Brand:       "Moog",
		Price:       115.00,
		Rating:      4.8,
		Reviews:     67,
		Image:       "https://images.unsplash.com/photo-1563720223185-11003d516905?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Toyota", "Lexus"},
			Models: []string{"Camry", "ES350"},
			Years:  yearRange(2012, 6),
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Enhanced metallurgy and design for extended part life and improved steering response.",
		Specifications: map[string]string{
			"Position":            "Front Left Lower",
			"Bushings":            "Rubber",
			"Ball Joint Included": "Yes",
		},
		Difficulty:       models.DifficultyModerate,
		PerformanceLevel: models.PerformanceStandard,
	},
	{
		ID:          "12",
		Name:        "High-Flow Cold Air Intake System",
		Category:    "Engine",
		SubCategory: "Intake",
		Brand:       "AEM",
		Price:       312.00,
		Rating:      4.7,
		Reviews:     95,
		Image:       "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Mazda", "Toyota"},
			Models: []string{"MX-5 Miata", "86"},
			Years:  yearRange(2016, 8),
			Series: []string{"Sport", "Club"},
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Designed to produce horsepower and torque gains by replacing your vehicle's factory air filter and intake housing.",
		Specifications: map[string]string{
			"Filter Color":  "Red",
			"Tube Material": "Aluminum",
			"Est. HP Gain":  "8.5 HP",
		},
		Difficulty:       models.DifficultyModerate,
		PerformanceLevel: models.PerformanceHigh,
	},
	{
		ID:          "13",
		Name:        "Cross-Drilled and Slotted Brake Rotors",
		Category:    "Brakes",
		SubCategory: "Rotors",
		Brand:       "PowerStop",
		Price:       156.00,
		Rating:      4.9,
		Reviews:     210,
		Image:       "https://images.unsplash.com/photo-1549317661-bd32c8ce0db2?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Chevrolet", "GMC"},
			Models: []string{"Tahoe", "Yukon"},
			Years:  yearRange(2015, 6),
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Precision-drilled holes for maximum cooling and rounded slots to wipe away gas and debris.",
		Specifications: map[string]string{
			"Finish":     "Silver Zinc Plated",
			"Position":   "Front Pair",
			"Vane Style": "Vented",
		},
		Difficulty:       models.DifficultyModerate,
		PerformanceLevel: models.PerformanceHigh,
	},
	{
		ID:          "14",
		Name:        "Custom Fit Floor Liners - Set",
		Category:    "Interior",
		SubCategory: "Floor Mats",
		Brand:       "WeatherTech",
		Price:       179.99,
		Rating:      4.9,
		Reviews:     1540,
		Image:       "https://images.unsplash.com/photo-1541899481282-d53bffe3c35d?auto=format&fit=crop&q=80&w=600",
		Compatibility: models.Compatibility{
			Makes:  []string{"Any"},
			Models: []string{"Any"},
			Years:  yearRange(2010, 15),
		},
		Condition:    models.ConditionNew,
		Availability: models.AvailabilityInStock,
		Description:  "Laser-measured floor liners that provide complete footwell protection from mud, snow, and spills.",
		Specifications: map[string]string{
			"Material": "TPE",
			"Coverage": "1st & 2nd Row",
			"Color":    "Black",
		},
		Difficulty:       models.DifficultyEasy,
		PerformanceLevel: models.PerformanceStandard,
	},
}
