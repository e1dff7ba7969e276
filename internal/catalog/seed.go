package catalog

var categoryNames = map[string][2]string{
	"brakes":     {"الفرامل", "Brakes"},
	"engine":     {"المحرك", "Engine"},
	"filters":    {"الفلاتر", "Filters"},
	"electrical": {"الكهرباء", "Electrical"},
	"suspension": {"نظام التعليق", "Suspension"},
	"lighting":   {"الإضاءة", "Lighting"},
	"body":       {"الهيكل", "Body"},
}

// Seed is the demo product list.
var Seed = []Product{
	{ID: "1", NameAR: "فحمات فرامل أمامية", NameEN: "Front brake pads", Brand: "Bosch", CarType: "toyota", Models: []string{"camry", "corolla"}, Category: "brakes", Price: 85, OriginalPrice: 110, PartNumber: "BP-0986", Image: "/images/parts/brake-pads.jpg", Stock: 40},
	{ID: "2", NameAR: "قرص فرامل", NameEN: "Brake disc", Brand: "Brembo", CarType: "toyota", Models: []string{"camry"}, Category: "brakes", Price: 240, PartNumber: "09.A913.11", Image: "/images/parts/brake-disc.jpg", Stock: 12},
	{ID: "3", NameAR: "فلتر زيت", NameEN: "Oil filter", Brand: "Mann", CarType: "hyundai", Models: []string{"elantra", "sonata"}, Category: "filters", Price: 25, OriginalPrice: 30, PartNumber: "W-712/75", Image: "/images/parts/oil-filter.jpg", Stock: 200, MaxPerOrder: 10},
	{ID: "4", NameAR: "فلتر هواء", NameEN: "Air filter", Brand: "Mann", CarType: "nissan", Models: []string{"altima", "sunny"}, Category: "filters", Price: 45, PartNumber: "C-26003", Image: "/images/parts/air-filter.jpg", Stock: 75},
	{ID: "5", NameAR: "بطارية 70 أمبير", NameEN: "70Ah battery", Brand: "Varta", CarType: "toyota", Models: []string{"land cruiser", "hilux"}, Category: "electrical", Price: 420, OriginalPrice: 480, PartNumber: "E39-570", Image: "/images/parts/battery.jpg", Stock: 8},
	{ID: "6", NameAR: "شمعات احتراق", NameEN: "Spark plugs (set of 4)", Brand: "NGK", CarType: "honda", Models: []string{"accord", "civic"}, Category: "engine", Price: 96, PartNumber: "ILZKR7B11", Image: "/images/parts/spark-plugs.jpg", Stock: 60},
	{ID: "7", NameAR: "مساعد أمامي", NameEN: "Front shock absorber", Brand: "KYB", CarType: "hyundai", Models: []string{"tucson"}, Category: "suspension", Price: 310, PartNumber: "339242", Image: "/images/parts/shock.jpg", Stock: 0},
	{ID: "8", NameAR: "مصباح أمامي LED", NameEN: "LED headlight", Brand: "Philips", CarType: "nissan", Models: []string{"patrol"}, Category: "lighting", Price: 650, OriginalPrice: 720, PartNumber: "LUM-11005", Image: "/images/parts/headlight.jpg", Stock: 5, MaxPerOrder: 2},
	{ID: "9", NameAR: "سير المحرك", NameEN: "Timing belt", Brand: "Gates", CarType: "kia", Models: []string{"cerato", "optima"}, Category: "engine", Price: 180, PartNumber: "K015603XS", Image: "/images/parts/timing-belt.jpg", Stock: 18},
	{ID: "10", NameAR: "مرآة جانبية", NameEN: "Side mirror", Brand: "TYC", CarType: "kia", Models: []string{"sportage"}, Category: "body", Price: 230, PartNumber: "TYC-3130", Image: "/images/parts/mirror.jpg", Stock: 9},
	{ID: "11", NameAR: "مضخة ماء", NameEN: "Water pump", Brand: "Aisin", CarType: "toyota", Models: []string{"camry", "rav4"}, Category: "engine", Price: 275, OriginalPrice: 300, PartNumber: "WPT-190", Image: "/images/parts/water-pump.jpg", Stock: 14},
	{ID: "12", NameAR: "دينامو", NameEN: "Alternator", Brand: "Denso", CarType: "honda", Models: []string{"accord"}, Category: "electrical", Price: 890, PartNumber: "DAN-1075", Image: "/images/parts/alternator.jpg", Stock: 3},
}
