package services

import "perkakas/internal/models"

// DefaultCatalog returns the baseline products inserted by seeding, in the
// order they are processed.
func DefaultCatalog() []models.ProductInput {
	return []models.ProductInput{
		baseline("Cordless Drill 18V", "Compact brushless drill/driver with two batteries and a fast charger.", 129.99, "power-tools", "VoltMaster", "https://images.unsplash.com/photo-1504148455328-c376907d081c"),
		baseline("Circular Saw 7-1/4\"", "15 amp circular saw with laser guide and carbide blade.", 99.00, "power-tools", "CutPro", "https://images.unsplash.com/photo-1572981779307-38b8cabb2407"),
		baseline("Claw Hammer 16oz", "Fiberglass handle hammer with anti-vibration grip.", 19.49, "hand-tools", "IronGrip", "https://images.unsplash.com/photo-1586864387789-628af9feed72"),
		baseline("Screwdriver Set (12pc)", "Phillips, flat and torx screwdrivers with magnetic tips.", 24.95, "hand-tools", "IronGrip", "https://images.unsplash.com/photo-1426927308491-6380b6a9936f"),
		baseline("Adjustable Wrench 10\"", "Chrome vanadium wrench with wide jaw capacity.", 14.75, "hand-tools", "TorqueLine", "https://images.unsplash.com/photo-1581147036324-c1c89c2c8b5c"),
		baseline("Wood Screws Assortment", "500 piece zinc plated wood screw kit in a sorted case.", 12.99, "fasteners", "FastenRight", "https://images.unsplash.com/photo-1597484662317-9bd7bdda2eb5"),
		baseline("Interior Paint - White 1 Gal", "Low-VOC matte interior paint with one coat coverage.", 34.50, "paint", "ColorCraft", "https://images.unsplash.com/photo-1562259949-e8e7689d7828"),
		baseline("Safety Glasses", "Anti-fog, scratch resistant safety glasses rated to ANSI Z87.1.", 8.99, "safety", "ShieldWorks", "https://images.unsplash.com/photo-1618090584176-7132b9911657"),
	}
}

func baseline(title, description string, price float64, category, brand, imageURL string) models.ProductInput {
	inStock := true
	return models.ProductInput{
		Title:       title,
		Description: &description,
		Price:       &price,
		Category:    &category,
		InStock:     &inStock,
		ImageURL:    &imageURL,
		Brand:       &brand,
	}
}
