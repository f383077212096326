package services

import (
	"fmt"
	"math"

	"perkakas/internal/models"
)

// ToProduct maps a stored document to its outbound form. A missing price
// becomes 0 and a missing stock flag becomes true; the text fields pass
// through as they are. A document without an id, or with a price that is not
// a finite number, is reported as models.ErrCorruptRecord.
func ToProduct(doc models.Document) (models.Product, error) {
	if doc.ID == nil {
		return models.Product{}, fmt.Errorf("product without id: %w", models.ErrCorruptRecord)
	}

	price := 0.0
	if doc.Price != nil {
		price = *doc.Price
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return models.Product{}, fmt.Errorf("product %s has price %v: %w", doc.ID.Hex(), price, models.ErrCorruptRecord)
	}

	inStock := true
	if doc.InStock != nil {
		inStock = *doc.InStock
	}

	return models.Product{
		ID:          models.EncodeID(*doc.ID),
		Title:       doc.Title,
		Description: doc.Description,
		Price:       price,
		Category:    doc.Category,
		InStock:     inStock,
		ImageURL:    doc.ImageURL,
		Brand:       doc.Brand,
	}, nil
}

// ToProducts maps every document, stopping at the first corrupt one.
func ToProducts(docs []models.Document) ([]models.Product, error) {
	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := ToProduct(doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
