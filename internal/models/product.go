package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Document is a product record as it comes back from the store.
// Every field is optional because the store does not enforce a schema.
type Document struct {
	ID          *primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       *string             `bson:"title,omitempty" json:"title,omitempty"`
	Description *string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       *float64            `bson:"price,omitempty" json:"price,omitempty"`
	Category    *string             `bson:"category,omitempty" json:"category,omitempty"`
	InStock     *bool               `bson:"in_stock,omitempty" json:"in_stock,omitempty"`
	ImageURL    *string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Brand       *string             `bson:"brand,omitempty" json:"brand,omitempty"`
}

// Product represents a product in the catalog as served to clients.
type Product struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Category    *string `json:"category"`
	InStock     bool    `json:"in_stock"`
	ImageURL    *string `json:"image_url"`
	Brand       *string `json:"brand"`
}

// ProductInput is the payload accepted when creating a product.
type ProductInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	InStock     *bool    `json:"in_stock"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	Brand       *string  `json:"brand" validate:"omitempty,max=100"`
}

// Normalize applies the insert-time defaults: a product without an explicit
// stock flag is stocked.
func (p ProductInput) Normalize() ProductInput {
	if p.InStock == nil {
		inStock := true
		p.InStock = &inStock
	}
	return p
}

// ToDocument converts the input into a store document without an id.
func (p ProductInput) ToDocument() Document {
	title := p.Title
	return Document{
		Title:       &title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		InStock:     p.InStock,
		ImageURL:    p.ImageURL,
		Brand:       p.Brand,
	}
}
