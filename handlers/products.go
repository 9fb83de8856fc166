package handlers

import (
	"strings"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/services"
)

type createProductRequest struct {
	MediaFields
	Name        string  `json:"name" form:"name" validate:"required,max=200"`
	Description string  `json:"description" form:"description" validate:"max=5000"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
	Category    string  `json:"category" form:"category" validate:"max=100"`
	Stock       int     `json:"stock" form:"stock" validate:"gte=0"`
}

// ProductHandler serves /api/products.
type ProductHandler = CatalogHandler[models.Product, *models.Product, createProductRequest, *createProductRequest]

// NewProductHandler creates the product routes. Uploaded files above maxBytes are rejected.
func NewProductHandler(svc *services.CatalogService[models.Product, *models.Product], maxBytes int64) *ProductHandler {
	return NewCatalogHandler[models.Product, *models.Product, createProductRequest](svc, "product", maxBytes, buildProduct)
}

func buildProduct(req *createProductRequest, actor models.Actor) (*models.Product, error) {
	return &models.Product{
		SellerID:    actor.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Stock:       req.Stock,
	}, nil
}
