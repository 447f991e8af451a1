package models

import (
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const productIdPrefix = "P-"

type Product struct {
	ID               string          `json:"id"`
	ProductId        string          `json:"productId"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category"`
	Quantity         int             `json:"quantity"`
	LowStockLimit    int             `json:"lowStockLimit"`
	SellingUnitPrice decimal.Decimal `json:"sellingUnitPrice"`
	BuyingUnitPrice  decimal.Decimal `json:"buyingUnitPrice"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// IsLowStock reports whether the quantity has fallen to or below the
// configured threshold.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockLimit
}

type NewProduct struct {
	Title            string          `json:"title" validate:"required"`
	Description      string          `json:"description"`
	Category         string          `json:"category" validate:"required"`
	Quantity         int             `json:"quantity" validate:"min=0"`
	LowStockLimit    int             `json:"lowStockLimit" validate:"min=0"`
	SellingUnitPrice decimal.Decimal `json:"sellingUnitPrice"`
	BuyingUnitPrice  decimal.Decimal `json:"buyingUnitPrice"`
}

func (input *NewProduct) Validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.SellingUnitPrice.IsNegative() {
		return errNegativePrice("sellingUnitPrice")
	}
	if input.BuyingUnitPrice.IsNegative() {
		return errNegativePrice("buyingUnitPrice")
	}
	return nil
}

type ProductPatch struct {
	Title            *string          `json:"title,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Category         *string          `json:"category,omitempty"`
	Quantity         *int             `json:"quantity,omitempty"`
	LowStockLimit    *int             `json:"lowStockLimit,omitempty"`
	SellingUnitPrice *decimal.Decimal `json:"sellingUnitPrice,omitempty"`
	BuyingUnitPrice  *decimal.Decimal `json:"buyingUnitPrice,omitempty"`
}

type ProductRepository struct {
	col collection[Product]
}

func NewProductRepository(store localstore.BlobStore, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{col: newCollection[Product](ProductsKey, store, logger)}
}

func (r *ProductRepository) List() []Product {
	return r.col.load("List")
}

func (r *ProductRepository) Get(id string) (Product, bool) {
	for _, p := range r.col.load("Get") {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Create assigns both the opaque id and the human-readable P-nnnn code.
func (r *ProductRepository) Create(input NewProduct) Product {
	now := nowUTC()
	p := Product{
		ID:               uuid.NewString(),
		ProductId:        r.GenerateProductId(),
		Title:            input.Title,
		Description:      input.Description,
		Category:         input.Category,
		Quantity:         input.Quantity,
		LowStockLimit:    input.LowStockLimit,
		SellingUnitPrice: input.SellingUnitPrice,
		BuyingUnitPrice:  input.BuyingUnitPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	products := r.col.load("Create")
	products = append(products, p)
	r.col.persist("Create", products)

	return p
}

func (r *ProductRepository) Update(id string, patch ProductPatch) (Product, bool) {
	products := r.col.load("Update")
	for i, p := range products {
		if p.ID != id {
			continue
		}
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Quantity != nil {
			p.Quantity = *patch.Quantity
		}
		if patch.LowStockLimit != nil {
			p.LowStockLimit = *patch.LowStockLimit
		}
		if patch.SellingUnitPrice != nil {
			p.SellingUnitPrice = *patch.SellingUnitPrice
		}
		if patch.BuyingUnitPrice != nil {
			p.BuyingUnitPrice = *patch.BuyingUnitPrice
		}
		p.UpdatedAt = nowUTC()
		products[i] = p
		r.col.persist("Update", products)
		return p, true
	}
	return Product{}, false
}

func (r *ProductRepository) Delete(id string) bool {
	products := r.col.load("Delete")
	remaining := products[:0:0]
	for _, p := range products {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == len(products) {
		return false
	}
	return r.col.persist("Delete", remaining)
}

func (r *ProductRepository) Put(p Product) bool {
	products := r.col.load("Put")
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			return r.col.persist("Put", products)
		}
	}
	products = append(products, p)
	return r.col.persist("Put", products)
}

// ListCategories returns the distinct category values across all
// products, in first-seen order.
func (r *ProductRepository) ListCategories() []string {
	products := r.col.load("ListCategories")
	categories := make([]string, 0, len(products))
	for _, p := range products {
		categories = append(categories, p.Category)
	}
	return utils.UniqueSlice(categories)
}

// GenerateProductId issues the next free P-nnnn code using the same
// count+1-then-increment-past-collision scan as employee numbers.
func (r *ProductRepository) GenerateProductId() string {
	products := r.col.load("GenerateProductId")
	number := len(products) + 1
	code := utils.FormatSequenceCode(productIdPrefix, number)
	for productIdTaken(products, code) {
		number++
		code = utils.FormatSequenceCode(productIdPrefix, number)
	}
	return code
}

func productIdTaken(products []Product, code string) bool {
	for _, p := range products {
		if p.ProductId == code {
			return true
		}
	}
	return false
}
