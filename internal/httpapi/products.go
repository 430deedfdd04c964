package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/codespace555/arya-co/internal/models"
	"github.com/codespace555/arya-co/internal/notify"
	"github.com/codespace555/arya-co/internal/store"
)

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.backend.Products(c.Request.Context())
	if err != nil {
		s.fetchFailed(c, err, "products")
		return
	}
	c.JSON(200, products)
}

type productRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit"`
	ImageURL    string  `json:"imageUrl"`
	PublicID    string  `json:"publicId"`
	Category    string  `json:"category"`
}

func (r productRequest) product() models.Product {
	return models.Product{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		ImageURL:    r.ImageURL,
		PublicID:    r.PublicID,
		Category:    r.Category,
	}
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.Name == "" || req.Price <= 0 {
		c.JSON(400, gin.H{"error": "please enter valid name and price"})
		return
	}
	if req.Unit == "" {
		req.Unit = models.UnitPcs
	}
	if req.Unit != models.UnitKg && req.Unit != models.UnitPcs {
		c.JSON(400, gin.H{"error": "unit must be kg or pcs"})
		return
	}
	created, err := s.backend.CreateProduct(c.Request.Context(), req.product())
	if err != nil {
		s.log.WithError(err).Warn("create product failed")
		c.JSON(502, gin.H{"error": "failed to save product"})
		return
	}
	s.notifier.Notify(notify.Success, "Product added successfully")
	c.JSON(201, created)
}

// updateProduct applies merge semantics: fields absent from the request keep
// their stored values.
func (s *Server) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.Unit != "" && req.Unit != models.UnitKg && req.Unit != models.UnitPcs {
		c.JSON(400, gin.H{"error": "unit must be kg or pcs"})
		return
	}
	err := s.backend.UpdateProduct(c.Request.Context(), c.Param("productId"), req.product())
	if err == store.ErrNotFound {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		s.log.WithError(err).Warn("update product failed")
		c.JSON(502, gin.H{"error": "failed to save product"})
		return
	}
	s.notifier.Notify(notify.Success, "Product updated successfully")
	c.JSON(200, gin.H{"status": "updated"})
}

func (s *Server) deleteProduct(c *gin.Context) {
	err := s.backend.DeleteProduct(c.Request.Context(), c.Param("productId"))
	if err == store.ErrNotFound {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		s.log.WithError(err).Warn("delete product failed")
		c.JSON(502, gin.H{"error": "failed to delete product"})
		return
	}
	s.notifier.Notify(notify.Success, "Product deleted")
	c.JSON(200, gin.H{"status": "deleted"})
}
