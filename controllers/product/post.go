package productcontroller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mMahabub/proshopp-api/models"
	"gorm.io/gorm"
)

func uploadsDir() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// slugify turns "Apple AirPods Pro" into "apple-airpods-pro".
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// CreateProduct creates a product with categories and an image upload
// (multipart form).
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		if name == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		var stock int
		if stockStr := c.PostForm("stock"); stockStr != "" {
			if stock, err = strconv.Atoi(stockStr); err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
		}

		slug := c.PostForm("slug")
		if slug == "" {
			slug = slugify(name)
		}

		isFeatured := c.PostForm("is_featured") == "true"

		var categories []models.Category
		if categoryIDsStr := c.PostForm("category_ids"); categoryIDsStr != "" {
			var parsedIDs []uint
			for _, tok := range strings.Split(categoryIDsStr, ",") {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				id64, parseErr := strconv.ParseUint(tok, 10, 64)
				if parseErr != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
					return
				}
				parsedIDs = append(parsedIDs, uint(id64))
			}
			if len(parsedIDs) > 0 {
				if err := db.Where("id IN ?", parsedIDs).Find(&categories).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
					return
				}
			}
		}

		imageURL := ""
		if file, err := c.FormFile("image"); err == nil {
			filename := strings.ReplaceAll(file.Filename, " ", "_")
			saveDir := filepath.Join(uploadsDir(), "products")
			if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create upload folder: %v", err)})
				return
			}
			if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save image: %v", err)})
				return
			}
			imageURL = fmt.Sprintf("/uploads/products/%s", filename)
		}

		newProduct := models.Product{
			Name:        name,
			Slug:        slug,
			Description: c.PostForm("description"),
			Brand:       c.PostForm("brand"),
			Price:       price,
			Stock:       stock,
			Image:       imageURL,
			IsFeatured:  isFeatured,
			Categories:  categories,
		}
		if imageURL != "" {
			newProduct.Images = []string{imageURL}
		}

		if err := db.Create(&newProduct).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, newProduct)
	}
}
