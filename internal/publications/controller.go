package publications

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrcamilo11/upblioteca-core/internal/cache"
	"github.com/hrcamilo11/upblioteca-core/internal/config"
	"github.com/hrcamilo11/upblioteca-core/internal/database"
	"github.com/hrcamilo11/upblioteca-core/internal/logger"
)

const featuredCacheTTL = time.Minute

type RatingResponse struct {
	UserID uint `json:"user_id"`
	Value  int  `json:"value"`
}

type PublicationResponse struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Subject       string           `json:"subject"`
	University    string           `json:"university"`
	AuthorID      uint             `json:"author_id"`
	AuthorName    string           `json:"author_name,omitempty"`
	FileName      string           `json:"file_name,omitempty"`
	Featured      bool             `json:"featured"`
	DownloadCount int64            `json:"download_count"`
	AverageRating float64          `json:"average_rating"`
	Ratings       []RatingResponse `json:"ratings"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func toResponse(p *Publication) PublicationResponse {
	ratings := make([]RatingResponse, 0, len(p.Ratings))
	for _, r := range p.Ratings {
		ratings = append(ratings, RatingResponse{UserID: r.UserID, Value: r.Value})
	}
	resp := PublicationResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Subject:       p.Subject,
		University:    p.University,
		AuthorID:      p.AuthorID,
		FileName:      p.FileName,
		Featured:      p.Featured,
		DownloadCount: p.DownloadCount,
		AverageRating: AverageRating(p.Ratings),
		Ratings:       ratings,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Author != nil {
		resp.AuthorName = p.Author.Username
	}
	return resp
}

func toResponses(pubs []Publication) []PublicationResponse {
	out := make([]PublicationResponse, 0, len(pubs))
	for i := range pubs {
		out = append(out, toResponse(&pubs[i]))
	}
	return out
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Ratings").Preload("Author")
}

func CreatePublicationHandler(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	subject := strings.TrimSpace(c.PostForm("subject"))
	university := strings.TrimSpace(c.PostForm("university"))
	if name == "" || subject == "" || university == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, subject and university are required"})
		return
	}

	uid := c.MustGet("user_id").(uint)

	pub := Publication{
		Name:       name,
		Slug:       uniqueSlug(name),
		Subject:    subject,
		University: university,
		AuthorID:   uid,
	}

	if fh, err := c.FormFile("file"); err == nil {
		stored := uuid.New().String() + filepath.Ext(fh.Filename)
		dst := filepath.Join(config.C.UploadDir, stored)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
			return
		}
		pub.FileName = fh.Filename
		pub.FilePath = dst
		pub.FileSize = fh.Size
	}

	if err := database.DB.Create(&pub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toResponse(&pub))
}

func ListPublicationsHandler(c *gin.Context) {
	var pubs []Publication
	if err := withAssociations(database.DB).
		Order("created_at DESC").Find(&pubs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponses(pubs))
}

func ListFeaturedHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	if limit < 1 || limit > 20 {
		limit = 6
	}

	key := "featured:" + strconv.Itoa(limit)
	var cached []PublicationResponse
	if cache.GetJSON(c.Request.Context(), key, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	var pubs []Publication
	if err := withAssociations(database.DB).
		Where("featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&pubs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := toResponses(pubs)
	cache.SetJSON(c.Request.Context(), key, resp, featuredCacheTTL)
	c.JSON(http.StatusOK, resp)
}

func SearchPublicationsHandler(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var pubs []Publication
	if err := withAssociations(database.DB).
		Where("LOWER(name) LIKE ? OR LOWER(subject) LIKE ? OR LOWER(university) LIKE ?",
			pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&pubs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toResponses(pubs))
}

// GetPublicationHandler resolves the path parameter as a numeric id
// first and falls back to slug lookup.
func GetPublicationHandler(c *gin.Context) {
	pub, ok := findPublication(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(pub))
}

type updateDTO struct {
	Name       *string `json:"name"`
	Subject    *string `json:"subject"`
	University *string `json:"university"`
	Featured   *bool   `json:"featured"`
}

func UpdatePublicationHandler(c *gin.Context) {
	pub, ok := findPublication(c)
	if !ok {
		return
	}
	if !isAuthor(c, pub) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author can modify a publication"})
		return
	}

	var body updateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// the slug stays stable across renames
	if body.Name != nil && *body.Name != "" {
		pub.Name = *body.Name
	}
	if body.Subject != nil && *body.Subject != "" {
		pub.Subject = *body.Subject
	}
	if body.University != nil && *body.University != "" {
		pub.University = *body.University
	}
	if body.Featured != nil {
		pub.Featured = *body.Featured
	}

	if err := database.DB.Omit(clause.Associations).Save(pub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toResponse(pub))
}

func DeletePublicationHandler(c *gin.Context) {
	pub, ok := findPublication(c)
	if !ok {
		return
	}
	if !isAuthor(c, pub) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author can delete a publication"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publication_id = ?", pub.ID).Delete(&Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Publication{}, pub.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if pub.FilePath != "" {
		if err := os.Remove(pub.FilePath); err != nil {
			logger.L().Warn("failed to remove stored file",
				zap.String("path", pub.FilePath), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "publication deleted"})
}

type rateDTO struct {
	Rating int `json:"rating" binding:"required"`
}

func RatePublicationHandler(c *gin.Context) {
	pub, ok := findPublication(c)
	if !ok {
		return
	}

	var body rateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	// rater identity comes from the token, never the request body
	uid := c.MustGet("user_id").(uint)

	rating := Rating{PublicationID: pub.ID, UserID: uid, Value: body.Rating}
	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "publication_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	reloaded, ok := reload(c, pub.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(reloaded))
}

func DownloadPublicationHandler(c *gin.Context) {
	pub, ok := findPublication(c)
	if !ok {
		return
	}

	if err := database.DB.Model(&Publication{}).
		Where("id = ?", pub.ID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	reloaded, ok := reload(c, pub.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(reloaded))
}

func GetPublicationFileHandler(c *gin.Context) {
	pub, ok := findPublication(c)
	if !ok {
		return
	}
	if pub.FilePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "publication has no file"})
		return
	}
	c.FileAttachment(pub.FilePath, pub.FileName)
}

func findPublication(c *gin.Context) (*Publication, bool) {
	identifier := c.Param("id")

	var pub Publication
	var err error
	if id, parseErr := strconv.Atoi(identifier); parseErr == nil {
		err = withAssociations(database.DB).First(&pub, id).Error
	} else {
		err = withAssociations(database.DB).Where("slug = ?", identifier).First(&pub).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "publication not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return &pub, true
}

func reload(c *gin.Context, id uint) (*Publication, bool) {
	var pub Publication
	if err := withAssociations(database.DB).First(&pub, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return &pub, true
}

func isAuthor(c *gin.Context, pub *Publication) bool {
	v, ok := c.Get("user_id")
	if !ok {
		return false
	}
	uid, ok := v.(uint)
	return ok && uid == pub.AuthorID
}

func uniqueSlug(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = uuid.New().String()[:8]
	}
	var count int64
	database.DB.Model(&Publication{}).Where("slug = ? OR slug LIKE ?", base, base+"-%").Count(&count)
	if count == 0 {
		return base
	}
	return base + "-" + uuid.New().String()[:8]
}
