package main

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"email-qa/pkg/models"
	"email-qa/pkg/services/compare"
	emailsvc "email-qa/pkg/services/email"
	"email-qa/pkg/services/ocr"
	pdfsvc "email-qa/pkg/services/pdf"
	"email-qa/pkg/services/pipeline"
	"email-qa/pkg/services/review"
)

var pipe *pipeline.Pipeline

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system envs")
	}

	// The OCR engine is optional: without Azure credentials, embedded
	// images simply contribute no text.
	var engine ocr.Engine
	endpoint := getEnv("AZURE_VISION_ENDPOINT", "")
	apiKey := getEnv("AZURE_VISION_KEY", "")
	if endpoint != "" && apiKey != "" {
		engine = ocr.NewAzureService(endpoint, apiKey)
	} else {
		log.Println("Azure Vision credentials not set, OCR disabled")
	}

	// The semantic reviewer is optional in the same way.
	reviewer := review.NewReviewer(getEnv("OPENAI_API_KEY", ""))
	if !reviewer.Enabled() {
		log.Println("OPENAI_API_KEY not set, semantic review disabled")
	}

	pipe = pipeline.New(
		pdfsvc.NewService(),
		emailsvc.NewService(engine),
		compare.New(),
		reviewer,
	)

	// Set up Gin router
	r := setupRouter()

	// Start the server
	port := getEnv("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// setupRouter defines the HTTP routes.
func setupRouter() *gin.Engine {
	r := gin.Default()
	r.POST("/compare", compareDocuments)
	r.GET("/health", health)
	return r
}

// compareDocuments runs one comparison over the uploaded review PDF and
// delivered email.
func compareDocuments(c *gin.Context) {
	pdfBytes, err := formFileBytes(c, "pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or unreadable 'pdf' file field"})
		return
	}
	emlBytes, err := formFileBytes(c, "email")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or unreadable 'email' file field"})
		return
	}

	report, err := pipe.Run(c.Request.Context(), pdfBytes, emlBytes)
	if err != nil {
		var perr *models.ParseError
		if errors.As(err, &perr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": perr.Error(), "document": perr.Doc})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comparison failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// formFileBytes reads one uploaded multipart file into memory.
func formFileBytes(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readAll(header)
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
