package handlers

import (
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"clauselens-backend/service"
	"clauselens-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// minContractLength guards against uploads where text extraction
// upstream produced nothing usable.
const minContractLength = 100

// UploadHandler handles HTTP requests for contract ingestion
type UploadHandler struct {
	analysisService *service.AnalysisService
	storage         storage.Storage
	logger          *zap.Logger
	maxFileSize     int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(analysisService *service.AnalysisService, fileStorage storage.Storage, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{
		analysisService: analysisService,
		storage:         fileStorage,
		logger:          logger,
		maxFileSize:     10 * 1024 * 1024, // 10MB
	}
}

// UploadContract handles POST /api/contracts/upload
//
// Accepts a plain-text contract either as a multipart "file" or as a
// "text" form field. PDF extraction and OCR run upstream of this
// service; only extracted text is accepted here.
func (h *UploadHandler) UploadContract(c *gin.Context) {
	title := c.PostForm("title")
	filename := "contract.txt"

	var text string
	fileHeader, err := c.FormFile("file")
	if err == nil {
		if fileHeader.Size > h.maxFileSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FILE_TOO_LARGE",
					"message": "File exceeds the maximum upload size",
				},
			})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FILE_OPEN_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FILE_READ_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		if !utf8.Valid(data) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNSUPPORTED_FILE",
					"message": "Only plain-text contracts are supported; extract PDF text upstream",
				},
			})
			return
		}

		text = string(data)
		filename = fileHeader.Filename
		if title == "" {
			title = strings.TrimSuffix(fileHeader.Filename, ".txt")
		}

		// Keep the original upload around for audit and re-processing.
		if h.storage != nil {
			if _, err := h.storage.Upload(c.Request.Context(), uuid.New(), fileHeader.Filename, strings.NewReader(text)); err != nil {
				h.logger.Warn("failed to store raw upload", zap.Error(err))
			}
		}
	} else {
		text = c.PostForm("text")
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	if len(strings.TrimSpace(text)) < minContractLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_TEXT",
				"message": "Could not read sufficient contract text from the upload",
			},
		})
		return
	}
	if title == "" {
		title = "Untitled contract"
	}

	contract, _, err := h.analysisService.ProcessUpload(c.Request.Context(), title, filename, text)
	if err != nil {
		h.logger.Error("failed to process upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROCESSING_ERROR",
				"message": "Error processing the contract",
			},
		})
		return
	}

	if len(contract.Clauses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_CLAUSES",
				"message": "Could not identify clauses in the document",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"contract_id":  contract.ID,
		"title":        contract.Title,
		"clause_count": len(contract.Clauses),
		"message":      "Contract processed successfully",
	})
}
