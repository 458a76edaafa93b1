package handlers

import (
	"errors"
	"net/http"
	"strings"

	"clauselens-backend/models"
	"clauselens-backend/repository"
	"clauselens-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContractHandler handles HTTP requests for stored contracts
type ContractHandler struct {
	analysisService *service.AnalysisService
	contractRepo    *repository.ContractRepository
	logger          *zap.Logger
}

// NewContractHandler creates a new contract handler
func NewContractHandler(analysisService *service.AnalysisService, contractRepo *repository.ContractRepository, logger *zap.Logger) *ContractHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractHandler{
		analysisService: analysisService,
		contractRepo:    contractRepo,
		logger:          logger,
	}
}

// ListContracts handles GET /api/contracts
func (h *ContractHandler) ListContracts(c *gin.Context) {
	contracts, err := h.contractRepo.List()
	if err != nil {
		h.logger.Error("failed to list contracts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_ERROR",
				"message": "Error listing contracts",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"contracts": contracts,
		"count":     len(contracts),
	})
}

// GetContract handles GET /api/contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	contractID := c.Param("id")

	contract, err := h.contractRepo.Load(contractID)
	if err != nil {
		h.logger.Error("failed to load contract", zap.String("contract_id", contractID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LOAD_ERROR",
				"message": "Error loading contract",
			},
		})
		return
	}
	if contract == nil {
		h.contractNotFound(c, contractID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"contract": contract,
	})
}

// DeleteContract handles DELETE /api/contracts/:id
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	contractID := c.Param("id")

	deleted, err := h.analysisService.DeleteContract(c.Request.Context(), contractID)
	if err != nil {
		h.logger.Error("failed to delete contract", zap.String("contract_id", contractID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_ERROR",
				"message": "Error deleting contract",
			},
		})
		return
	}
	if !deleted {
		h.contractNotFound(c, contractID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contract deleted",
	})
}

// GetRiskSummary handles GET /api/contracts/:id/risk
func (h *ContractHandler) GetRiskSummary(c *gin.Context) {
	contractID := c.Param("id")

	contract, risks, err := h.analysisService.RiskSummary(c.Request.Context(), contractID)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			h.contractNotFound(c, contractID)
			return
		}
		h.logger.Error("failed to build risk summary", zap.String("contract_id", contractID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RISK_SUMMARY_ERROR",
				"message": "Error building risk summary",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"contract_id": contract.ID,
		"title":       contract.Title,
		"summary":     contract.Metadata(),
		"clauses":     riskEntries(contract, risks),
	})
}

// GetAnalysis handles GET /api/contracts/:id/analysis
func (h *ContractHandler) GetAnalysis(c *gin.Context) {
	contractID := c.Param("id")

	result, err := h.analysisService.ComprehensiveAnalysis(c.Request.Context(), contractID)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			h.contractNotFound(c, contractID)
			return
		}
		h.logger.Error("failed to analyze contract", zap.String("contract_id", contractID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_ERROR",
				"message": "Error performing analysis",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analysis": result,
	})
}

// AnalyzeClauseRequest is the body for clause reanalysis
type AnalyzeClauseRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnalyzeClause handles POST /api/contracts/:id/clauses/:clauseId/analyze
func (h *ContractHandler) AnalyzeClause(c *gin.Context) {
	contractID := c.Param("id")
	clauseID := c.Param("clauseId")

	var req AnalyzeClauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Clause text is required",
			},
		})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Clause text cannot be empty",
			},
		})
		return
	}

	clause, err := h.analysisService.ReanalyzeClause(c.Request.Context(), contractID, clauseID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContractNotFound):
			h.contractNotFound(c, contractID)
		case errors.Is(err, service.ErrClauseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CLAUSE_NOT_FOUND",
					"message": "Clause not found: " + clauseID,
				},
			})
		default:
			h.logger.Error("failed to reanalyze clause",
				zap.String("contract_id", contractID),
				zap.String("clause_id", clauseID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ANALYSIS_ERROR",
					"message": "Error reanalyzing clause",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"clause":  clause,
	})
}

func (h *ContractHandler) contractNotFound(c *gin.Context, contractID string) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "CONTRACT_NOT_FOUND",
			"message": "Contract not found: " + contractID,
		},
	})
}

// riskEntries joins clause records with their assessments for the risk
// summary response.
func riskEntries(contract *models.Contract, risks []models.ClauseRisk) []gin.H {
	byID := make(map[string]*models.Clause, len(contract.Clauses))
	for i := range contract.Clauses {
		byID[contract.Clauses[i].ID] = &contract.Clauses[i]
	}

	entries := make([]gin.H, 0, len(risks))
	for _, risk := range risks {
		entry := gin.H{
			"clause_id":       risk.ClauseID,
			"risk_score":      risk.Score,
			"risk_level":      risk.Level,
			"reasons":         risk.Reasons,
			"recommendations": risk.Recommendations,
		}
		if clause := byID[risk.ClauseID]; clause != nil {
			entry["clause_type"] = clause.ClauseType
			entry["text"] = clause.Text
		}
		entries = append(entries, entry)
	}
	return entries
}
