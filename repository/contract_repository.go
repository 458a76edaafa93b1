package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clauselens-backend/models"
)

// ContractRepository persists contracts as JSON files, one per
// contract, under a data directory.
type ContractRepository struct {
	dir string
}

// NewContractRepository creates the contracts directory if needed.
func NewContractRepository(dataDir string) (*ContractRepository, error) {
	dir := filepath.Join(dataDir, "contracts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create contracts directory: %w", err)
	}
	return &ContractRepository{dir: dir}, nil
}

// NewContractRepositoryFromEnv uses DATA_DIR, defaulting to ./data.
func NewContractRepositoryFromEnv() (*ContractRepository, error) {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	return NewContractRepository(dataDir)
}

func (r *ContractRepository) path(contractID string) string {
	return filepath.Join(r.dir, contractID+".json")
}

// Save writes the contract, replacing any previous version. The write
// goes through a temp file and rename so a crash never leaves a
// half-written contract behind.
func (r *ContractRepository) Save(contract *models.Contract) error {
	data, err := json.MarshalIndent(contract, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal contract %s: %w", contract.ID, err)
	}

	tmp := r.path(contract.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write contract %s: %w", contract.ID, err)
	}
	if err := os.Rename(tmp, r.path(contract.ID)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to store contract %s: %w", contract.ID, err)
	}
	return nil
}

// Load reads a contract by id. Returns (nil, nil) when the contract
// does not exist.
func (r *ContractRepository) Load(contractID string) (*models.Contract, error) {
	data, err := os.ReadFile(r.path(contractID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contract %s: %w", contractID, err)
	}

	var contract models.Contract
	if err := json.Unmarshal(data, &contract); err != nil {
		return nil, fmt.Errorf("failed to parse contract %s: %w", contractID, err)
	}

	// Labels from disk may predate the canonical type set.
	for i := range contract.Clauses {
		contract.Clauses[i].ClauseType = models.NormalizeClauseType(string(contract.Clauses[i].ClauseType))
	}
	return &contract, nil
}

// List returns metadata for every stored contract, newest first.
// Unreadable files are skipped rather than failing the whole listing.
func (r *ContractRepository) List() ([]models.ContractMetadata, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read contracts directory: %w", err)
	}

	metadata := make([]models.ContractMetadata, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		contract, err := r.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil || contract == nil {
			continue
		}
		metadata = append(metadata, contract.Metadata())
	}

	sort.Slice(metadata, func(i, j int) bool {
		return metadata[i].UploadedAt.After(metadata[j].UploadedAt)
	})
	return metadata, nil
}

// Delete removes a stored contract. Returns false when it did not
// exist.
func (r *ContractRepository) Delete(contractID string) (bool, error) {
	err := os.Remove(r.path(contractID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete contract %s: %w", contractID, err)
	}
	return true, nil
}
