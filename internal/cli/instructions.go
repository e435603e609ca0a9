package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vikasavnish/hunterbot/internal/models"
)

// LoadInstructions reads trade instructions from a .json, .yaml or .yml file
func LoadInstructions(path string) ([]models.TradeInstruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []models.TradeInstruction
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &rows)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rows)
	default:
		return nil, fmt.Errorf("unsupported instruction file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s holds no instructions", path)
	}
	return rows, nil
}
