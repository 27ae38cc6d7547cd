package export

import (
	"encoding/json"
	"fmt"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// WriteJSON renders records as a pretty-printed JSON array, the direct
// structural serialization of the export records.
func WriteJSON(records []models.Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	return data, nil
}
