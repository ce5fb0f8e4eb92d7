package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
	"github.com/KaramelBytes/insightsheet-cli/internal/utils"
)

// JSON renders the rows as an array of header-keyed objects.
func JSON(t table.Table) ([]byte, error) {
	return utils.PrettyJSON(t.Records())
}

// Encode serialises t in the format implied by filename's extension.
func Encode(filename string, t table.Table) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return []byte(CSV(t)), nil
	case ".xlsx":
		return XLSX(t)
	case ".json":
		return JSON(t)
	case ".md", ".markdown":
		return []byte(Markdown(t)), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", filepath.Ext(filename))
	}
}

// WriteFile encodes t by extension and writes it atomically.
func WriteFile(path string, t table.Table) error {
	b, err := Encode(path, t)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}
