package config

import (
	"fmt"

	"medivoice/models"
	"medivoice/services/catalog"

	"github.com/spf13/viper"
)

// LoadCatalog builds the doctor catalog from a YAML file with a top-level
// "doctors" list, or returns the built-in catalog when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var doctors []models.Doctor
	if err := v.UnmarshalKey("doctors", &doctors); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	cat, err := catalog.New(doctors)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return cat, nil
}
