package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type SeedCategory struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	IconClass    string `yaml:"icon_class"`
	DisplayOrder int    `yaml:"display_order"`
}

type SeedProduct struct {
	Name             string `yaml:"name"`
	Category         string `yaml:"category"` // 對應 SeedCategory.Name
	ShortDescription string `yaml:"short_description"`
	Description      string `yaml:"description"`
	Price            string `yaml:"price"`
	Brand            string `yaml:"brand"`
	SKU              string `yaml:"sku"`
	ImageUrl         string `yaml:"image_url"`
	Stock            int    `yaml:"stock"`
	Featured         bool   `yaml:"featured"`
}

type CatalogSeed struct {
	Categories []SeedCategory `yaml:"categories"`
	Products   []SeedProduct  `yaml:"products"`
}

// yaml path : docs/catalog_seed.yaml
func LoadCatalogSeed(path string) (*CatalogSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	seed := &CatalogSeed{}
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, err
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return seed, nil
}

// Validate 商品的分類必須存在於檔案內, 價格可解析
func (s *CatalogSeed) Validate() error {
	names := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if c.Name == "" {
			return fmt.Errorf("seed category without name")
		}
		names[c.Name] = struct{}{}
	}
	for _, p := range s.Products {
		if _, ok := names[p.Category]; !ok {
			return fmt.Errorf("seed product %q: unknown category %q", p.Name, p.Category)
		}
		if _, err := decimal.NewFromString(p.Price); err != nil {
			return fmt.Errorf("seed product %q: invalid price %q", p.Name, p.Price)
		}
		if p.Stock < 0 {
			return fmt.Errorf("seed product %q: negative stock", p.Name)
		}
	}
	return nil
}
