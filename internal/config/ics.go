package config

import "fmt"

type ICSConfig struct {
	CompanyName string `yaml:"company_name"`
	ProductName string `yaml:"product_name"`
	Version     string `yaml:"version"`
	Language    string `yaml:"language"`
}

func (cfg *ICSConfig) BuildProdID() string {
	if cfg.Version != "" {
		return fmt.Sprintf("-//%s//%s %s//%s",
			cfg.CompanyName, cfg.ProductName, cfg.Version, cfg.Language)
	}
	return fmt.Sprintf("-//%s//%s//%s",
		cfg.CompanyName, cfg.ProductName, cfg.Language)
}
