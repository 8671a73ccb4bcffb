package voiceflow

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed mappings.yaml
var defaultMappings []byte

// Mappings translate catalog identity keys into knowledge-base metadata keys.
// Unmapped keys pass through unchanged.
type Mappings struct {
	CompanyCodes           map[string]string `yaml:"company_codes"`
	TariffGroups           map[string]string `yaml:"tariff_groups"`
	AdditionalTariffGroups map[string]string `yaml:"additional_tariff_groups"`
}

// LoadMappings reads mappings from path, or the built-in set when path is empty.
func LoadMappings(path string) (*Mappings, error) {
	data := defaultMappings
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read mappings: %w", err)
		}
		data = raw
	}
	return ParseMappings(data)
}

func ParseMappings(data []byte) (*Mappings, error) {
	var m Mappings
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mappings: %w", err)
	}
	return &m, nil
}

func (m *Mappings) CompanyCode(key string) string {
	return lookup(m.CompanyCodes, key)
}

func (m *Mappings) TariffGroup(key string) string {
	return lookup(m.TariffGroups, key)
}

func (m *Mappings) AdditionalTariffGroup(key string) string {
	return lookup(m.AdditionalTariffGroups, key)
}

func lookup(table map[string]string, key string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return key
}

// Profile carries the identity keys of a user's insurance selection.
type Profile struct {
	CompanyKey     string
	TariffKey      string
	AdditionalKeys []string
}

// BuildVariables produces the session variables used to filter the knowledge base.
func (m *Mappings) BuildVariables(p Profile) map[string]string {
	var addons []string
	for _, key := range p.AdditionalKeys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		addons = append(addons, m.AdditionalTariffGroup(key))
	}

	return map[string]string{
		"insurance_company":  m.CompanyCode(strings.TrimSpace(p.CompanyKey)),
		"main_tariff":        m.TariffGroup(strings.TrimSpace(p.TariffKey)),
		"additional_tariffs": strings.Join(addons, ", "),
	}
}
