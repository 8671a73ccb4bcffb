package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TariffType string

const (
	TariffTypeMain       TariffType = "main"
	TariffTypeAdditional TariffType = "additional"
)

func (t TariffType) Valid() bool {
	return t == TariffTypeMain || t == TariffTypeAdditional
}

type InsuranceCompany struct {
	Id        uuid.UUID
	Name      string
	Code      *string
	Slug      *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Tariffs []*Tariff
}

// IdentityKey is the stable key used for knowledge-base metadata: code, then slug, then name.
func (c *InsuranceCompany) IdentityKey() string {
	if c == nil {
		return ""
	}
	return identityKey(c.Code, c.Slug, c.Name)
}

type Tariff struct {
	Id        uuid.UUID
	Name      string
	Code      *string
	Slug      *string
	CompanyId uuid.UUID
	Type      TariffType
	CreatedAt time.Time
	UpdatedAt time.Time

	AdditionalTariffs []*Tariff
}

func (t *Tariff) IdentityKey() string {
	if t == nil {
		return ""
	}
	return identityKey(t.Code, t.Slug, t.Name)
}

func identityKey(code, slug *string, name string) string {
	if code != nil && strings.TrimSpace(*code) != "" {
		return strings.TrimSpace(*code)
	}
	if slug != nil && strings.TrimSpace(*slug) != "" {
		return strings.TrimSpace(*slug)
	}
	return strings.TrimSpace(name)
}
