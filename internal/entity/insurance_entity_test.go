package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name   string
		tariff *Tariff
		want   string
	}{
		{"code wins", &Tariff{Code: ptr(" akti90 "), Slug: ptr("aktimed-plus"), Name: "AktiMed Plus 90"}, "akti90"},
		{"blank code falls to slug", &Tariff{Code: ptr("  "), Slug: ptr("aktimed-plus"), Name: "AktiMed Plus 90"}, "aktimed-plus"},
		{"name as last resort", &Tariff{Name: " AktiMed Plus 90 "}, "AktiMed Plus 90"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tariff.IdentityKey())
		})
	}

	var company *InsuranceCompany
	assert.Equal(t, "", company.IdentityKey())
	assert.Equal(t, "allianz", (&InsuranceCompany{Slug: ptr("allianz"), Name: "Allianz"}).IdentityKey())
}

func TestHasCompleteProfile(t *testing.T) {
	companyID, tariffID := uuid.New(), uuid.New()
	u := &User{
		FirstName: "Anna", LastName: "Schmidt", Email: "anna@example.com", Phone: "0151",
		Street: "Hauptstr. 1", PostalCode: "10115", City: "Berlin",
	}
	assert.False(t, u.HasCompleteProfile())

	u.InsuranceCompanyId, u.TariffId = &companyID, &tariffID
	assert.True(t, u.HasCompleteProfile())

	u.City = " "
	assert.False(t, u.HasCompleteProfile())
}
