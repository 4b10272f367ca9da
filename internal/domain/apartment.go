package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApartmentType representa uma categoria de unidade habitacional
// (e.g., "2BR Sunset") usada para escopo de requisitos e propostas.
type ApartmentType struct {
	ID               string          `json:"apartmentTypeId"`
	Name             string          `json:"name"`
	NumberOfBedrooms int             `json:"numberOfBedrooms"`
	Description      string          `json:"description"`
	FloorAreaMin     decimal.Decimal `json:"floorAreaMin"`
	FloorAreaMax     decimal.Decimal `json:"floorAreaMax"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ApartmentTypeRequirement é o registro de requisito de mobiliário de um
// tipo de apartamento (tipo × família × subfamília × quantidade).
// É um agregado CRUD independente, sem estado derivado e sem relação
// com o cálculo de preços da proposta.
type ApartmentTypeRequirement struct {
	ID              string    `json:"requirementId"`
	ApartmentTypeID string    `json:"apartmentTypeId"`
	FamilyID        string    `json:"familyId"`
	SubFamilyID     string    `json:"subFamilyId"`
	Quantity        int       `json:"quantity"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
