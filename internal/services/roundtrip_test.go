package services

import (
	"encoding/json"

	"github.com/javajoker/fertiscan-backend/internal/document"
)

// A digitized form whose company and manufacturer share a name, with equal
// length bilingual lists so the export has nothing to pad.
const digitizedForm = `{
  "company_name": "GreenGrow Inc.",
  "company_address": "123 Green Lane, Calgary",
  "company_website": "https://greengrow.example",
  "company_phone_number": "+1 800 555 0100",
  "manufacturer_name": "GreenGrow Inc.",
  "manufacturer_address": "9 Factory Rd, Winnipeg",
  "manufacturer_website": null,
  "manufacturer_phone_number": "+1 204 555 0142",
  "fertiliser_name": "SuperGrow 20-20-20",
  "registration_number": [{"identifier": "2018007A", "type": "fertilizer_product"}],
  "lot_number": "L987654321",
  "weight": [{"value": 25, "unit": "kg"}, "55 lb"],
  "density": {"value": "1,2", "unit": "g/cm3"},
  "volume": "20.8 L",
  "npk": "20-20-20",
  "cautions_en": ["Keep out of reach of children.", "Avoid contact with eyes."],
  "cautions_fr": ["Tenir hors de portée des enfants.", "Éviter le contact avec les yeux."],
  "instructions_en": ["Dissolve in water."],
  "instructions_fr": ["Dissoudre dans l'eau."],
  "guaranteed_analysis_en": {"title": "Guaranteed Analysis", "nutrients": [
    {"nutrient": "Total Nitrogen (N)", "value": 20, "unit": "%"},
    {"nutrient": "Soluble Potash (K2O)", "value": "20", "unit": "%"}]},
  "guaranteed_analysis_fr": {"title": "Analyse garantie", "nutrients": [
    {"nutrient": "Azote total (N)", "value": 20, "unit": "%"},
    {"nutrient": "Potasse soluble (K2O)", "value": 20, "unit": "%"}]}
}`

func (s *InspectionServiceTestSuite) importForm(form string) (*document.Inspection, map[string]interface{}) {
	var raw map[string]interface{}
	s.Require().NoError(json.Unmarshal([]byte(form), &raw))
	doc, err := document.Import(raw)
	s.Require().NoError(err)
	return doc, raw
}

func (s *InspectionServiceTestSuite) TestRequiredFieldsSurviveImportPersistExport() {
	doc, raw := s.importForm(digitizedForm)

	created, err := s.service.CreateInspection(s.ctx, s.inspector, doc, raw)
	s.Require().NoError(err)
	exported, err := s.service.ExportDocument(s.ctx, inspectionID(s.T(), created))
	s.Require().NoError(err)

	for _, org := range []struct {
		name      string
		want, got *document.OrganizationInformation
	}{
		{"company", doc.Company, exported.Company},
		{"manufacturer", doc.Manufacturer, exported.Manufacturer},
	} {
		s.Require().NotNil(org.got, org.name)
		s.Equal(org.want.Name, org.got.Name, org.name)
		s.Equal(org.want.Address, org.got.Address, org.name)
		s.Equal(org.want.Website, org.got.Website, org.name)
		s.Equal(org.want.PhoneNumber, org.got.PhoneNumber, org.name)
	}
	s.NotEqual(exported.Company.ID, exported.Manufacturer.ID)
	s.Equal("9 Factory Rd, Winnipeg", *exported.Manufacturer.Address)
	s.Equal("123 Green Lane, Calgary", *exported.Company.Address)

	s.Equal(doc.Product.Name, exported.Product.Name)
	s.Equal(doc.Product.LotNumber, exported.Product.LotNumber)
	s.Equal(doc.Product.RegistrationNumber, exported.Product.RegistrationNumber)
	s.Equal(doc.RegistrationNumbers, exported.RegistrationNumbers)
	s.Equal(doc.Product.NPK, exported.Product.NPK)
	s.Equal(20.0, *exported.Product.N)
	s.Equal(doc.Product.Metrics, exported.Product.Metrics)
	s.Equal(1.2, *exported.Product.Metrics.Density.Value)
	s.Equal("L", *exported.Product.Metrics.Volume.Unit)
	s.Len(exported.Product.Metrics.Weight, 2)

	s.Equal(doc.Cautions, exported.Cautions)
	s.Equal(doc.Instructions, exported.Instructions)
	s.Equal(doc.GuaranteedAnalysis.Title, exported.GuaranteedAnalysis.Title)
	s.Equal(doc.GuaranteedAnalysis.En, exported.GuaranteedAnalysis.En)
	s.Equal(doc.GuaranteedAnalysis.Fr, exported.GuaranteedAnalysis.Fr)
}

func (s *InspectionServiceTestSuite) TestCreateInspection_LeavesOtherInspectionsOrganizationsAlone() {
	first := s.create(sampleDocument())

	doc := sampleDocument()
	doc.Company.Address = ptr("1 Elsewhere Blvd")
	second := s.create(doc)

	s.NotEqual(first.Company.ID, second.Company.ID)
	s.Equal("1 Elsewhere Blvd", *second.Company.Address)

	after, err := s.service.ExportDocument(s.ctx, inspectionID(s.T(), first))
	s.Require().NoError(err)
	s.Equal(first, after)
}

func (s *InspectionServiceTestSuite) TestUpdateInspection_OrganizationWithoutIDNeverRewritesShared() {
	first := s.create(sampleDocument())
	second := s.create(sampleDocument())
	s.Require().Equal(first.Company.ID, second.Company.ID)

	doc := sampleDocument()
	doc.Company.Address = ptr("77 Moved St")
	updated, err := s.service.UpdateInspection(s.ctx, inspectionID(s.T(), second), s.inspector, doc)
	s.Require().NoError(err)
	s.NotEqual(first.Company.ID, updated.Company.ID)
	s.Equal("77 Moved St", *updated.Company.Address)

	after, err := s.service.ExportDocument(s.ctx, inspectionID(s.T(), first))
	s.Require().NoError(err)
	s.Equal(first, after)
}
