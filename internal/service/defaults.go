package service

import (
	"github.com/dpshade/scrib-digital/internal/clause"
	"github.com/dpshade/scrib-digital/internal/models"
)

// DefaultTemplates are seeded into a new library
func DefaultTemplates() []*models.Template {
	return []*models.Template{
		{
			ID:          "certificacion-de-firma-modelo-base",
			Title:       "Certificación de Firma (Modelo Base)",
			Description: "Modelo estándar para certificar firmas con el 08.",
			Body: "CERTIFICO que la firma que antecede ha sido puesta en mi presencia por {{NOMBRE COMPLETO}}, " +
				"DNI N° {{DNI}}, quien justifica identidad con {{TIPO DOCUMENTO}}.\n\n" +
				"En la ciudad de {{CIUDAD}}, a los {{DIA}} días del mes de {{MES}} del año {{AÑO}}.",
		},
		{
			ID:                "acta-y-certificacion-08",
			Title:             "Acta de Requerimiento y Certificación (08)",
			Description:       "Acta del libro de requerimientos y banderita para el formulario 08, completadas desde un caso.",
			Kind:              string(clause.KindAct),
			ActBody:           clause.Skeleton(clause.KindAct),
			CertificationBody: clause.Skeleton(clause.KindCertification),
		},
	}
}
