package clause

var skeletons = map[Kind]string{
	KindAct: "ACTA NÚMERO {{NUMERO ACTA LETRAS}} ({{NUMERO ACTA}}). LIBRO {{LIBRO}}. FOLIO {{FOLIO}}. " +
		"En la ciudad de {{CIUDAD}}, {{JURISDICCION}}, República Argentina, {{FECHA LETRAS}}, " +
		"ante mí, {{ESCRIBANO}}, {{CARACTER ESCRIBANO}} del Registro Notarial {{REGISTRO}}, " +
		"{{COMPARECE}}: {{COMPARECIENTES}}; {{EL COMPARECIENTE}} {{ES}} {{MAYOR DE EDAD}}, " +
		"{{A QUIEN}} {{IDENTIFICACION}}. Y {{INTERVIENE}} en el carácter de {{CARACTER}}, " +
		"y {{REQUIERE}} mi intervención a fin de certificar {{SU}} {{FIRMA}} en el formulario " +
		"número {{FORMULARIO}} correspondiente al dominio {{DOMINIO}}. Leída que {{LE}} fue, " +
		"{{EL COMPARECIENTE}} así lo {{OTORGA}} y {{FIRMA ANTE MÍ}}, de lo que doy fe.",

	KindCertification: "CERTIFICO: Que {{LA FIRMA}} que {{ANTECEDE}} en el formulario número " +
		"{{FORMULARIO}} correspondiente al dominio {{DOMINIO}} {{HA}} sido {{PUESTA}} en mi " +
		"presencia por {{COMPARECIENTES}}, {{A QUIEN}} {{IDENTIFICACION}}, en el carácter de " +
		"{{CARACTER}}. El requerimiento respectivo ha quedado formalizado mediante ACTA NÚMERO " +
		"{{NUMERO ACTA LETRAS}} ({{NUMERO ACTA}}), al FOLIO {{FOLIO}} del LIBRO {{LIBRO}} de " +
		"Requerimientos para Certificación de Firmas del Registro Notarial {{REGISTRO}}. " +
		"En la ciudad de {{CIUDAD}}, {{JURISDICCION}}, {{FECHA LETRAS}}.",
}
