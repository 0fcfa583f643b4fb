package classify

import "fmt"

// Thematic units, used both as labels and to route sub-unit tasks
const (
	UnitNumbers     = "Números"
	UnitAlgebra     = "Álgebra y Funciones"
	UnitGeometry    = "Geometría"
	UnitProbability = "Probabilidad y Estadística"

	FieldSkills  = "Habilidades"
	FieldUnit    = "Unidad Temática"
	FieldSubUnit = "Sub-unidad"
)

// Units lists the thematic units in the order their sub-unit tasks run
var Units = []string{UnitNumbers, UnitAlgebra, UnitGeometry, UnitProbability}

// Task is one labelling pass over a document's questions
type Task struct {
	Name        string
	System      string
	Instruction string
}

const imageNote = " Cada bloque 'PREGUNTA_<id>' tiene su imagen asociada."

var SkillsTask = Task{
	Name: FieldSkills,
	System: `Devuelves SOLO un JSON válido de la forma:
{"<id_pregunta>": {"Habilidades": ["Resolver Problemas"|"Modelar"|"Representar"|"Argumentar", ...]}, ...}

A partir de las IMÁGENES de preguntas PAES M1, clasifica TODAS las habilidades que se evidencian en cada pregunta.

- Resolver Problemas: solucionar una situación aplicando cálculos, conocimientos o estrategias.
- Modelar: traducir una situación a una expresión matemática y usarla para responder.
- Representar: transformar información entre formas matemáticas (símbolos, tablas, gráficos, diagramas).
- Argumentar: justificar la validez de procedimientos o detectar argumentos erróneos.

Reglas:
- Si solo hay manipulación simbólica sin contexto, favorece Representar (no Modelar).
- Si hay contexto pero no se traduce a una expresión, no es Modelar.
- Si el foco es justificar por qué algo es válido, incluye Argumentar.
- Usa exactamente estos rótulos y no agregues texto extra.`,
	Instruction: "Clasifica las habilidades utilizadas en cada pregunta y devuelve SOLO el JSON pedido." + imageNote,
}

var UnitTask = Task{
	Name: FieldUnit,
	System: `Devuelves SOLO un JSON válido de la forma:
{"<id_pregunta>": {"Unidad Temática": ["<unidad>", ...]}, ...}

Eres un experto en evaluación. A partir de las IMÁGENES de preguntas PAES M1, clasifica TODAS las unidades temáticas de cada pregunta.

- Números: enteros y racionales, porcentaje, potencias y raíces enésimas.
- Álgebra y Funciones: expresiones algebraicas, proporcionalidad, ecuaciones e inecuaciones de primer grado, sistemas lineales, función lineal y afín, función cuadrática.
- Geometría: figuras geométricas, cuerpos geométricos, transformaciones isométricas.
- Probabilidad y Estadística: tablas y gráficos, medidas de posición, reglas de las probabilidades.

Reglas:
- Usa exactamente estos rótulos: "Números", "Álgebra y Funciones", "Geometría", "Probabilidad y Estadística".
- Si no hay expresiones algebraicas, no es "Álgebra y Funciones".
- No agregues texto extra.`,
	Instruction: "Clasifica las materias utilizadas en cada pregunta y devuelve SOLO el JSON pedido." + imageNote,
}

const subUnitHeader = `Devuelves EXCLUSIVAMENTE un JSON VÁLIDO con la estructura:
{"<id_pregunta>": {"Sub-unidad": ["<sub-unidad>", ...]}, ...}

Eres un experto en evaluación PAES. A partir de IMÁGENES de preguntas PAES M1 (Unidad: %s), identifica TODAS las sub-unidades presentes en cada pregunta, usando SOLO estos nombres:
`

const subUnitFooter = `
- Analiza CADA pregunta por separado.
- El resultado debe ser un JSON válido SIN texto adicional.`

const subUnitInstruction = "Clasifica las sub-unidades utilizadas en cada pregunta y devuelve SOLO el JSON pedido." + imageNote

var subUnits = map[string]string{
	UnitNumbers: `- "Concepto y cálculo de porcentaje"
- "Problemas que involucren porcentaje"
- "Propiedades de las potencias de base racional y exponente racional"
- "Descomposición y propiedades de las raíces enésimas en los números reales"
- "Problemas que involucren potencias y raíces enésimas en los números reales"
- "Operaciones y orden en el conjunto de los números enteros"
- "Operaciones y comparación entre números en el conjunto de los números racionales"
- "Problemas que involucren el conjunto de los números enteros y racionales"
Si solo hay números enteros, NO uses "Problemas que involucren el conjunto de los números enteros y racionales".`,
	UnitAlgebra: `- "Productos notables"
- "Factorizaciones y desarrollo de expresiones algebraicas"
- "Operatoria con expresiones algebraicas"
- "Problemas que involucren expresiones algebraicas"
- "Concepto de proporción directa e inversa"
- "Problemas que involucren proporción directa en inversa"
- "Resolución de ecuaciones lineales"
- "Problemas que involucren ecuaciones lineales"
- "Resolución de inecuaciones lineales"
- "Problemas que involucren inecuaciones lineales"
- "Resolución de sistemas de ecuaciones lineales"
- "Problemas que involucren sistemas de ecuaciones lineales"
- "Concepto de función lineal y función afín"
- "Tablas y gráficos de función lineal y función afín"
- "Problemas que involucren función lineal y función afín"
- "Ecuaciones de segundo grado"
- "Tablas y gráficos de la función cuadrática"
- "Vértice, ceros de la función e intersección con los ejes, de la función cuadrática"
- "Función cuadrática"`,
	UnitGeometry: `- "Problemas que involucren el Teorema de Pitágoras en diversos contextos"
- "Perímetro y áreas de triángulos, paralelogramos, trapecios y círculos"
- "Problemas que involucren perímetro y áreas de triángulos, paralelogramos, trapecios y círculos en diversos contextos"
- "Área de superficies de paralelepípedos y cubos"
- "Volumen de paralelepípedos y cubos"
- "Problemas que involucren área y volumen de paralelepípedos y cubos en diversos contextos"
- "Puntos y vectores en el plano cartesiano"
- "Rotación, traslación y reflexión de figuras geométricas"
- "Problemas que involucren rotación, traslación y reflexión en diversos contextos"`,
	UnitProbability: `- "Tablas de frecuencia absoluta y relativa"
- "Tipos de gráficos que permitan representar datos"
- "Promedio de un conjunto de datos"
- "Problemas que involucren tablas y gráficos en diversos contextos"
- "Cuartiles y percentiles de uno o más grupos de datos"
- "Diagrama de cajón para representar distribución de datos"
- "Problemas que involucren medidas de posición en diversos contextos"
- "Problemas que involucren probabilidad de un evento en diversos contextos"
- "Problemas que involucren la regla aditiva y multiplicativa de probabilidades en diversos contextos"`,
}

// SubUnitTask returns the sub-unit labelling pass for a thematic unit
func SubUnitTask(unit string) (Task, bool) {
	list, ok := subUnits[unit]
	if !ok {
		return Task{}, false
	}
	return Task{
		Name:        FieldSubUnit + " (" + unit + ")",
		System:      fmt.Sprintf(subUnitHeader, unit) + list + subUnitFooter,
		Instruction: subUnitInstruction,
	}, true
}
