package onboarding

// Pasos del asistente.
const (
	StepCompany    = 1
	StepAPIKeys    = 2
	StepERP        = 3
	StepAssistants = 4
	StepFunctions  = 5
	StepAdvanced   = 6
	StepDeploy     = 7
)

// StepNames nombre de cada paso (logs y métricas).
var StepNames = map[int]string{
	StepCompany:    "company",
	StepAPIKeys:    "api_keys",
	StepERP:        "erp",
	StepAssistants: "assistants",
	StepFunctions:  "functions",
	StepAdvanced:   "advanced",
	StepDeploy:     "deploy",
}

// Flow lista ordenada de pasos activos. Next y Prev recorren solo esa lista,
// por lo que un paso desactivado se omite en ambas direcciones.
type Flow struct {
	steps []int
}

// DefaultSteps flujo por defecto: el paso 5 (funciones) está desactivado.
var DefaultSteps = []int{StepCompany, StepAPIKeys, StepERP, StepAssistants, StepAdvanced, StepDeploy}

// NewFlow construye el flujo; steps debe venir ordenado y empezar en 1 (ver config.ParseSteps).
func NewFlow(steps []int) *Flow {
	if len(steps) == 0 {
		steps = DefaultSteps
	}
	return &Flow{steps: append([]int(nil), steps...)}
}

// Steps copia de los pasos activos.
func (f *Flow) Steps() []int { return append([]int(nil), f.steps...) }

// First primer paso.
func (f *Flow) First() int { return f.steps[0] }

// Last último paso.
func (f *Flow) Last() int { return f.steps[len(f.steps)-1] }

// Contains informa si step está activo.
func (f *Flow) Contains(step int) bool {
	for _, s := range f.steps {
		if s == step {
			return true
		}
	}
	return false
}

// Next primer paso activo posterior a step; en el último paso devuelve el último.
func (f *Flow) Next(step int) int {
	for _, s := range f.steps {
		if s > step {
			return s
		}
	}
	return f.Last()
}

// Prev último paso activo anterior a step; en el primero devuelve el primero.
func (f *Flow) Prev(step int) int {
	prev := f.First()
	for _, s := range f.steps {
		if s >= step {
			break
		}
		prev = s
	}
	return prev
}

// Normalize lleva un paso almacenado al paso activo equivalente (el siguiente activo si está desactivado).
func (f *Flow) Normalize(step int) int {
	if step < f.First() {
		return f.First()
	}
	if f.Contains(step) {
		return step
	}
	return f.Next(step)
}
