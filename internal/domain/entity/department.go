package entity

// Department agrupa medicamentos por sección de la farmacia.
type Department struct {
	ID   string
	Code string // único
	Name string
}
