package model

// Line identifies an equipment line. Keep these values stable; they are
// used as keys in config files, CSV output and API payloads.
type Line string

const (
	LineBrasero  Line = "brasero"
	LineChiffres Line = "chiffres"
)

// Lines returns both equipment lines in display order.
func Lines() []Line {
	return []Line{LineBrasero, LineChiffres}
}

func (l Line) Label() string {
	switch l {
	case LineBrasero:
		return "Brasero"
	case LineChiffres:
		return "Chiffres lumineux"
	default:
		return string(l)
	}
}

// Pack identifies a service bundle.
type Pack string

const (
	Pack1 Pack = "pack1" // self-pickup at the depot
	Pack2 Pack = "pack2" // delivered, assembled and dismantled
	Pack3 Pack = "pack3" // delivered full event package
)

func Packs() []Pack {
	return []Pack{Pack1, Pack2, Pack3}
}
