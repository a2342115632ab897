package potential

// periodicTable is the set of all 118 chemical element symbols, used to
// decide whether a parsed VRHFIN value refers to a real element.
var periodicTable = map[string]struct{}{
	"H": {}, "He": {},
	"Li": {}, "Be": {}, "B": {}, "C": {}, "N": {}, "O": {}, "F": {}, "Ne": {},
	"Na": {}, "Mg": {}, "Al": {}, "Si": {}, "P": {}, "S": {}, "Cl": {}, "Ar": {},
	"K": {}, "Ca": {}, "Sc": {}, "Ti": {}, "V": {}, "Cr": {}, "Mn": {}, "Fe": {},
	"Co": {}, "Ni": {}, "Cu": {}, "Zn": {}, "Ga": {}, "Ge": {}, "As": {}, "Se": {},
	"Br": {}, "Kr": {},
	"Rb": {}, "Sr": {}, "Y": {}, "Zr": {}, "Nb": {}, "Mo": {}, "Tc": {}, "Ru": {},
	"Rh": {}, "Pd": {}, "Ag": {}, "Cd": {}, "In": {}, "Sn": {}, "Sb": {}, "Te": {},
	"I": {}, "Xe": {},
	"Cs": {}, "Ba": {}, "La": {}, "Ce": {}, "Pr": {}, "Nd": {}, "Pm": {}, "Sm": {},
	"Eu": {}, "Gd": {}, "Tb": {}, "Dy": {}, "Ho": {}, "Er": {}, "Tm": {}, "Yb": {},
	"Lu": {}, "Hf": {}, "Ta": {}, "W": {}, "Re": {}, "Os": {}, "Ir": {}, "Pt": {},
	"Au": {}, "Hg": {}, "Tl": {}, "Pb": {}, "Bi": {}, "Po": {}, "At": {}, "Rn": {},
	"Fr": {}, "Ra": {}, "Ac": {}, "Th": {}, "Pa": {}, "U": {}, "Np": {}, "Pu": {},
	"Am": {}, "Cm": {}, "Bk": {}, "Cf": {}, "Es": {}, "Fm": {}, "Md": {}, "No": {},
	"Lr": {}, "Rf": {}, "Db": {}, "Sg": {}, "Bh": {}, "Hs": {}, "Mt": {}, "Ds": {},
	"Rg": {}, "Cn": {}, "Nh": {}, "Fl": {}, "Mc": {}, "Lv": {}, "Ts": {}, "Og": {},
}

// KnownElement reports whether symbol is a valid chemical element symbol.
// The comparison is case-sensitive ("Si" is valid, "si" and "SI" are not).
func KnownElement(symbol string) bool {
	_, ok := periodicTable[symbol]
	return ok
}

// ElementPrefix returns the longest valid element symbol that prefixes name,
// or "" when name does not start with an element symbol.  Potential names
// such as "Zr_sv" or "H1.25" always begin with the symbol of the element
// they describe; two-letter symbols take precedence over one-letter ones so
// that "He" is not mistaken for "H".
func ElementPrefix(name string) string {
	if len(name) >= 2 && KnownElement(name[:2]) {
		return name[:2]
	}
	if len(name) >= 1 && KnownElement(name[:1]) {
		return name[:1]
	}
	return ""
}
