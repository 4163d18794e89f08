package textnorm

// AliasTable maps normalized names to a canonical name. Values not in the
// table resolve to themselves.
type AliasTable map[string]string

// NewAliasTable builds a table whose keys are normalized, so lookups work for
// any accent or case variant of a key.
func NewAliasTable(entries map[string]string) AliasTable {
	t := make(AliasTable, len(entries))
	for k, v := range entries {
		t[Normalize(k)] = v
	}
	return t
}

// Resolve maps an already-normalized value through the table.
func (t AliasTable) Resolve(normalized string) string {
	if canonical, ok := t[normalized]; ok {
		return canonical
	}
	return normalized
}

// Merge returns a new table with other's entries layered on top of t.
func (t AliasTable) Merge(other AliasTable) AliasTable {
	out := make(AliasTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// DefaultStateAliases maps Mexican state names and abbreviations to a
// canonical state name.
func DefaultStateAliases() AliasTable {
	return NewAliasTable(map[string]string{
		"aguascalientes": "Aguascalientes", "ags": "Aguascalientes",
		"baja california": "Baja California", "bc": "Baja California",
		"baja california sur": "Baja California Sur", "bcs": "Baja California Sur",
		"campeche": "Campeche", "camp": "Campeche",
		"chiapas": "Chiapas", "chis": "Chiapas",
		"chihuahua": "Chihuahua", "chih": "Chihuahua",
		"coahuila": "Coahuila", "coah": "Coahuila",
		"colima": "Colima", "col": "Colima",
		"durango": "Durango", "dgo": "Durango",
		"guanajuato": "Guanajuato", "gto": "Guanajuato",
		"guerrero": "Guerrero", "gro": "Guerrero",
		"hidalgo": "Hidalgo", "hgo": "Hidalgo",
		"jalisco": "Jalisco", "jal": "Jalisco",
		"estado de mexico": "Estado de Mexico", "edo mex": "Estado de Mexico",
		"edo. mex.": "Estado de Mexico", "edomex": "Estado de Mexico",
		"ciudad de mexico": "Ciudad de Mexico", "cdmx": "Ciudad de Mexico",
		"df": "Ciudad de Mexico", "distrito federal": "Ciudad de Mexico",
		"michoacan": "Michoacan", "mich": "Michoacan",
		"morelos": "Morelos", "mor": "Morelos",
		"nayarit": "Nayarit", "nay": "Nayarit",
		"nuevo leon": "Nuevo Leon", "nl": "Nuevo Leon",
		"oaxaca": "Oaxaca", "oax": "Oaxaca",
		"puebla": "Puebla", "pue": "Puebla",
		"queretaro": "Queretaro", "qro": "Queretaro",
		"quintana roo": "Quintana Roo", "q.roo": "Quintana Roo",
		"san luis potosi": "San Luis Potosi", "slp": "San Luis Potosi",
		"sinaloa": "Sinaloa", "sin": "Sinaloa",
		"sonora": "Sonora", "son": "Sonora",
		"tabasco": "Tabasco", "tab": "Tabasco",
		"tamaulipas": "Tamaulipas", "tamps": "Tamaulipas",
		"tlaxcala": "Tlaxcala", "tlax": "Tlaxcala",
		"veracruz": "Veracruz", "ver": "Veracruz",
		"yucatan": "Yucatan", "yuc": "Yucatan",
		"zacatecas": "Zacatecas", "zac": "Zacatecas",
		"mexico": "Estado de Mexico",
	})
}
