package battle

// EnemyDef is a bestiary entry referenced by quest objectives.
type EnemyDef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	MaxHP  int    `json:"max_hp"`
	Attack Dice   `json:"-"`
}

var bestiary = map[string]EnemyDef{
	"spring-sprite": {
		ID:     "spring-sprite",
		Name:   "Spring Sprite",
		MaxHP:  20,
		Attack: Dice{Count: 1, Sides: 4},
	},
	"corrupted-treant": {
		ID:     "corrupted-treant",
		Name:   "Corrupted Treant",
		MaxHP:  45,
		Attack: Dice{Count: 1, Sides: 10, Modifier: 2},
	},
	"marauder-captain": {
		ID:     "marauder-captain",
		Name:   "Marauder Captain",
		MaxHP:  60,
		Attack: Dice{Count: 2, Sides: 8, Modifier: 1},
	},
	"frost-wyrm": {
		ID:     "frost-wyrm",
		Name:   "Frost Wyrm",
		MaxHP:  90,
		Attack: Dice{Count: 1, Sides: 25, Modifier: 3},
	},
}

// Enemy looks up a bestiary entry by id.
func Enemy(id string) (EnemyDef, bool) {
	e, ok := bestiary[id]
	return e, ok
}
