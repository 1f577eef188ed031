package quest

// Catalog is the immutable set of quest definitions. It is built once at
// process start; merges and mutations operate on per-character copies.
type Catalog struct {
	defs  []QuestDef
	index map[string]int
}

// NewCatalog builds a catalog from the given definitions.
func NewCatalog(defs []QuestDef) *Catalog {
	c := &Catalog{
		defs:  defs,
		index: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		c.index[d.ID] = i
	}
	return c
}

// Defs returns the quest definitions in catalog order.
// Callers must not modify the returned slice.
func (c *Catalog) Defs() []QuestDef {
	return c.defs
}

// Def looks up a quest definition by ID.
func (c *Catalog) Def(id string) (QuestDef, bool) {
	i, ok := c.index[id]
	if !ok {
		return QuestDef{}, false
	}
	return c.defs[i], true
}

// Default returns the built-in quest catalog.
func Default() *Catalog {
	return NewCatalog(defaultDefs)
}

var defaultDefs = []QuestDef{
	{
		ID:          "forest-disturbance",
		Title:       "Disturbance in the Elderwood",
		Location:    "Elderwood Forest",
		Description: "Something has corrupted the old forest. Seek out the druid and help restore the grove.",
		Difficulty:  DifficultyEasy,
		XPReward:    150,
		Objectives: []ObjectiveDef{
			{ID: "talk-druid", Text: "Speak with Druid Thalen", Kind: KindConversation},
			{ID: "walk-woods", Text: "Patrol the forest paths", Kind: KindWalk, Target: 2000, Unit: "m"},
			{ID: "strength-roots", Text: "Clear the strangler roots", Kind: KindStrength, Target: 30, Unit: "reps"},
			{ID: "defeat-treant", Text: "Defeat the corrupted treant", Kind: KindOther, Enemy: "corrupted-treant"},
		},
		Rewards: []string{"Elderwood Charm", "150 XP"},
		Conversations: map[string][]Line{
			"talk-druid": {
				{Speaker: "Druid Thalen", Text: "You feel it too, don't you? The grove is sick."},
				{Speaker: "Druid Thalen", Text: "Walk the old paths and tear out what roots you can."},
				{Speaker: "You", Text: "And the treant at the heart of it?"},
				{Speaker: "Druid Thalen", Text: "When you are strong enough, face it. The forest will remember your help."},
			},
		},
	},
	{
		ID:          "village-siege",
		Title:       "The Siege of Briarhollow",
		Location:    "Briarhollow Village",
		Description: "Marauders have surrounded Briarhollow. Run supplies past the lines and break the siege.",
		Difficulty:  DifficultyMedium,
		XPReward:    300,
		Objectives: []ObjectiveDef{
			{ID: "walk-1", Text: "Carry supplies to the east gate", Kind: KindWalk, Target: 1000, Unit: "m"},
			{ID: "cardio-drills", Text: "Drill with the militia", Kind: KindCardio, Target: 20, Unit: "min"},
			{ID: "rally-captain", Text: "Rally Captain Maren", Kind: KindConversation},
			{ID: "defeat-marauder", Text: "Drive off the marauder captain", Kind: KindOther, Enemy: "marauder-captain"},
		},
		Rewards: []string{"Briarhollow Signet", "300 XP"},
		Conversations: map[string][]Line{
			"rally-captain": {
				{Speaker: "Captain Maren", Text: "Supplies made it through? Then we still have a chance."},
				{Speaker: "You", Text: "The militia is drilled and ready."},
				{Speaker: "Captain Maren", Text: "Good. Their captain fights in the front line. Bring him down and the rest will scatter."},
			},
		},
	},
	{
		ID:          "mountain-trial",
		Title:       "Trial of Frostpeak",
		Location:    "Frostpeak Pass",
		Description: "The mountain monks admit only those who climb the pass and face the wyrm that nests there.",
		Difficulty:  DifficultyHard,
		XPReward:    500,
		Objectives: []ObjectiveDef{
			{ID: "stretch-summit", Text: "Perform the summit salutations", Kind: KindStretch, Target: 15, Unit: "min"},
			{ID: "walk-ascent", Text: "Climb the switchback trail", Kind: KindWalk, Target: 5000, Unit: "m"},
			{ID: "defeat-frost-wyrm", Text: "Face the frost wyrm", Kind: KindOther, Enemy: "frost-wyrm"},
		},
		Rewards: []string{"Frostpeak Mantle", "Title: Wyrmbane", "500 XP"},
	},
	{
		ID:          "restless-springs",
		Title:       "The Restless Springs",
		Location:    "Willowmere Springs",
		Description: "The keeper of the springs asks for a small favor before the waters calm.",
		Difficulty:  DifficultyEasy,
		XPReward:    80,
		Objectives: []ObjectiveDef{
			{ID: "talk-keeper", Text: "Listen to the spring keeper", Kind: KindConversation},
			{ID: "cardio-swim", Text: "Swim the cold circuit", Kind: KindCardio, Target: 30, Unit: "min"},
		},
		Rewards: []string{"Keeper's Blessing", "80 XP"},
		Conversations: map[string][]Line{
			"talk-keeper": {
				{Speaker: "Spring Keeper", Text: "The waters churn when the valley folk grow idle."},
				{Speaker: "Spring Keeper", Text: "Swim the circuit, and bring the stillness back with you."},
			},
		},
	},
}
