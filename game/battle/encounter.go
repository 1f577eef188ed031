package battle

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Encounter states.
const (
	StateActive  = "active"
	StateVictory = "victory"
	StateDefeat  = "defeat"
)

// Player actions.
const (
	ActionAttack = "attack"
	ActionGuard  = "guard"
	ActionHeal   = "heal"
)

// TurnResult describes one resolved turn for the client battle log.
type TurnResult struct {
	Turn         int    `json:"turn"`
	Action       string `json:"action"`
	PlayerDamage int    `json:"player_damage"` // damage dealt by the player
	PlayerHeal   int    `json:"player_heal"`
	EnemyDamage  int    `json:"enemy_damage"` // damage dealt by the enemy
	PlayerHP     int    `json:"player_hp"`
	EnemyHP      int    `json:"enemy_hp"`
	Text         string `json:"text"`
}

// Encounter is one ephemeral battle gating a single objective. Nothing
// about it is persisted: a lost connection or restart discards it and
// the player simply starts over.
type Encounter struct {
	ID          string       `json:"id"`
	CharID      int64        `json:"char_id"`
	QuestID     string       `json:"quest_id"`
	ObjectiveID string       `json:"objective_id"`
	Enemy       EnemyDef     `json:"enemy"`
	EnemyHP     int          `json:"enemy_hp"`
	PlayerHP    int          `json:"player_hp"`
	PlayerMaxHP int          `json:"player_max_hp"`
	State       string       `json:"state"`
	Turn        int          `json:"turn"`
	Log         []TurnResult `json:"log"`

	attack   Dice
	heal     Dice
	guarding bool
}

// NewEncounter starts a battle against the named enemy. Player dice scale
// with the character's strength and spirit.
func NewEncounter(charID int64, questID, objectiveID string, enemy EnemyDef, playerMaxHP, strength, spirit int) *Encounter {
	return &Encounter{
		ID:          uuid.NewString(),
		CharID:      charID,
		QuestID:     questID,
		ObjectiveID: objectiveID,
		Enemy:       enemy,
		EnemyHP:     enemy.MaxHP,
		PlayerHP:    playerMaxHP,
		PlayerMaxHP: playerMaxHP,
		State:       StateActive,
		attack:      Dice{Count: 2, Sides: 6, Modifier: strength / 4},
		heal:        Dice{Count: 1, Sides: 8, Modifier: spirit / 4},
	}
}

// Resolve applies one player action and the enemy's counter-roll, appends
// a TurnResult to the log and updates State. Calling Resolve on a finished
// encounter is an error.
func (e *Encounter) Resolve(action string, rng *rand.Rand) (*TurnResult, error) {
	if e.State != StateActive {
		return nil, fmt.Errorf("encounter already %s", e.State)
	}

	e.Turn++
	res := TurnResult{Turn: e.Turn, Action: action}
	e.guarding = false

	switch action {
	case ActionAttack:
		res.PlayerDamage = e.attack.Roll(rng)
		e.EnemyHP -= res.PlayerDamage
		res.Text = fmt.Sprintf("You strike the %s for %d damage.", e.Enemy.Name, res.PlayerDamage)
	case ActionGuard:
		e.guarding = true
		res.Text = "You brace behind your guard."
	case ActionHeal:
		res.PlayerHeal = e.heal.Roll(rng)
		if e.PlayerHP+res.PlayerHeal > e.PlayerMaxHP {
			res.PlayerHeal = e.PlayerMaxHP - e.PlayerHP
		}
		e.PlayerHP += res.PlayerHeal
		res.Text = fmt.Sprintf("You recover %d health.", res.PlayerHeal)
	default:
		e.Turn--
		return nil, fmt.Errorf("unknown action %q", action)
	}

	if e.EnemyHP <= 0 {
		e.EnemyHP = 0
		e.State = StateVictory
		res.Text += fmt.Sprintf(" The %s falls!", e.Enemy.Name)
	} else {
		res.EnemyDamage = e.Enemy.Attack.Roll(rng)
		if e.guarding {
			res.EnemyDamage /= 2
		}
		e.PlayerHP -= res.EnemyDamage
		res.Text += fmt.Sprintf(" The %s hits back for %d.", e.Enemy.Name, res.EnemyDamage)
		if e.PlayerHP <= 0 {
			e.PlayerHP = 0
			e.State = StateDefeat
			res.Text += " You collapse."
		}
	}

	res.PlayerHP = e.PlayerHP
	res.EnemyHP = e.EnemyHP
	e.Log = append(e.Log, res)
	return &res, nil
}
