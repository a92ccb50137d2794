// Package types defines the shared data structures for the Aion combat engine.
// This package contains only type definitions and their enumerations.
package types

// Element is the damage element of a move.
type Element int

const (
	Slash Element = iota
	Bash
	Gun
	Fire
	Ice
	Electric
	Wind
	Light
	Dark
	Almighty // bypasses the affinity table
	Passive  // no damage; heals and applies effects
)

// TableElements are the elements carried by an ElementalProfile.
var TableElements = []Element{Slash, Bash, Gun, Fire, Ice, Electric, Wind, Light, Dark}

var elementNames = [...]string{
	Slash:    "slash",
	Bash:     "bash",
	Gun:      "gun",
	Fire:     "fire",
	Ice:      "ice",
	Electric: "electric",
	Wind:     "wind",
	Light:    "light",
	Dark:     "dark",
	Almighty: "almighty",
	Passive:  "passive",
}

func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "unknown"
	}
	return elementNames[e]
}

// ParseElement maps a lowercase element name to its Element.
func ParseElement(name string) (Element, bool) {
	for i, n := range elementNames {
		if n == name {
			return Element(i), true
		}
	}
	return 0, false
}

// Affinity is a unit's resistance category against an element.
type Affinity int

const (
	Neutral Affinity = iota
	Weak
	Resist
	Repel
	Absorb
)

var affinityNames = [...]string{
	Neutral: "neutral",
	Weak:    "weak",
	Resist:  "resist",
	Repel:   "repel",
	Absorb:  "absorb",
}

func (a Affinity) String() string {
	if a < 0 || int(a) >= len(affinityNames) {
		return "unknown"
	}
	return affinityNames[a]
}

// ParseAffinity maps a lowercase affinity name to its Affinity.
func ParseAffinity(name string) (Affinity, bool) {
	for i, n := range affinityNames {
		if n == name {
			return Affinity(i), true
		}
	}
	return 0, false
}

// Side identifies one of the two rosters.
type Side int

const (
	Friendly Side = iota
	Enemy
)

func (s Side) String() string {
	if s == Enemy {
		return "enemy"
	}
	return "friendly"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Enemy {
		return Friendly
	}
	return Enemy
}

// ParseSide parses "friendly" or "enemy".
func ParseSide(name string) (Side, bool) {
	switch name {
	case "friendly":
		return Friendly, true
	case "enemy":
		return Enemy, true
	}
	return 0, false
}

// ElementalProfile maps each table element to an affinity category.
// Shared read-only by every unit of the same kind.
type ElementalProfile struct {
	Name       string
	Affinities map[Element]Affinity
}

// Stats are the base attributes of a unit.
type Stats struct {
	Strength  int
	Magic     int
	Endurance int
	Agility   int
	Luck      int
}

// EffectTemplate is the static definition of a timed stat modifier.
type EffectTemplate struct {
	ID          string
	Name        string
	Description string
	Duration    int // in the owner's turns
	Attack      int // each in [-3, 3]
	Defense     int
	Agility     int
}

// EffectInstance is a live status effect on a unit.
type EffectInstance struct {
	Name      string
	Template  *EffectTemplate
	Remaining int
	Attack    int
	Defense   int
	Agility   int
}

// MoveDef is an immutable move definition.
type MoveDef struct {
	ID              string
	Name            string
	Description     string
	Element         Element
	HealthCost      int
	ManaCost        int
	ActionPointCost int
	MinDamage       int
	MaxDamage       int
	Effect          *EffectTemplate // optional
	Ultimate        bool
	HealingAmount   int // passive moves only
	Chance          int // percent chance the move works at all; 0 means always
}

// KindDef is the definition of a unit kind (an Aion): affinities and moves.
type KindDef struct {
	ID          string
	Title       string
	Description string
	Profile     *ElementalProfile // nil when no affinity table was configured
	Moves       []*MoveDef
}

// EquipmentDef is a piece of equipment: flat stat deltas plus extra moves.
type EquipmentDef struct {
	ID          string
	Name        string
	Description string
	Type        string // "weapon", "armor", "accessory"
	Modifiers   Stats
	ExtraMoves  []*MoveDef
}

// UnitDef is the template a battle unit is built from.
type UnitDef struct {
	ID            string
	Name          string
	Kind          string
	MaxHealth     int
	MaxMana       int
	PointsPerTurn int
	Stats         Stats
	Equipment     []string
	Ultimate      string // move ID, optional
}

// EncounterDef names the rosters of one battle.
type EncounterDef struct {
	ID       string
	Friendly []string // unit IDs, in spawn order
	Enemy    []string
}

// BattleDef holds battle-set metadata.
type BattleDef struct {
	Title     string
	Author    string
	Version   string
	Encounter string // default encounter ID
	Intro     string
}

// Intent is the parsed representation of a driver command.
type Intent struct {
	Verb    string
	Object  string   // move ID or name
	Targets []string // unit IDs or names
}

// Event is emitted for every combat notification.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine step.
type Result struct {
	Events []Event
	Output []string
}
