package engine

// AbilityContext is the narrow mutation interface abilities act through.
// Game implements it; tests can substitute a recorder.
type AbilityContext interface {
	ApplyDownload(linkIdx int, receiver PlayerID) error
	ApplyFirewall(pos Position, owner PlayerID) error
	ApplyBoost(linkIdx int) error
	ApplyScan(linkIdx int, viewer PlayerID) error
	ApplyPolarize(linkIdx int) error
	ApplyShield(linkIdx int) error
	ApplyJump(user PlayerID) error
	ApplySwap(user PlayerID) error
}

// Ability is a stateless ability strategy identified by its one-letter code
type Ability byte

const (
	NoAbility Ability = 0
	LinkBoost Ability = 'L'
	Firewall  Ability = 'F'
	Download  Ability = 'D'
	Polarize  Ability = 'P'
	Scan      Ability = 'S'
	Swap      Ability = 'W'
	Jump      Ability = 'J'
	Shield    Ability = 'H'
)

// Target carries the optional link label and board position an ability was invoked with
type Target struct {
	Label    byte     `json:"label,omitempty"`
	HasLabel bool     `json:"has_label"`
	Pos      Position `json:"pos"`
	HasPos   bool     `json:"has_pos"`
}

// LabelTarget targets a link by its label
func LabelTarget(label byte) Target {
	return Target{Label: label, HasLabel: true}
}

// PositionTarget targets a board square
func PositionTarget(pos Position) Target {
	return Target{Pos: pos, HasPos: true}
}

// Empty reports whether neither a label nor a position was supplied
func (t Target) Empty() bool {
	return !t.HasLabel && !t.HasPos
}

type abilityEffect func(ctx AbilityContext, user PlayerID, t Target) error

type abilitySpec struct {
	name string
	use  abilityEffect
}

// abilityTable maps each code to its behaviour
var abilityTable = map[Ability]abilitySpec{
	LinkBoost: {name: "Link Boost", use: useLinkBoost},
	Firewall:  {name: "Firewall", use: useFirewall},
	Download:  {name: "Download", use: useDownload},
	Polarize:  {name: "Polarize", use: usePolarize},
	Scan:      {name: "Scan", use: useScan},
	Swap:      {name: "Swap", use: useSwap},
	Jump:      {name: "Jump", use: useJump},
	Shield:    {name: "Shield", use: useShield},
}

// AllAbilities lists the eight codes in display order
var AllAbilities = []Ability{LinkBoost, Firewall, Download, Polarize, Scan, Swap, Jump, Shield}

// ParseAbility converts a code letter (either case) into an Ability
func ParseAbility(code byte) (Ability, error) {
	if code >= 'a' && code <= 'z' {
		code = code - 'a' + 'A'
	}
	a := Ability(code)
	if _, ok := abilityTable[a]; !ok {
		return NoAbility, abilityError("unknown ability code: %c", code)
	}
	return a, nil
}

// Valid reports whether a is one of the eight abilities
func (a Ability) Valid() bool {
	_, ok := abilityTable[a]
	return ok
}

// Code returns the identifying letter
func (a Ability) Code() byte {
	return byte(a)
}

func (a Ability) String() string {
	if !a.Valid() {
		return "?"
	}
	return string(rune(a))
}

// Name returns the human readable name
func (a Ability) Name() string {
	if spec, ok := abilityTable[a]; ok {
		return spec.name
	}
	return "none"
}

// Use validates the target shape and applies the effect through ctx
func (a Ability) Use(ctx AbilityContext, user PlayerID, t Target) error {
	spec, ok := abilityTable[a]
	if !ok {
		return fatalError("no ability configured")
	}
	if !user.Valid() {
		return abilityError("invalid player for %s", spec.name)
	}
	return spec.use(ctx, user, t)
}

// labelOnly resolves a label-only target to a link handle and its owner
func labelOnly(name string, t Target) (int, PlayerID, error) {
	if !t.HasLabel || t.HasPos {
		return -1, PlayerNone, abilityError("%s requires a single link label", name)
	}
	idx, owner, ok := LinkIndexForLabel(t.Label)
	if !ok {
		return -1, PlayerNone, abilityError("invalid link label: %c", t.Label)
	}
	return idx, owner, nil
}

func useLinkBoost(ctx AbilityContext, user PlayerID, t Target) error {
	idx, owner, err := labelOnly("Link Boost", t)
	if err != nil {
		return err
	}
	if owner != user {
		return abilityError("Link Boost must target one of your own links")
	}
	return ctx.ApplyBoost(idx)
}

func useFirewall(ctx AbilityContext, user PlayerID, t Target) error {
	if !t.HasPos || t.HasLabel {
		return abilityError("Firewall requires a board position")
	}
	if t.Pos.Row < 0 || t.Pos.Row >= BoardSize || t.Pos.Col < 0 || t.Pos.Col >= BoardSize {
		return abilityError("invalid firewall position")
	}
	return ctx.ApplyFirewall(t.Pos, user)
}

func useDownload(ctx AbilityContext, user PlayerID, t Target) error {
	idx, owner, err := labelOnly("Download", t)
	if err != nil {
		return err
	}
	if owner == user {
		return abilityError("Download must target an opponent link")
	}
	return ctx.ApplyDownload(idx, user)
}

func usePolarize(ctx AbilityContext, _ PlayerID, t Target) error {
	idx, _, err := labelOnly("Polarize", t)
	if err != nil {
		return err
	}
	return ctx.ApplyPolarize(idx)
}

func useScan(ctx AbilityContext, user PlayerID, t Target) error {
	idx, _, err := labelOnly("Scan", t)
	if err != nil {
		return err
	}
	return ctx.ApplyScan(idx, user)
}

func useSwap(ctx AbilityContext, user PlayerID, t Target) error {
	if !t.Empty() {
		return abilityError("Swap does not take a target")
	}
	return ctx.ApplySwap(user)
}

func useJump(ctx AbilityContext, user PlayerID, t Target) error {
	if !t.Empty() {
		return abilityError("Jump does not take a target")
	}
	return ctx.ApplyJump(user)
}

func useShield(ctx AbilityContext, user PlayerID, t Target) error {
	idx, owner, err := labelOnly("Shield", t)
	if err != nil {
		return err
	}
	if owner != user {
		return abilityError("Shield must target one of your own links")
	}
	return ctx.ApplyShield(idx)
}
