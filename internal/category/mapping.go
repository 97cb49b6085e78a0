// Package category recodes raw survey codes into display labels (and back)
// through fixed lookup tables with an explicit default.
package category

// Mapping is a total function from raw codes to outputs: a finite table plus
// the value returned for every code the table does not name.
type Mapping[K comparable, V any] struct {
	table map[K]V
	def   V
}

// New builds a Mapping. table is copied.
func New[K comparable, V any](table map[K]V, def V) Mapping[K, V] {
	cp := make(map[K]V, len(table))
	for k, v := range table {
		cp[k] = v
	}
	return Mapping[K, V]{table: cp, def: def}
}

// Lookup never fails: unmapped codes yield the default.
func (m Mapping[K, V]) Lookup(k K) V {
	if v, ok := m.table[k]; ok {
		return v
	}
	return m.def
}

// Default returns the fallback value.
func (m Mapping[K, V]) Default() V { return m.def }

// Apply recodes codes element-wise, preserving length and order.
func (m Mapping[K, V]) Apply(codes []K) []V {
	out := make([]V, len(codes))
	for i, c := range codes {
		out[i] = m.Lookup(c)
	}
	return out
}

// Display labels used across the dashboard.
const (
	NeverSmoked  = "never smoked"
	UsedToSmoke  = "used to smoke"
	StillSmoke   = "still smoke"
	Drink        = "drink"
	NotDrink     = "not drink"
	DoNotDrink   = "do not drink"
	SexFemale    = "Female"
	SexMale      = "Male"
	DrinkingYes  = "Y"
	DrinkingNo   = "N"
	SmokingNever = 1
	SmokingPast  = 2
	SmokingNow   = 3
)

var (
	// SmokingLabel turns SMK_stat_type_cd codes into labels.
	SmokingLabel = New(map[int]string{
		SmokingNever: NeverSmoked,
		SmokingPast:  UsedToSmoke,
		SmokingNow:   StillSmoke,
	}, NeverSmoked)

	// DrinkingLabel turns DRK_YN flags into labels.
	DrinkingLabel = New(map[string]string{
		DrinkingYes: Drink,
		DrinkingNo:  NotDrink,
	}, DoNotDrink)

	// SexCode encodes sex numerically for the cholesterol view.
	SexCode = New(map[string]int{
		SexFemale: 0,
		SexMale:   1,
	}, 0)

	// SmokingCode re-encodes smoking labels as integer codes.
	SmokingCode = New(map[string]int{
		NeverSmoked: SmokingNever,
		UsedToSmoke: SmokingPast,
		StillSmoke:  SmokingNow,
	}, SmokingNever)
)
