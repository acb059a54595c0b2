package blocks

// Material identifies a block type in the world. The engine never interprets
// material IDs directly; it looks them up here and reasons about the flags.
type Material uint16

const (
	Air Material = iota
	Stone
	Dirt
	Grass
	Sand
	Gravel
	Bedrock
	Water
	Lava
	Leaves
	TallGrass
	WoodenDoor
	Glass
	Ladder
	Fire
	Fence
)

// Info describes the traversal-relevant properties of a material.
type Info struct {
	Name        string `json:"name"`
	Solid       bool   `json:"solid"`
	Transparent bool   `json:"transparent"`
	CrossShape  bool   `json:"crossShape"`
	Liquid      bool   `json:"liquid"`
	Hazard      bool   `json:"hazard"`
	Door        bool   `json:"door"`
	Soft        bool   `json:"soft"`
	Climbable   bool   `json:"climbable"`
}

var registry = map[Material]Info{
	Air:        {Name: "air", Transparent: true},
	Stone:      {Name: "stone", Solid: true},
	Dirt:       {Name: "dirt", Solid: true},
	Grass:      {Name: "grass", Solid: true},
	Sand:       {Name: "sand", Solid: true},
	Gravel:     {Name: "gravel", Solid: true},
	Bedrock:    {Name: "bedrock", Solid: true},
	Water:      {Name: "water", Transparent: true, Liquid: true},
	Lava:       {Name: "lava", Liquid: true, Hazard: true},
	Leaves:     {Name: "leaves", Solid: true, Transparent: true, Soft: true},
	TallGrass:  {Name: "tall_grass", Transparent: true, CrossShape: true},
	WoodenDoor: {Name: "wooden_door", Solid: true, Door: true},
	Glass:      {Name: "glass", Solid: true, Transparent: true, Soft: true},
	Ladder:     {Name: "ladder", Transparent: true, Climbable: true},
	Fire:       {Name: "fire", Transparent: true, Hazard: true},
	Fence:      {Name: "fence", Solid: true, Transparent: true},
}

var byName = func() map[string]Material {
	m := make(map[string]Material, len(registry))
	for id, info := range registry {
		m[info.Name] = id
	}
	return m
}()

// Lookup returns the traversal info for a material. Unknown materials are
// treated as solid so unmapped IDs never read as open space.
func Lookup(m Material) Info {
	if info, ok := registry[m]; ok {
		return info
	}
	return Info{Name: "unknown", Solid: true}
}

// ByName resolves a material by its registry name.
func ByName(name string) (Material, bool) {
	m, ok := byName[name]
	return m, ok
}

// Names lists every registered material name.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, info := range registry {
		names = append(names, info.Name)
	}
	return names
}
