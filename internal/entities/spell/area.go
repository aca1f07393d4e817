package spell

// AreaKind is the discriminant of an Area
type AreaKind string

// Area kinds
const (
	AreaKindRadiusCircle AreaKind = "radius_circle"
	AreaKindRadiusSphere AreaKind = "radius_sphere"
	AreaKindCone         AreaKind = "cone"
	AreaKindLine         AreaKind = "line"
	AreaKindRect         AreaKind = "rect"
	AreaKindRectPrism    AreaKind = "rect_prism"
	AreaKindCylinder     AreaKind = "cylinder"
	AreaKindWall         AreaKind = "wall"
	AreaKindCube         AreaKind = "cube"
	AreaKindVolume       AreaKind = "volume"
	AreaKindSurface      AreaKind = "surface"
	AreaKindTiles        AreaKind = "tiles"
	AreaKindCreatures    AreaKind = "creatures"
	AreaKindObjects      AreaKind = "objects"
	AreaKindRegion       AreaKind = "region"
	AreaKindScope        AreaKind = "scope"
	AreaKindPoint        AreaKind = "point"
	AreaKindSpecial      AreaKind = "special"
)

// DefaultAreaKind is used when a structured area carries no kind
const DefaultAreaKind = AreaKindSpecial

// AreaKinds returns the closed set of area kinds
func AreaKinds() []AreaKind {
	return []AreaKind{
		AreaKindRadiusCircle, AreaKindRadiusSphere, AreaKindCone, AreaKindLine,
		AreaKindRect, AreaKindRectPrism, AreaKindCylinder, AreaKindWall, AreaKindCube,
		AreaKindVolume, AreaKindSurface, AreaKindTiles, AreaKindCreatures,
		AreaKindObjects, AreaKindRegion, AreaKindScope, AreaKindPoint, AreaKindSpecial,
	}
}

// AreaUnit measures an area dimension
type AreaUnit string

// Area units
const (
	AreaUnitFeet        AreaUnit = "ft"
	AreaUnitYards       AreaUnit = "yd"
	AreaUnitMiles       AreaUnit = "mi"
	AreaUnitInches      AreaUnit = "inch"
	AreaUnitSquareFeet  AreaUnit = "ft2"
	AreaUnitSquareYards AreaUnit = "yd2"
	AreaUnitSquare      AreaUnit = "square"
	AreaUnitCubicFeet   AreaUnit = "ft3"
	AreaUnitCubicYards  AreaUnit = "yd3"
	AreaUnitHex         AreaUnit = "hex"
	AreaUnitRoom        AreaUnit = "room"
	AreaUnitFloor       AreaUnit = "floor"
)

// Area is the structured form of a spell's area of effect.
//
// Each kind defines which dimensions it carries; the others are absent.
// ShapeUnit measures the linear dimensions of geometric shapes, Unit the
// volume and surface kinds.
type Area struct {
	Kind           AreaKind `json:"kind"`
	ShapeUnit      AreaUnit `json:"shape_unit,omitempty"`
	Unit           AreaUnit `json:"unit,omitempty"`
	Radius         *Scalar  `json:"radius,omitempty"`
	Length         *Scalar  `json:"length,omitempty"`
	Width          *Scalar  `json:"width,omitempty"`
	Height         *Scalar  `json:"height,omitempty"`
	Thickness      *Scalar  `json:"thickness,omitempty"`
	Edge           *Scalar  `json:"edge,omitempty"`
	SurfaceArea    *Scalar  `json:"surface_area,omitempty"`
	Volume         *Scalar  `json:"volume,omitempty"`
	TileCount      *Scalar  `json:"tile_count,omitempty"`
	Count          *Scalar  `json:"count,omitempty"`
	AngleDeg       *float64 `json:"angle_deg,omitempty"`
	TileUnit       AreaUnit `json:"tile_unit,omitempty"`
	CountSubject   string   `json:"count_subject,omitempty"`
	RegionUnit     string   `json:"region_unit,omitempty"`
	ScopeUnit      string   `json:"scope_unit,omitempty"`
	MovesWith      string   `json:"moves_with,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	RawLegacyValue string   `json:"raw_legacy_value,omitempty"`
}

// Field implements FieldValue
func (Area) Field() Field { return FieldArea }

// LegacyText implements FieldValue
func (a Area) LegacyText() string { return a.RawLegacyValue }
