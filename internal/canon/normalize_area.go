package canon

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

var areaKinds = map[spell.AreaKind]kindSpec[spell.Area]{
	spell.AreaKindRadiusCircle: {fill: fillAreaRadius, text: areaRadiusText},
	spell.AreaKindRadiusSphere: {fill: fillAreaRadius, text: areaRadiusText},
	spell.AreaKindCone:         {fill: fillAreaCone, text: areaConeText},
	spell.AreaKindLine:         {fill: fillAreaLine, text: areaLineText},
	spell.AreaKindRect:         {fill: fillAreaRect, text: areaRectText},
	spell.AreaKindRectPrism:    {fill: fillAreaRectPrism, text: areaRectText},
	spell.AreaKindCylinder:     {fill: fillAreaCylinder, text: areaCylinderText},
	spell.AreaKindWall:         {fill: fillAreaWall, text: areaWallText},
	spell.AreaKindCube:         {fill: fillAreaCube, text: areaCubeText},
	spell.AreaKindVolume:       {fill: fillAreaVolume, text: areaVolumeText},
	spell.AreaKindSurface:      {fill: fillAreaSurface, text: areaSurfaceText},
	spell.AreaKindTiles:        {fill: fillAreaTiles, text: areaTilesText},
	spell.AreaKindCreatures:    {fill: fillAreaCount("creature"), text: areaCountText},
	spell.AreaKindObjects:      {fill: fillAreaCount("object"), text: areaCountText},
	spell.AreaKindRegion:       {fill: fillAreaRegion, text: areaRegionText},
	spell.AreaKindScope:        {fill: fillAreaScope, text: areaScopeText},
	spell.AreaKindPoint:        {fill: noCompanions[spell.Area], text: label[spell.Area]("Point")},
	spell.AreaKindSpecial:      {fill: noCompanions[spell.Area], text: label[spell.Area]("Special")},
}

var (
	areaShapeUnits   = []spell.AreaUnit{spell.AreaUnitFeet, spell.AreaUnitYards, spell.AreaUnitMiles, spell.AreaUnitInches}
	areaSurfaceUnits = []spell.AreaUnit{spell.AreaUnitSquareFeet, spell.AreaUnitSquareYards, spell.AreaUnitSquare}
	areaVolumeUnits  = []spell.AreaUnit{spell.AreaUnitCubicFeet, spell.AreaUnitCubicYards}
	areaTileUnits    = []spell.AreaUnit{spell.AreaUnitHex, spell.AreaUnitRoom, spell.AreaUnitFloor, spell.AreaUnitSquare}
)

var areaUnitAliases = map[string]spell.AreaUnit{
	"feet":         spell.AreaUnitFeet,
	"foot":         spell.AreaUnitFeet,
	"ft.":          spell.AreaUnitFeet,
	"yards":        spell.AreaUnitYards,
	"yard":         spell.AreaUnitYards,
	"miles":        spell.AreaUnitMiles,
	"mile":         spell.AreaUnitMiles,
	"inches":       spell.AreaUnitInches,
	"in":           spell.AreaUnitInches,
	"sq_ft":        spell.AreaUnitSquareFeet,
	"square_feet":  spell.AreaUnitSquareFeet,
	"sq_yd":        spell.AreaUnitSquareYards,
	"square_yards": spell.AreaUnitSquareYards,
	"squares":      spell.AreaUnitSquare,
	"cu_ft":        spell.AreaUnitCubicFeet,
	"cubic_feet":   spell.AreaUnitCubicFeet,
	"cu_yd":        spell.AreaUnitCubicYards,
	"cubic_yards":  spell.AreaUnitCubicYards,
	"hexes":        spell.AreaUnitHex,
	"rooms":        spell.AreaUnitRoom,
	"floors":       spell.AreaUnitFloor,
}

// NormalizeArea converts a loosely typed area object into an Area. Each kind
// keeps only its own dimensions.
func NormalizeArea(m map[string]any) (spell.Area, error) {
	area, _, err := normalizeArea(m)
	return area, err
}

func normalizeArea(m map[string]any) (spell.Area, []Warning, error) {
	a := newAttrs(spell.FieldArea, m)
	kind, spec, err := resolveKind(a, "kind", spell.DefaultAreaKind, areaKinds, nil)
	if err != nil {
		return spell.Area{}, nil, err
	}

	out := spell.Area{
		Kind:           kind,
		MovesWith:      a.text("moves_with"),
		Notes:          a.text("notes"),
		RawLegacyValue: a.text("raw_legacy_value"),
	}
	if err := spec.fill(a, &out); err != nil {
		return spell.Area{}, nil, err
	}
	return out, a.warnings(), nil
}

func shapeUnit(a attrs, area *spell.Area) error {
	unit, err := enumOr(a, "shape_unit", spell.AreaUnitFeet, areaShapeUnits, areaUnitAliases)
	if err != nil {
		return err
	}
	area.ShapeUnit = unit
	return nil
}

// dimensions fills required scalar companions, each defaulting to fixed 0
func dimensions(a attrs, targets map[string]**spell.Scalar) error {
	keys := make([]string, 0, len(targets))
	for key := range targets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		s, err := a.scalarOr(key, spell.Fixed(0))
		if err != nil {
			return err
		}
		*targets[key] = s
	}
	return nil
}

func fillAreaRadius(a attrs, area *spell.Area) error {
	if err := shapeUnit(a, area); err != nil {
		return err
	}
	return dimensions(a, map[string]**spell.Scalar{"radius": &area.Radius})
}

func fillAreaCone(a attrs, area *spell.Area) error {
	if err := shapeUnit(a, area); err != nil {
		return err
	}
	angle, hasAngle, err := a.number("angle_deg")
	if err != nil {
		return err
	}
	if hasAngle {
		angle = spell.ClampScalar(angle)
		area.AngleDeg = &angle
	}
	return dimensions(a, map[string]**spell.Scalar{"length": &area.Length})
}

func fillAreaLine(a attrs, area *spell.Area) error {
	if err := shapeUnit(a, area); err != nil {
		return err
	}
	width, err := a.scalarOpt("width")
	if err != nil {
		return err
	}
	area.Width = width
	return dimensions(a, map[string]**spell.Scalar{"length": &area.Length})
}

func fillAreaRect(a attrs, area *spell.Area) error {
	if err := shapeUnit(a, area); err != nil {
		return err
	}
	return dimensions(a, map[string]**spell.Scalar{"length": &area.Length, "width": &area.Width})
}

func fillAreaRectPrism(a attrs, area *spell.Area) error {
	if err := shapeUnit(a, area); err != nil {
		return err
	}
	return dimensions(a, map[string]**spell.Scalar{
		"length": &area.Length,
		"width":  &area.Width,
		"height": &area.Height,
	})
}

func fillAreaCylinder(a attrs, area *spell.Area) error {
	if err := shapeUnit(a, area); err != nil {
		return err
	}
	return dimensions(a, map[string]**spell.Scalar{"radius": &area.Radius, "height": &area.Height})
}

func fillAreaWall(a attrs, area *spell.Area) error {
	if err := shapeUnit(a, area); err != nil {
		return err
	}
	thickness, err := a.scalarOpt("thickness")
	if err != nil {
		return err
	}
	area.Thickness = thickness
	return dimensions(a, map[string]**spell.Scalar{"length": &area.Length, "height": &area.Height})
}

func fillAreaCube(a attrs, area *spell.Area) error {
	if err := shapeUnit(a, area); err != nil {
		return err
	}
	return dimensions(a, map[string]**spell.Scalar{"edge": &area.Edge})
}

func fillAreaVolume(a attrs, area *spell.Area) error {
	unit, err := enumOr(a, "unit", spell.AreaUnitCubicFeet, areaVolumeUnits, areaUnitAliases)
	if err != nil {
		return err
	}
	area.Unit = unit
	return dimensions(a, map[string]**spell.Scalar{"volume": &area.Volume})
}

func fillAreaSurface(a attrs, area *spell.Area) error {
	unit, err := enumOr(a, "unit", spell.AreaUnitSquareFeet, areaSurfaceUnits, areaUnitAliases)
	if err != nil {
		return err
	}
	area.Unit = unit
	return dimensions(a, map[string]**spell.Scalar{"surface_area": &area.SurfaceArea})
}

func fillAreaTiles(a attrs, area *spell.Area) error {
	unit, err := enumOr(a, "tile_unit", spell.AreaUnitSquare, areaTileUnits, areaUnitAliases)
	if err != nil {
		return err
	}
	area.TileUnit = unit
	count, err := a.scalarOr("tile_count", spell.Fixed(1))
	if err != nil {
		return err
	}
	area.TileCount = count
	return nil
}

func fillAreaCount(defaultSubject string) func(attrs, *spell.Area) error {
	return func(a attrs, area *spell.Area) error {
		count, err := a.scalarOr("count", spell.Fixed(1))
		if err != nil {
			return err
		}
		area.Count = count
		area.CountSubject = strings.ToLower(a.text("count_subject"))
		if area.CountSubject == "" {
			area.CountSubject = defaultSubject
		}
		return nil
	}
}

func fillAreaRegion(a attrs, area *spell.Area) error {
	area.RegionUnit = enumToken(a.text("region_unit"))
	return nil
}

func fillAreaScope(a attrs, area *spell.Area) error {
	area.ScopeUnit = enumToken(a.text("scope_unit"))
	return nil
}

// dim renders a dimension as "20 ft" or "10 ft/level"
func dim(s *spell.Scalar, unit spell.AreaUnit) string {
	if s == nil {
		s = &spell.Scalar{}
	}
	text := formatNumber(s.EffectiveValue())
	if unit != "" {
		text += " " + string(unit)
	}
	if s.IsPerLevel() {
		text += "/level"
	}
	return text
}

func areaRadiusText(a spell.Area) string {
	shape := "circle"
	if a.Kind == spell.AreaKindRadiusSphere {
		shape = "sphere"
	}
	return dim(a.Radius, a.ShapeUnit) + " radius " + shape
}

func areaConeText(a spell.Area) string {
	text := dim(a.Length, a.ShapeUnit) + " cone"
	if a.AngleDeg != nil {
		text += " (" + formatNumber(*a.AngleDeg) + " deg)"
	}
	return text
}

func areaLineText(a spell.Area) string {
	if a.Width != nil && a.Width.EffectiveValue() > 0 {
		return dim(a.Length, a.ShapeUnit) + " x " + dim(a.Width, a.ShapeUnit) + " line"
	}
	return dim(a.Length, a.ShapeUnit) + " line"
}

func areaRectText(a spell.Area) string {
	text := dim(a.Length, a.ShapeUnit) + " x " + dim(a.Width, a.ShapeUnit)
	if a.Kind == spell.AreaKindRectPrism {
		text += " x " + dim(a.Height, a.ShapeUnit)
	}
	return text
}

func areaCylinderText(a spell.Area) string {
	return dim(a.Radius, a.ShapeUnit) + " radius, " + dim(a.Height, a.ShapeUnit) + " high cylinder"
}

func areaWallText(a spell.Area) string {
	text := dim(a.Length, a.ShapeUnit) + " x " + dim(a.Height, a.ShapeUnit) + " wall"
	if a.Thickness != nil {
		text += ", " + dim(a.Thickness, a.ShapeUnit) + " thick"
	}
	return text
}

func areaCubeText(a spell.Area) string {
	return dim(a.Edge, a.ShapeUnit) + " cube"
}

func areaVolumeText(a spell.Area) string {
	return dim(a.Volume, a.Unit)
}

func areaSurfaceText(a spell.Area) string {
	return dim(a.SurfaceArea, a.Unit)
}

func areaTilesText(a spell.Area) string {
	return dim(a.TileCount, a.TileUnit)
}

func areaCountText(a spell.Area) string {
	return dim(a.Count, spell.AreaUnit(a.CountSubject))
}

func areaRegionText(a spell.Area) string {
	if a.RegionUnit != "" {
		return humanize(a.RegionUnit)
	}
	return "Region"
}

func areaScopeText(a spell.Area) string {
	if a.ScopeUnit != "" {
		return humanize(a.ScopeUnit)
	}
	return "Scope"
}

func projectArea(a spell.Area) string {
	spec, ok := areaKinds[a.Kind]
	if !ok {
		return humanize(string(a.Kind))
	}
	return spec.text(a)
}

// ValidateArea checks an area against the closed taxonomy
func ValidateArea(a spell.Area) error {
	vb := errors.NewValidationBuilder()
	if _, ok := areaKinds[a.Kind]; !ok {
		vb.InvalidField("kind", "unknown area kind "+string(a.Kind))
	}
	if a.ShapeUnit != "" {
		errors.ValidateEnum("shape_unit", string(a.ShapeUnit), enumStrings(areaShapeUnits), vb)
	}
	if a.AngleDeg != nil && *a.AngleDeg > 360 {
		vb.Fieldf("angle_deg", "must be at most 360, got %g", *a.AngleDeg)
	}
	return vb.Build()
}
