package srd

import (
	"fmt"
	"strings"

	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
)

// ToRawRecord converts a dnd5e-api spell into a raw record. Every 5e spell
// is arcane, so the school is always set. Range, duration and casting time
// stay legacy text; damage becomes a structured value when every slot level
// is plain dice notation.
func ToRawRecord(apiSpell *entities.Spell) canon.RawRecord {
	record := canon.RawRecord{
		"name":         apiSpell.Name,
		"level":        apiSpell.SpellLevel,
		"range":        apiSpell.Range,
		"duration":     apiSpell.Duration,
		"casting_time": apiSpell.CastingTime,
		"source":       SourceName,
		"edition":      Edition,
		"license":      License,
		"description":  buildDescription(apiSpell),
		"source_refs": []any{map[string]any{
			"system": Edition,
			"book":   SRDBook,
		}},
	}

	school := "Unknown"
	if apiSpell.SpellSchool != nil && apiSpell.SpellSchool.Name != "" {
		school = apiSpell.SpellSchool.Name
	}
	record["school"] = school

	var classes []any
	for _, class := range apiSpell.SpellClasses {
		if class != nil {
			classes = append(classes, class.Name)
		}
	}
	if len(classes) > 0 {
		record["class_list"] = classes
	}

	var tags []any
	if apiSpell.Ritual {
		tags = append(tags, "ritual")
	}
	if apiSpell.Concentration {
		tags = append(tags, "concentration")
	}
	if len(tags) > 0 {
		record["tags"] = tags
	}

	if apiSpell.SpellLevel == 0 {
		record["is_cantrip"] = true
	}

	save := ""
	if apiSpell.DC != nil {
		ability := ""
		if apiSpell.DC.DCType != nil {
			ability = apiSpell.DC.DCType.Name
		}
		save = saveText(string(apiSpell.DC.DCSuccess), ability)
		record["saving_throw"] = save
	}

	if apiSpell.AreaOfEffect != nil {
		record["area"] = fmt.Sprintf("%v ft %v", apiSpell.AreaOfEffect.Size, apiSpell.AreaOfEffect.Type)
	}

	if apiSpell.SpellDamage != nil {
		damageType := "untyped"
		if t := apiSpell.SpellDamage.SpellDamageType; t != nil && t.Name != "" {
			damageType = t.Name
		}
		slots := slotDamage(apiSpell.SpellLevel, apiSpell.SpellDamage.SpellDamageAtSlotLevel)
		if spec := damageSpec(apiSpell.SpellLevel, slots, damageType, save); spec != nil {
			record["damage_spec"] = spec
		} else if text := damageText(slots, damageType); text != "" {
			record["damage"] = text
		}
	}

	return record
}

func saveText(success, ability string) string {
	var text string
	switch strings.ToLower(success) {
	case "half":
		text = "Half"
	case "none":
		text = "Negates"
	default:
		text = "Special"
	}
	if ability != "" {
		text += fmt.Sprintf(" (%s)", ability)
	}
	return text
}

// slotDamage lists the damage per slot level from the spell's own level up
func slotDamage(level int, at *entities.SpellDamageAtSlotLevel) []string {
	if at == nil {
		return nil
	}
	bySlot := []string{
		at.FirstLevel, at.SecondLevel, at.ThirdLevel,
		at.FourthLevel, at.FifthLevel, at.SixthLevel,
		at.SeventhLevel, at.EighthLevel, at.NinthLevel,
	}
	first := max(level, 1)
	return bySlot[first-1:]
}

// damageSpec builds a modeled damage value whose base is replaced per slot
// level. It returns nil when any slot uses notation beyond plain dice, such
// as a spellcasting modifier.
func damageSpec(level int, slots []string, damageType, save string) map[string]any {
	first := max(level, 1)

	var base string
	var bands []any
	for i, notation := range slots {
		if notation == "" {
			continue
		}
		if _, err := canon.ParseDiceNotation(notation); err != nil {
			return nil
		}
		if base == "" {
			base = notation
		}
		slot := first + i
		bands = append(bands, map[string]any{"min": slot, "max": slot, "base": notation})
	}
	if base == "" {
		return nil
	}

	part := map[string]any{
		"id":          "base",
		"damage_type": damageType,
		"base":        base,
	}
	if strings.HasPrefix(save, "Half") {
		part["save"] = map[string]any{"kind": "half"}
	} else if strings.HasPrefix(save, "Negates") {
		part["save"] = map[string]any{"kind": "negates"}
	}
	if len(bands) > 1 {
		part["scaling"] = []any{map[string]any{
			"kind":        "set_base_by_level_band",
			"driver":      "spell_level",
			"level_bands": bands,
		}}
	}

	return map[string]any{
		"kind":         "modeled",
		"combine_mode": "sum",
		"parts":        []any{part},
	}
}

func damageText(slots []string, damageType string) string {
	for _, notation := range slots {
		if notation != "" {
			return fmt.Sprintf("%s %s", notation, strings.ToLower(damageType))
		}
	}
	return ""
}

// buildDescription creates a short summary from the available spell data
func buildDescription(apiSpell *entities.Spell) string {
	levelStr := "Cantrip"
	if apiSpell.SpellLevel > 0 {
		levelStr = fmt.Sprintf("Level %d", apiSpell.SpellLevel)
	}

	schoolName := "Unknown School"
	if apiSpell.SpellSchool != nil {
		schoolName = apiSpell.SpellSchool.Name
	}

	parts := []string{fmt.Sprintf("%s %s spell", levelStr, schoolName)}

	var properties []string
	if apiSpell.Ritual {
		properties = append(properties, "Ritual")
	}
	if apiSpell.Concentration {
		properties = append(properties, "Concentration")
	}
	if len(properties) > 0 {
		parts = append(parts, fmt.Sprintf("Properties: %s", strings.Join(properties, ", ")))
	}

	return strings.Join(parts, ". ")
}
