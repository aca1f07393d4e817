package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
)

var textCmd = &cobra.Command{
	Use:     "text <field> <json>",
	Short:   "Render one structured field as display text",
	Example: `  spellcanon text range '{"kind":"distance","distance":{"mode":"fixed","value":60},"unit":"feet"}'`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseValue(args[1])
		if err != nil {
			return err
		}

		normalized, err := canon.NormalizeField(spell.Field(args[0]), value)
		if err != nil {
			return err
		}

		fmt.Println(canon.FieldToText(normalized))
		return nil
	},
}
