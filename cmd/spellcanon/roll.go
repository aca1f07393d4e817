package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/entities/spell"
	"github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/damage"
)

var (
	rollDrivers map[string]int
	rollPart    string
)

var rollCmd = &cobra.Command{
	Use:   "roll <file>",
	Short: "Roll the structured damage of the first record in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoll,
}

func init() {
	rollCmd.Flags().StringToIntVar(&rollDrivers, "driver", nil, "scaling driver values, e.g. --driver caster_level=5")
	rollCmd.Flags().StringVar(&rollPart, "part", "", "part id for choose_one damage")
}

func runRoll(cmd *cobra.Command, args []string) error {
	records, err := readRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s holds no records", args[0])
	}

	result, err := canon.Assemble(records[0], assembleOptions()...)
	if err != nil {
		return err
	}
	if result.Spell.Damage == nil {
		return fmt.Errorf("%s has no damage", result.Spell.Name)
	}

	drivers := make(canon.DriverValues, len(rollDrivers))
	for name, v := range rollDrivers {
		drivers[spell.ScalingDriver(name)] = v
	}

	svc, err := damage.NewOrchestrator(&damage.Config{})
	if err != nil {
		return err
	}

	out, err := svc.Roll(cmd.Context(), &damage.RollInput{
		Damage:       result.Spell.Damage,
		Drivers:      drivers,
		ChosenPartID: rollPart,
	})
	if err != nil {
		return err
	}

	return printJSON(out)
}
