package main

import (
	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full preparation pipeline",
		Long: "Run every preparation stage in dependency order. Stages whose " +
			"fingerprints match the cache ledger are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runStages(cmd)
		},
	}
}

func newStageCommands(ctx *commandContext) []*cobra.Command {
	stages := []struct {
		name  string
		short string
	}{
		{"captions", "Write the filtered SRL caption annotations"},
		{"lemmas", "Build the verb lemma dictionary"},
		{"verbs", "Ground SRL arguments to entity proposals"},
		{"index", "Build object dictionaries and index-augmented annotations"},
		{"vocab", "Build the argument token vocabulary"},
		{"gtk", "Build the ground-truth-box dataset variant"},
	}

	cmds := make([]*cobra.Command, 0, len(stages))
	for _, stage := range stages {
		name := stage.name
		cmds = append(cmds, &cobra.Command{
			Use:   name,
			Short: stage.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.runStages(cmd, name)
			},
		})
	}
	return cmds
}
