// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CausalFOSS/cmd/causal/config"
	"github.com/AleutianAI/CausalFOSS/services/causal"
)

// commandTimeout bounds every command run so a runaway enumeration
// cannot hang a scripted caller.
const commandTimeout = 30 * time.Second

// --- Global Command Variables ---
var (
	jsonOutput    bool
	compactOutput bool

	// query flags
	dsepX     []string
	dsepY     []string
	dsepGiven []string

	treatment    string
	outcome      string
	queryLimit   int
	candidateSet []string
	maxPaths     int

	// scm flags
	sampleRows    int
	sampleSeed    uint64
	sampleSummary bool

	interveneSet    []string
	interveneName   string
	interveneOutput string

	cfObserved []string
	cfDo       []string

	// serve flags
	serveAddr     string
	serveModelDir string

	rootCmd = &cobra.Command{
		Use:   "causal",
		Short: "A cli for causal graphical models and structural causal models",
		Long: `Causal is a tool for reasoning about causal DAGs: d-separation,
Markov equivalence, backdoor adjustment sets, and structural causal
model simulation (sampling, interventions, counterfactuals).

Models are YAML files; see 'causal model validate --help' for the schema.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			// Flags win over config; piped output defaults to JSON.
			if !cmd.Flags().Changed("json") {
				jsonOutput = config.Global.Output.JSON || !stdoutIsTTY()
			}
			return nil
		},
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the causal version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("causal", causal.ServiceVersion)
		},
	}

	// --- Model Inspection ---
	modelCmd = &cobra.Command{
		Use:   "model",
		Short: "Inspect and validate model files",
	}
	modelShowCmd = &cobra.Command{
		Use:   "show [model-file]",
		Short: "Show the nodes, edges, and mechanisms of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelShow, // Defined in cmd_model.go
	}
	modelDotCmd = &cobra.Command{
		Use:   "dot [model-file]",
		Short: "Print the model graph in Graphviz DOT format",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelDot, // Defined in cmd_model.go
	}
	modelDistributionCmd = &cobra.Command{
		Use:   "distribution [model-file]",
		Short: "Print the factorized joint distribution P(...) string",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelDistribution, // Defined in cmd_model.go
	}
	modelValidateCmd = &cobra.Command{
		Use:   "validate [model-file]",
		Short: "Validate a model file (schema, acyclicity, mechanisms)",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelValidate, // Defined in cmd_model.go
	}

	// --- Graph Queries ---
	dsepCmd = &cobra.Command{
		Use:   "dsep [model-file]",
		Short: "Test d-separation of two node sets given a conditioning set",
		Args:  cobra.ExactArgs(1),
		RunE:  runDSep, // Defined in cmd_query.go
	}
	independenciesCmd = &cobra.Command{
		Use:   "independencies [model-file]",
		Short: "Enumerate conditional independencies implied by the graph",
		Args:  cobra.ExactArgs(1),
		RunE:  runIndependencies, // Defined in cmd_query.go
	}
	adjustCmd = &cobra.Command{
		Use:   "adjust",
		Short: "Backdoor adjustment set queries",
	}
	adjustListCmd = &cobra.Command{
		Use:   "list [model-file]",
		Short: "List minimal backdoor adjustment sets for treatment and outcome",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdjustList, // Defined in cmd_query.go
	}
	adjustCheckCmd = &cobra.Command{
		Use:   "check [model-file]",
		Short: "Check whether a candidate set satisfies the backdoor criterion",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdjustCheck, // Defined in cmd_query.go
	}
	equivCmd = &cobra.Command{
		Use:   "equiv [model-file-a] [model-file-b]",
		Short: "Test whether two models are Markov equivalent",
		Args:  cobra.ExactArgs(2),
		RunE:  runEquiv, // Defined in cmd_query.go
	}
	moralizeCmd = &cobra.Command{
		Use:   "moralize [model-file]",
		Short: "Print the moralized (undirected) graph",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoralize, // Defined in cmd_query.go
	}
	pathsCmd = &cobra.Command{
		Use:   "paths [model-file]",
		Short: "List backdoor paths between treatment and outcome",
		Args:  cobra.ExactArgs(1),
		RunE:  runPaths, // Defined in cmd_query.go
	}

	// --- SCM Simulation ---
	sampleCmd = &cobra.Command{
		Use:   "sample [model-file]",
		Short: "Draw samples from a structural causal model",
		Args:  cobra.ExactArgs(1),
		RunE:  runSample, // Defined in cmd_scm.go
	}
	interveneCmd = &cobra.Command{
		Use:   "intervene [model-file]",
		Short: "Apply do-interventions and print the mutilated model",
		Args:  cobra.ExactArgs(1),
		RunE:  runIntervene, // Defined in cmd_scm.go
	}
	counterfactualCmd = &cobra.Command{
		Use:   "counterfactual [model-file]",
		Short: "Answer a counterfactual query via abduction-action-prediction",
		Args:  cobra.ExactArgs(1),
		RunE:  runCounterfactual, // Defined in cmd_scm.go
	}

	// --- Daemon ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the causal HTTP service",
		RunE:  runServe, // Defined in cmd_serve.go
	}
)

// commandContext returns the bounded context used by every command run.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output as JSON (default when stdout is not a TTY)")
	rootCmd.PersistentFlags().BoolVar(&compactOutput, "compact", false,
		"Compact JSON output without indentation")

	rootCmd.AddCommand(versionCmd)

	// model inspection
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelShowCmd)
	modelCmd.AddCommand(modelDotCmd)
	modelCmd.AddCommand(modelDistributionCmd)
	modelCmd.AddCommand(modelValidateCmd)

	// graph queries
	rootCmd.AddCommand(dsepCmd)
	dsepCmd.Flags().StringSliceVarP(&dsepX, "x", "x", nil, "First node set (comma-separated)")
	dsepCmd.Flags().StringSliceVarP(&dsepY, "y", "y", nil, "Second node set (comma-separated)")
	dsepCmd.Flags().StringSliceVarP(&dsepGiven, "given", "g", nil, "Conditioning set (comma-separated)")
	dsepCmd.MarkFlagRequired("x")
	dsepCmd.MarkFlagRequired("y")

	rootCmd.AddCommand(independenciesCmd)
	independenciesCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum statements to enumerate (0 = unlimited)")

	rootCmd.AddCommand(adjustCmd)
	adjustCmd.AddCommand(adjustListCmd)
	adjustListCmd.Flags().StringVarP(&treatment, "treatment", "t", "", "Treatment node")
	adjustListCmd.Flags().StringVarP(&outcome, "outcome", "o", "", "Outcome node")
	adjustListCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum sets to enumerate (0 = unlimited)")
	adjustListCmd.MarkFlagRequired("treatment")
	adjustListCmd.MarkFlagRequired("outcome")
	adjustCmd.AddCommand(adjustCheckCmd)
	adjustCheckCmd.Flags().StringVarP(&treatment, "treatment", "t", "", "Treatment node")
	adjustCheckCmd.Flags().StringVarP(&outcome, "outcome", "o", "", "Outcome node")
	adjustCheckCmd.Flags().StringSliceVarP(&candidateSet, "set", "s", nil, "Candidate adjustment set (comma-separated)")
	adjustCheckCmd.MarkFlagRequired("treatment")
	adjustCheckCmd.MarkFlagRequired("outcome")

	rootCmd.AddCommand(equivCmd)
	rootCmd.AddCommand(moralizeCmd)

	rootCmd.AddCommand(pathsCmd)
	pathsCmd.Flags().StringVarP(&treatment, "treatment", "t", "", "Treatment node")
	pathsCmd.Flags().StringVarP(&outcome, "outcome", "o", "", "Outcome node")
	pathsCmd.Flags().IntVar(&maxPaths, "max-paths", 0, "Maximum paths to enumerate (0 = unlimited)")
	pathsCmd.MarkFlagRequired("treatment")
	pathsCmd.MarkFlagRequired("outcome")

	// scm simulation
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().IntVarP(&sampleRows, "n", "n", 0, "Number of rows to draw (default from config)")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "Random seed")
	sampleCmd.Flags().BoolVar(&sampleSummary, "summary", false, "Print per-column mean and stddev instead of rows")

	rootCmd.AddCommand(interveneCmd)
	interveneCmd.Flags().StringSliceVarP(&interveneSet, "set", "s", nil, "Intervention as name=value (repeatable)")
	interveneCmd.Flags().StringVar(&interveneName, "name", "", "Name for the mutilated model (default <name>-do)")
	interveneCmd.Flags().StringVarP(&interveneOutput, "output", "O", "", "Write the mutilated model YAML to a file")
	interveneCmd.MarkFlagRequired("set")

	rootCmd.AddCommand(counterfactualCmd)
	counterfactualCmd.Flags().StringSliceVar(&cfObserved, "observe", nil, "Observed values as name=value (repeatable)")
	counterfactualCmd.Flags().StringSliceVar(&cfDo, "do", nil, "Interventions as name=value (repeatable)")
	counterfactualCmd.MarkFlagRequired("observe")

	// daemon
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&serveModelDir, "model-dir", "", "Directory of YAML model files to serve (default from config)")
}
