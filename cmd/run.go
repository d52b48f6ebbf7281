/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/polylab/polycrit/InputParameters"
	"github.com/polylab/polycrit/objectives"
	"github.com/polylab/polycrit/pipeline"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the critical point pipeline on an objective from a YAML run deck",
	Long: `
Runs the four-stage pipeline (surrogate fit, critical point solve,
Hessian classification, refinement) on a named objective, and writes the
raw and refined point sets as versioned CSV artifacts.

polycrit run -I deck.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err    error
			ipFile string
		)
		if ipFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		ip := processInput(ipFile)
		applyOverrides(cmd, ip)
		if p, _ := cmd.Flags().GetBool("profile"); p {
			defer profile.Start().Stop()
		}
		RunPipeline(ip)
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- Objective\n\t- StartDegree\n\t- Tolerance")
	RunCmd.Flags().IntP("startDegree", "n", 0, "starting surrogate degree, overrides the run deck")
	RunCmd.Flags().IntP("maxDegree", "m", 0, "degree escalation ceiling, overrides the run deck")
	RunCmd.Flags().Float64P("tolerance", "t", 0, "L2 error target, overrides the run deck")
	RunCmd.Flags().Int64P("seed", "s", -1, "sampling seed, overrides the run deck")
	RunCmd.Flags().StringP("outputDir", "o", "", "directory for the CSV artifacts, overrides the run deck")
	RunCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}

func processInput(ipFile string) (ip *InputParameters.InputParameters) {
	var (
		err error
	)
	if len(ipFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Six Hump Camel"
Objective: sixhumpcamel
StartDegree: 4
MaxDegree: 12
Tolerance: 1.e-4
Seed: 42
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(ipFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func applyOverrides(cmd *cobra.Command, ip *InputParameters.InputParameters) {
	if n, _ := cmd.Flags().GetInt("startDegree"); n > 0 {
		ip.StartDegree = n
	}
	if m, _ := cmd.Flags().GetInt("maxDegree"); m > 0 {
		ip.MaxDegree = m
	}
	if t, _ := cmd.Flags().GetFloat64("tolerance"); t > 0 {
		ip.Tolerance = t
	}
	if s, _ := cmd.Flags().GetInt64("seed"); s >= 0 {
		ip.Seed = s
	}
	if o, _ := cmd.Flags().GetString("outputDir"); len(o) != 0 {
		ip.OutputDir = o
	}
}

func RunPipeline(ip *InputParameters.InputParameters) {
	var (
		err error
	)
	if err = ip.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ip.Print()

	bench, err := objectives.Lookup(ip.Objective)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	dom, err := ip.Domain(bench.Domain)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	cfg := pipeline.DefaultConfig(bench.F, dom)
	cfg.StartDegree = ip.StartDegree
	cfg.MaxDegree = ip.MaxDegree
	cfg.Tolerance = ip.Tolerance
	cfg.SampleCount = ip.SampleCount
	cfg.Seed = ip.Seed
	cfg.Engine.GradFree = ip.GradFree
	if ip.MaxIterations > 0 {
		cfg.Engine.MaxIterations = ip.MaxIterations
	}
	if ip.MergeRadius > 0 {
		cfg.Engine.MergeRadius = ip.MergeRadius
	}
	cfg.Logger = slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	printSummary(res.Summary)

	if err = pipeline.Export(ip.OutputDir, ip.OutputBase, res); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("wrote %s_raw.csv and %s.csv\n", ip.OutputBase, ip.OutputBase)
}

func printSummary(s pipeline.Summary) {
	fmt.Printf("[%d]\t\t\t= Degree Reached\n", s.Degree)
	fmt.Printf("%8.2e\t\t= L2 Error\n", s.L2Error)
	fmt.Printf("%8.2e\t\t= Condition Number\n", s.CondNumber)
	fmt.Printf("[%t]\t\t\t= Tolerance Met\n", s.ToleranceMet)
	fmt.Printf("[%s]\t\t= Solver Outcome\n", s.Solver)
	fmt.Printf("[%d / %d]\t\t= Candidates In Domain / Total\n", s.InDomain, s.Candidates)

	labels := make([]string, 0, len(s.Counts))
	for k := range s.Counts {
		labels = append(labels, k.String())
	}
	sort.Strings(labels)
	for _, l := range labels {
		for k, n := range s.Counts {
			if k.String() == l {
				fmt.Printf("Counts[%s] = %d\n", l, n)
			}
		}
	}
	fmt.Printf("[%d refined, %d rejected, %d merged]\n", s.Refined, s.Rejected, s.Merged)
}
