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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polylab/polycrit/objectives"
)

// ObjectivesCmd represents the objectives command
var ObjectivesCmd = &cobra.Command{
	Use:   "objectives",
	Short: "List the named objectives available to the run deck",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range objectives.Names() {
			b, _ := objectives.Lookup(name)
			fmt.Printf("%-14s dim %d  %s\n", name, b.Dim, b.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(ObjectivesCmd)
}
