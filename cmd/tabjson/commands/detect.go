/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: detect.go
Description: Detect command implementation for the tabjson converter. Runs
format classification and dialect detection on a file and prints the result
without converting anything.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kleascm/tabjson/pkg/detection"
	"github.com/kleascm/tabjson/pkg/interfaces"
)

// RunDetect inspects a file and prints its resolved format and dialect
func RunDetect(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	inputPath, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}

	format, err := detection.DetectFileFormat(inputPath)
	if err != nil {
		return err
	}

	fmt.Printf("format: %s\n", format)
	if format != interfaces.FormatDelimitedText {
		return nil
	}

	dialect, err := detection.DetectDialect(inputPath)
	if err != nil {
		return err
	}
	fmt.Printf("dialect: %s\n", dialect)
	return nil
}
