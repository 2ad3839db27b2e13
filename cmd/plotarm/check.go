package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mastercactapus/plotarm/calibration"
)

type CheckCommand struct{}

// readiness returns everything preventing a job from running.
func readiness(g GlobalOptions) []string {
	var issues []string
	if g.SPJS == "" {
		_, err := os.Stat(g.Port)
		if err != nil {
			issues = append(issues, fmt.Sprintf("arm port not found: %s", g.Port))
		}
	}

	_, err := os.Stat(g.Calibration)
	if err != nil {
		issues = append(issues, fmt.Sprintf("no calibration file %s; run 'plotarm calibrate'", g.Calibration))
	} else if _, err = calibration.Load(g.Calibration); err != nil {
		issues = append(issues, err.Error())
	}

	if !calibration.IsReady(g.readyPath()) {
		issues = append(issues, "arm not calibrated this session; run 'plotarm calibrate'")
	}
	return issues
}

func (c *CheckCommand) Execute(args []string) error {
	issues := readiness(opts.Global)
	if len(issues) > 0 {
		fmt.Println("System not ready:")
		for _, s := range issues {
			fmt.Println("  -", s)
		}
		return errors.New("not ready")
	}

	info, err := calibration.ReadyInfo(opts.Global.readyPath())
	if err != nil {
		return err
	}
	fmt.Printf("All systems ready (%s).\n", info)
	return nil
}
