// Package calibration persists the pen height and paper tilt, and marks a
// session as calibrated.
package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/meshlevel"
	"github.com/mastercactapus/plotarm/motion"
)

// DefaultFile is the calibration file used when none is configured.
const DefaultFile = "calibration.json"

// ReadyFlagName is the marker file created by a successful calibration.
const ReadyFlagName = "plotarm_ready.flag"

// ErrNotReady is returned when the session has not been calibrated.
var ErrNotReady = errors.New("arm not calibrated this session")

// Calibration holds per-setup pen geometry.
type Calibration struct {
	// ZUp is the mm to lift the pen above the paper.
	ZUp float64 `json:"z_up"`

	// TiltSlope is mm of Z correction per mm of Y travel.
	TiltSlope float64 `json:"tilt_slope"`

	Note string `json:"note"`

	// Surface holds optional probed paper heights.
	Surface []coord.Point `json:"surface,omitempty"`
}

// Default returns the calibration used when no file exists.
func Default() Calibration {
	return Calibration{
		ZUp:  motion.DefaultPen().ZUp,
		Note: "z_up = mm to lift pen above paper",
	}
}

// Validate checks the values are usable.
func (c Calibration) Validate() error {
	if c.ZUp <= 0 {
		return fmt.Errorf("z_up must be positive, got %g", c.ZUp)
	}
	if len(c.Surface) > 0 && len(c.Surface) < 3 {
		return fmt.Errorf("surface needs at least 3 points, got %d", len(c.Surface))
	}
	return nil
}

// Compensator returns the Z compensation described by the calibration.
func (c Calibration) Compensator() (meshlevel.Compensator, error) {
	return meshlevel.New(c.TiltSlope, c.Surface)
}

// Apply sets the pen lift on p.
func (c Calibration) Apply(p motion.Pen) motion.Pen {
	p.ZUp = c.ZUp
	return p
}

// Load reads the calibration at path. A missing file yields Default().
func Load(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Calibration{}, fmt.Errorf("read calibration file: %w", err)
	}

	cal := Default()
	err = json.Unmarshal(data, &cal)
	if err != nil {
		return Calibration{}, fmt.Errorf("parse calibration JSON: %w", err)
	}
	err = cal.Validate()
	if err != nil {
		return Calibration{}, fmt.Errorf("calibration %s: %w", path, err)
	}
	return cal, nil
}

// Save writes cal to path as indented JSON.
func Save(path string, cal Calibration) error {
	err := cal.Validate()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cal, "", "  ")
	if err != nil {
		return err
	}
	err = os.WriteFile(path, append(data, '\n'), 0644)
	if err != nil {
		return fmt.Errorf("write calibration file: %w", err)
	}
	return nil
}

// DefaultReadyPath is the session marker location, in the temp dir so it
// does not survive a reboot.
func DefaultReadyPath() string {
	return filepath.Join(os.TempDir(), ReadyFlagName)
}

// MarkReady records that the session was calibrated with cal.
func MarkReady(path string, cal Calibration) error {
	err := os.WriteFile(path, []byte(fmt.Sprintf("calibrated z_up=%.2f\n", cal.ZUp)), 0644)
	if err != nil {
		return fmt.Errorf("write ready flag: %w", err)
	}
	return nil
}

// IsReady reports whether the session marker exists.
func IsReady(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CheckReady returns ErrNotReady if the marker is missing.
func CheckReady(path string) error {
	if !IsReady(path) {
		return fmt.Errorf("%w (no %s)", ErrNotReady, path)
	}
	return nil
}

// ReadyInfo returns the marker contents, trimmed.
func ReadyInfo(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
