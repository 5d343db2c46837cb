// Package cmd holds the auxiliary cobra subcommands of broadcastd.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/avstage/broadcastd/internal/camera"
	"github.com/avstage/broadcastd/internal/compose"
	"github.com/avstage/broadcastd/internal/schedule"
)

// CreateValidateCmd creates the validate command. It parses the roster,
// schedule and mode book and cross-checks every reference between them
// without starting cameras or the walker.
func CreateValidateCmd() *cobra.Command {
	var camerasFile string
	var scheduleFile string
	var modesFile string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate broadcast configuration files",
		Long: `Parses the camera roster, schedule and display mode book and checks ` +
			`that every camera id and mode name referenced by schedule actions and ` +
			`mode layouts actually exists. Nothing is started.`,
		Run: func(_ *cobra.Command, _ []string) {
			problems := validateFiles(camerasFile, scheduleFile, modesFile)
			if len(problems) == 0 {
				fmt.Println("configuration ok")
				return
			}
			for _, p := range problems {
				fmt.Fprintln(os.Stderr, p)
			}
			os.Exit(1)
		},
	}

	c.Flags().StringVar(&camerasFile, "cameras", "cameras.yaml", "Camera roster file")
	c.Flags().StringVar(&scheduleFile, "schedule", "schedule.yaml", "Broadcast schedule file")
	c.Flags().StringVar(&modesFile, "modes", "modes.yaml", "Display mode book file")
	return c
}

func validateFiles(camerasFile, scheduleFile, modesFile string) []string {
	var problems []string

	configs, err := camera.LoadRosterFile(camerasFile)
	// When the roster itself failed to parse, every id lookup would fail
	// too; report the parse error alone and skip the camera cross-checks.
	rosterOK := err == nil
	if err != nil {
		problems = append(problems, fmt.Sprintf("cameras: %v", err))
	}
	cameraIDs := lo.SliceToMap(configs, func(c camera.Config) (int, struct{}) {
		return c.ID, struct{}{}
	})

	sched, err := schedule.LoadFile(scheduleFile)
	if err != nil {
		problems = append(problems, fmt.Sprintf("schedule: %v", err))
	}

	modes, err := compose.LoadModeBook(modesFile)
	if err != nil {
		problems = append(problems, fmt.Sprintf("modes: %v", err))
	}

	if modes != nil && rosterOK {
		for _, name := range modes.Names() {
			mode, _ := modes.Get(name)
			for _, id := range mode.Cameras() {
				if _, ok := cameraIDs[id]; !ok {
					problems = append(problems, fmt.Sprintf("modes: mode %q references unknown camera %d", name, id))
				}
			}
		}
	}

	if sched != nil {
		for _, p := range sched.Programmes {
			for _, e := range p.Events {
				for _, a := range e.Actions {
					switch a.Kind {
					case schedule.KindCameraMove:
						if !rosterOK {
							continue
						}
						if _, ok := cameraIDs[a.Camera]; !ok {
							problems = append(problems, fmt.Sprintf(
								"schedule: %s/%s references unknown camera %d", p.Name, e.Name, a.Camera))
						}
					case schedule.KindDisplayMode:
						if modes == nil {
							continue
						}
						if _, ok := modes.Get(a.Mode); !ok {
							problems = append(problems, fmt.Sprintf(
								"schedule: %s/%s references unknown mode %q", p.Name, e.Name, a.Mode))
						}
					case schedule.KindPlayAudio, schedule.KindPlayVideo:
						if _, statErr := os.Stat(a.File); statErr != nil {
							problems = append(problems, fmt.Sprintf(
								"schedule: %s/%s media file %s: %v", p.Name, e.Name, a.File, statErr))
						}
					}
				}
			}
		}
	}

	return problems
}
