package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/skill"
)

var readPropertiesCmd = &cobra.Command{
	Use:   "read-properties [paths...]",
	Short: "Print skill frontmatter as JSON",
	Long: `Print the frontmatter of every skill under the given paths as JSON.

A single skill is printed as an object, several as an array. Manifests
that fail to parse are reported on stderr and make the command exit 1.`,
	RunE: runReadProperties,
}

func init() {
	rootCmd.AddCommand(readPropertiesCmd)
}

// skillProperties is the JSON shape of one skill
type skillProperties struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	License       *string           `json:"license,omitempty"`
	Compatibility *string           `json:"compatibility,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	AllowedTools  *string           `json:"allowed_tools,omitempty"`
	Path          string            `json:"path"`
}

func propertiesOf(m *skill.Manifest) skillProperties {
	fm := m.Frontmatter
	return skillProperties{
		Name:          fm.Name,
		Description:   fm.Description,
		License:       fm.License,
		Compatibility: fm.Compatibility,
		Metadata:      fm.Metadata,
		AllowedTools:  fm.AllowedTools,
		Path:          m.Path,
	}
}

// propertiesJSON renders one object for a single manifest, an array otherwise
func propertiesJSON(manifests []*skill.Manifest) ([]byte, error) {
	if len(manifests) == 1 {
		return json.MarshalIndent(propertiesOf(manifests[0]), "", "  ")
	}
	props := make([]skillProperties, 0, len(manifests))
	for _, m := range manifests {
		props = append(props, propertiesOf(m))
	}
	return json.MarshalIndent(props, "", "  ")
}

// loadManifests parses every skill under roots. Parse failures are printed
// to stderr; failed reports whether there were any.
func (a *app) loadManifests(roots []string) (manifests []*skill.Manifest, failed bool, err error) {
	paths := a.findSkillPaths(roots)
	if len(paths) == 0 {
		return nil, false, skiloerrors.NewNoSkillsFound(strings.Join(roots, ", "))
	}

	for _, l := range skill.LoadPaths(paths) {
		if l.Err != nil {
			fmt.Fprintf(a.stderr, "Error: %s: %v\n", l.Path, l.Err)
			failed = true
			continue
		}
		manifests = append(manifests, l.Manifest)
	}
	return manifests, failed, nil
}

func runReadProperties(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	manifests, failed, err := a.loadManifests(pathArgs(args))
	if err != nil {
		return err
	}

	data, err := propertiesJSON(manifests)
	if err != nil {
		return err
	}
	a.printf("%s\n", data)

	if failed {
		return errFailed
	}
	return nil
}
