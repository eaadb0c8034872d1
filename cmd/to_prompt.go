package cmd

import (
	"bytes"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/samhoang/skilo/internal/skill"
)

var toPromptCmd = &cobra.Command{
	Use:   "to-prompt [paths...]",
	Short: "Print an <available_skills> block for agent prompts",
	Long: `Print an <available_skills> XML block listing the name, description
and SKILL.md location of every skill under the given paths, suitable for
embedding in an agent system prompt.`,
	RunE: runToPrompt,
}

func init() {
	rootCmd.AddCommand(toPromptCmd)
}

func promptXML(manifests []*skill.Manifest) (string, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("available_skills")
	for _, m := range manifests {
		s := root.CreateElement("skill")
		s.CreateElement("name").SetText(m.Frontmatter.Name)
		s.CreateElement("description").SetText(m.Frontmatter.Description)
		s.CreateElement("location").SetText(m.Path)
	}
	doc.Indent(2)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func runToPrompt(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	manifests, failed, err := a.loadManifests(pathArgs(args))
	if err != nil {
		return err
	}

	xml, err := promptXML(manifests)
	if err != nil {
		return err
	}
	a.printf("%s", xml)

	if failed {
		return errFailed
	}
	return nil
}
