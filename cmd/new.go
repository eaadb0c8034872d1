package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samhoang/skilo/internal/agent"
	skiloerrors "github.com/samhoang/skilo/internal/errors"
	"github.com/samhoang/skilo/internal/skill/rules"
	"github.com/samhoang/skilo/internal/templates"
)

var (
	newTemplate       string
	newLang           string
	newLicense        string
	newDescription    string
	newNoOptionalDirs bool
	newNoScripts      bool
	newAgent          string
	newGlobal         bool
	newOutput         string
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a skill from a template",
	Long: `Create a new skill directory with a SKILL.md and optional scripts.

Templates:
  hello-world   minimal instructions and a greeting script
  minimal       SKILL.md only
  full          every section, a script, references/ and assets/
  script-based  setup, run and cleanup scripts

The skill is created in the agent's skills directory unless --output is
given. Names must be lowercase letters, digits and single hyphens.

Examples:
  skilo new pdf-tools
  skilo new pdf-tools --template full --lang bash
  skilo new pdf-tools --agent cursor --global
  skilo new pdf-tools --output ./skills`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	f := newCmd.Flags()
	f.StringVarP(&newTemplate, "template", "t", "", "Template: hello-world, minimal, full, script-based (default from config)")
	f.StringVar(&newLang, "lang", "", "Script language: python, bash, javascript, typescript (default from config)")
	f.StringVar(&newLicense, "license", "", "SPDX license identifier")
	f.StringVarP(&newDescription, "description", "d", "", "Skill description")
	f.BoolVar(&newNoOptionalDirs, "no-optional-dirs", false, "Skip references/ and assets/")
	f.BoolVar(&newNoScripts, "no-scripts", false, "Skip the scripts/ directory")
	f.StringVarP(&newAgent, "agent", "a", "", "Target agent (determines the output directory)")
	f.BoolVarP(&newGlobal, "global", "g", false, "Create in the user-level skills directory")
	f.StringVarP(&newOutput, "output", "o", "", "Output directory")
	newCmd.MarkFlagsMutuallyExclusive("output", "agent")
	newCmd.MarkFlagsMutuallyExclusive("output", "global")
	rootCmd.AddCommand(newCmd)
}

func validSkillName(name string) bool {
	return len(name) > 0 && len(name) <= 64 && rules.NameRegex.MatchString(name)
}

func runNew(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	if !validSkillName(name) {
		return skiloerrors.NewInvalidSkillName(name)
	}

	tplName := newTemplate
	if tplName == "" {
		tplName = a.cfg.New.DefaultTemplate
	}
	tpl, err := templates.ParseTemplate(tplName)
	if err != nil {
		return skiloerrors.NewConfig(err.Error(), nil)
	}

	langName := newLang
	if langName == "" {
		langName = a.cfg.New.DefaultLang
	}
	lang, err := templates.ParseLang(langName)
	if err != nil {
		return skiloerrors.NewConfig(err.Error(), nil)
	}

	license := newLicense
	if license == "" {
		license = a.cfg.New.DefaultLicense
	}

	outputDir := a.paths.ExpandHome(newOutput)
	if outputDir == "" {
		var ag agent.Agent
		if newAgent != "" {
			ag, err = agent.Parse(newAgent)
		} else {
			ag, err = a.defaultAgent()
		}
		if err != nil {
			return err
		}
		if outputDir, err = a.locator.EnsureSkillsDir(ag, scopeOf(newGlobal)); err != nil {
			return err
		}
	}

	dir, err := templates.Render(tpl, templates.Context{
		Name:                name,
		Description:         newDescription,
		License:             license,
		Lang:                lang,
		IncludeOptionalDirs: !newNoOptionalDirs,
		IncludeScripts:      !newNoScripts,
	}, outputDir)
	if err != nil {
		return err
	}

	a.out.Success(fmt.Sprintf("Created skill '%s' at %s", name, dir))
	return nil
}
