// ABOUTME: Install Claude Code skill for nutrition
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the nutrition skill for Claude Code.

This copies the skill definition to ~/.claude/skills/nutrition/
so Claude Code can use nutrition commands contextually.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		skillDir := filepath.Join(home, ".claude", "skills", "nutrition")
		return installSkill(skillDir, skillSkipConfirm, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

// installSkill writes the embedded SKILL.md into skillDir, asking on in
// first unless skipConfirm is set.
func installSkill(skillDir string, skipConfirm bool, in io.Reader, out io.Writer) error {
	skillPath := filepath.Join(skillDir, "SKILL.md")

	fmt.Fprintln(out, "┌─────────────────────────────────────────────────────────────┐")
	fmt.Fprintln(out, "│             Nutrition Skill for Claude Code                 │")
	fmt.Fprintln(out, "└─────────────────────────────────────────────────────────────┘")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This will install the nutrition skill, enabling Claude Code to:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  • Look up foods and log meals")
	fmt.Fprintln(out, "  • Track water and body weight")
	fmt.Fprintln(out, "  • Summarize intake over recent days")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Destination:")
	fmt.Fprintf(out, "  %s\n", skillPath)
	fmt.Fprintln(out)

	if _, err := os.Stat(skillPath); err == nil {
		fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		fmt.Fprintln(out)
	}

	if !skipConfirm {
		fmt.Fprint(out, "Install the nutrition skill? [y/N] ")
		reader := bufio.NewReader(in)
		response, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(skillDir, 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}

	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Fprintln(out, "✓ Installed nutrition skill successfully!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Try asking Claude: \"Log 150g of rice for lunch\" or \"How much water did I drink this week?\"")
	return nil
}
