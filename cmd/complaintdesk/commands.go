package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hrygo/complaintdesk/ai/taxonomy"
	"github.com/hrygo/complaintdesk/internal/version"
)

var (
	classifyCmd = &cobra.Command{
		Use:   "classify",
		Short: "Infer category and priority for a complaint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := oneShotApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			result := a.Service.ClassifyMetadata(cmd.Context(), title, description)
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	enhanceCmd = &cobra.Command{
		Use:   "enhance",
		Short: "Rewrite a complaint description into a clearer one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := oneShotApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			text, err := a.Service.EnhanceDescription(cmd.Context(), title, description)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	questionsCmd = &cobra.Command{
		Use:   "questions",
		Short: "Generate quick questions for a role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			roleFlag, _ := cmd.Flags().GetString("role")
			role, ok := taxonomy.ParseRole(roleFlag)
			if !ok {
				return fmt.Errorf("unknown role %q (student, admin, super_admin)", roleFlag)
			}
			a, err := oneShotApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			for _, q := range a.Service.GenerateQuickQuestions(cmd.Context(), role) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), q); err != nil {
					return err
				}
			}
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.StringFull())
			required, _ := cmd.Flags().GetString("require")
			if required == "" {
				return nil
			}
			ok, err := version.AtLeast(required)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("version %s is older than required %s", version.Version, required)
			}
			return nil
		},
	}
)

func init() {
	for _, c := range []*cobra.Command{classifyCmd, enhanceCmd} {
		c.Flags().String("title", "", "complaint title")
		c.Flags().String("description", "", "complaint description")
	}
	questionsCmd.Flags().String("role", string(taxonomy.RoleStudent), "role to generate questions for")
	versionCmd.Flags().String("require", "", "fail unless the build is at least this version")
}

func oneShotApp(cmd *cobra.Command) (*app, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}
	return newApp(cmd.Context(), p)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
