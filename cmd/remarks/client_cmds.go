package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLoginCmd() *cobra.Command {
	var (
		url      string
		email    string
		password string
		name     string
		register bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a Remarks server and save the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				url = defaultURL
			}
			c := anonymousClient(url)
			if register {
				if name == "" {
					return fmt.Errorf("--name is required with --register")
				}
				if _, err := c.Register(name, email, password); err != nil {
					return err
				}
			}
			if err := c.Login(email, password); err != nil {
				return err
			}
			if err := saveSession(Session{BaseURL: c.BaseURL, Email: strings.ToLower(email), Token: c.Token}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in to %s as %s\n", c.BaseURL, email)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Server URL (default "+defaultURL+")")
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name when registering")
	cmd.Flags().BoolVar(&register, "register", false, "Create the account first")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := authenticatedClient()
			if err != nil {
				return err
			}
			if err := c.Logout(); err != nil {
				return err
			}
			return clearSession()
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := authenticatedClient()
			if err != nil {
				return err
			}
			u, err := c.Me()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid comment id %q", arg)
	}
	return id, nil
}

func newCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Read and write comments",
	}

	var (
		url     string
		page    int
		perPage int
		filter  string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := anonymousClient(url).ListComments(page, perPage, filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range result.Data {
				fmt.Fprintf(out, "#%d %s (%s): %s\n", c.ID, c.Author, c.PostedAt, c.Comment)
			}
			fmt.Fprintf(out, "page %d, %d total\n", result.Meta.CurrentPage, result.Meta.Total)
			return nil
		},
	}
	list.Flags().StringVar(&url, "url", "", "Server URL")
	list.Flags().IntVar(&page, "page", 0, "Page number")
	list.Flags().IntVar(&perPage, "per-page", 0, "Comments per page (max 50)")
	list.Flags().StringVar(&filter, "filter", "", "Match comment text or author name")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := anonymousClient(url).GetComment(id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
	show.Flags().StringVar(&url, "url", "", "Server URL")

	post := &cobra.Command{
		Use:   "post <text>",
		Short: "Post a comment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authenticatedClient()
			if err != nil {
				return err
			}
			created, err := c.PostComment(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace the text of your comment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := authenticatedClient()
			if err != nil {
				return err
			}
			updated, err := c.EditComment(id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a comment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := authenticatedClient()
			if err != nil {
				return err
			}
			if err := c.DeleteComment(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted comment #%d\n", id)
			return nil
		},
	}

	var confirm bool
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete every comment (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("refusing to delete all comments without --yes")
			}
			c, err := authenticatedClient()
			if err != nil {
				return err
			}
			return c.DeleteAllComments()
		},
	}
	purge.Flags().BoolVar(&confirm, "yes", false, "Confirm deletion of all comments")

	history := &cobra.Command{
		Use:   "history <id>",
		Short: "Show every revision of your comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := authenticatedClient()
			if err != nil {
				return err
			}
			entries, err := c.History(id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, e := range entries {
				fmt.Fprintf(out, "%d. [%s] %s\n", i+1, e.CreatedAt, e.Comment)
			}
			return nil
		},
	}

	cmd.AddCommand(list, show, post, edit, del, purge, history)
	return cmd
}
