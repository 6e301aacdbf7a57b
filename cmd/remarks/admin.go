package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alphabot-ai/remarks/internal/auth"
	"github.com/alphabot-ai/remarks/internal/dto"
	"github.com/alphabot-ai/remarks/internal/store"
	"github.com/alphabot-ai/remarks/internal/store/sqlite"

	"github.com/spf13/cobra"
)

// withStore opens the configured store, runs fn and closes the store.
func withStore(configPath string, fn func(ctx context.Context, st store.Store, authSvc *auth.Service) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()
	authSvc := auth.NewService(st, auth.Options{
		Secret:     cfg.TokenSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	}, log)
	return fn(context.Background(), st, authSvc)
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(*configPath, func(_ context.Context, st store.Store, _ *auth.Service) error {
				out := cmd.OutOrStdout()
				if s, ok := st.(*sqlite.Store); ok {
					v, err := s.SchemaVersion()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "schema at version %d\n", v)
					return nil
				}
				fmt.Fprintln(out, "schema up to date")
				return nil
			})
		},
	}
}

func newUserCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts directly in the database",
	}

	var (
		name     string
		email    string
		password string
		admin    bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(*configPath, func(ctx context.Context, _ store.Store, authSvc *auth.Service) error {
				u, err := authSvc.Register(ctx, dto.RegisterInput{Name: name, Email: email, Password: password})
				if err != nil {
					return err
				}
				if admin {
					if err := authSvc.Promote(ctx, u.Email); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user #%d %s <%s>\n", u.ID, u.Name, u.Email)
				return nil
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "Display name (required)")
	create.Flags().StringVar(&email, "email", "", "Email address (required)")
	create.Flags().StringVar(&password, "password", "", "Password (required)")
	create.Flags().BoolVar(&admin, "admin", false, "Grant admin privileges")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	promote := &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant admin privileges to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(ctx context.Context, _ store.Store, authSvc *auth.Service) error {
				if err := authSvc.Promote(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", strings.ToLower(args[0]))
				return nil
			})
		},
	}

	cmd.AddCommand(create, promote)
	return cmd
}
