package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/petadopt/petadopt-backend/internal/auth"
	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/security"
)

const generatedPasswordLength = 16

type environment struct {
	cfg *config.Config
	db  *db.Client
}

type opener func(ctx context.Context) (*environment, error)

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "petadopt-admin",
		Short:         "Operator tasks for the pet adoption site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newCreateAdminCmd(open),
		newSetPasswordCmd(open),
		newListUsersCmd(open),
	)
	return root
}

func withEnvironment(cmd *cobra.Command, open opener, fn func(ctx context.Context, env *environment) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := open(ctx)
	if err != nil {
		return err
	}
	defer env.db.Close()
	return fn(ctx, env)
}

// readPassword takes the first line of in, so passwords stay out of argv and
// shell history.
func readPassword(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password required on stdin")
	}
	return password, nil
}

func newCreateAdminCmd(open opener) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long:  "Create an administrator account. The password is read from the first line of stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withEnvironment(cmd, open, func(ctx context.Context, env *environment) error {
				svc, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
					DB:             env.db,
					PasswordConfig: env.cfg.Password,
				})
				if err != nil {
					return err
				}
				user, err := svc.Register(ctx, auth.AdminRegisterRequest{
					Username: username,
					Email:    email,
					Password: password,
				})
				if err != nil {
					return cliError(err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "created admin %s <%s> (id %d)\n", user.Username, user.Email, user.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSetPasswordCmd(open opener) *cobra.Command {
	var email string
	var generate bool
	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Replace a user's password",
		Long:  "Replace a user's password with the first line of stdin, or with a random one when --generate is set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var password string
			var err error
			if generate {
				password, err = security.GenerateTempPassword(generatedPasswordLength)
			} else {
				password, err = readPassword(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			return withEnvironment(cmd, open, func(ctx context.Context, env *environment) error {
				svc, err := auth.NewPasswordService(auth.PasswordServiceParams{
					DB:             env.db,
					PasswordConfig: env.cfg.Password,
				})
				if err != nil {
					return err
				}
				user, err := svc.SetPassword(ctx, auth.SetPasswordRequest{Email: email, Password: password})
				if err != nil {
					return cliError(err)
				}
				out := cmd.OutOrStdout()
				if generate {
					_, err = fmt.Fprintf(out, "password for %s set to %s\n", user.Email, password)
					return err
				}
				_, err = fmt.Fprintf(out, "password for %s updated\n", user.Email)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random password and print it")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newListUsersCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnvironment(cmd, open, func(ctx context.Context, env *environment) error {
				list, err := users.NewRepository(env.db.DB()).List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE")
				for _, u := range list {
					role := "adopter"
					if u.IsAdmin {
						role = "admin"
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, role)
				}
				return tw.Flush()
			})
		},
	}
}

// cliError surfaces the user-facing message of typed errors.
func cliError(err error) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeInternal && typed.Message() != "" {
		return fmt.Errorf("%s", typed.Message())
	}
	return err
}
