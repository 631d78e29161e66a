package cmd

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakewharton/hardcover-data-sync/internal/backup"
	"github.com/jakewharton/hardcover-data-sync/internal/client/graphql"
	"github.com/jakewharton/hardcover-data-sync/internal/log"
	"github.com/jakewharton/hardcover-data-sync/internal/runner"
)

func Root() *cobra.Command {
	cmd := cobra.Command{
		Use:           "hardcover-data-sync --bearer <token> <dir>",
		Short:         "Download all user data from Hardcover into a folder for backup",
		Long:          "Download all user data from Hardcover into a folder for backup.\n\nThe content of <dir> is replaced by a single data.json file.",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if getDebug() {
				log.Set()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, args[0])
		},
	}

	setAPIFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired(bearerF)

	return &cmd
}

func runSync(cmd *cobra.Command, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := log.Get()
	logger.Debug("starting sync", zap.String("endpoint", cfg.Endpoint), zap.String("dir", dir))

	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return errors.New("unexpected default HTTP transport")
	}
	transport = transport.Clone()
	defer transport.CloseIdleConnections()

	httpClient := newAPIClient(transport, logger, cmd.ErrOrStderr())

	gqlClient, err := graphql.New(cfg.Endpoint, httpClient)
	if err != nil {
		return err
	}

	dest, err := backup.NewOS(
		dir,
		backup.WithFilename(cfg.Filename),
		backup.WithLogger(logger.Named("backup")),
	)
	if err != nil {
		return err
	}

	result, err := runner.New(
		gqlClient,
		dest,
		runner.WithLogger(logger.Named("runner")),
	).Run(cmd.Context())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.String())
	return errors.Wrap(err, "failed to write to stdout")
}
