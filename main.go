package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/jakewharton/hardcover-data-sync/internal/client/graphql"
	"github.com/jakewharton/hardcover-data-sync/internal/cmd"
	"github.com/jakewharton/hardcover-data-sync/internal/log"
	"github.com/jakewharton/hardcover-data-sync/internal/version"
)

func root() int {
	defer log.Flush()

	root := cmd.Root()
	root.Version = version.Summary()
	if err := root.Execute(); err != nil {
		// GraphQL errors are printed as the service returned them.
		var respErr *graphql.ResponseError
		if errors.As(err, &respErr) {
			_, _ = fmt.Fprintln(os.Stderr, respErr.JSON())
			return 1
		}
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func main() {
	os.Exit(root())
}
