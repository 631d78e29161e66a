package config

import (
	"gopkg.in/yaml.v3"
)

var defaults Config

func init() {
	raw := []byte(`version: v1

# Hardcover GraphQL endpoint queried for the backup.
endpoint: "https://hardcover-production.hasura.app/v1/graphql"

# The only file kept inside the backup directory.
filename: "data.json"
`)

	if err := yaml.Unmarshal(raw, &defaults); err != nil {
		panic(err)
	}
}
