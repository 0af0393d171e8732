// Package all registers every built-in storage backend. Importing it for
// side effects is how a binary opts in to the full backend set.
package all

import (
	_ "tabload/internal/storage/mssql"
	_ "tabload/internal/storage/postgres"
	_ "tabload/internal/storage/sqlite"
)
