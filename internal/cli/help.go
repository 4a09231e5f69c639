package cli

const rootLong = `jobly serves companies, jobs and users over a JSON HTTP API.

Configuration is read from flags, JOBLY_* environment variables (a .env file
is loaded when present) and an optional jobly.yaml, in that order of priority.

BACKENDS
  sqlite    single-file database (default), drivers: sqlite, sqlite3
  postgres  PostgreSQL via --pg-dsn, drivers: pgx, postgres

EXAMPLES
  jobly migrate --sqlite-path jobly.db
  jobly user add --username admin --password secret123 --first-name A \
      --last-name Admin --email admin@example.com --admin
  JOBLY_SECRET=change-me jobly serve --addr :3001`
